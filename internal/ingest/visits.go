package ingest

import (
	"context"

	"github.com/gyeh/ehrload/internal/model"
	"github.com/gyeh/ehrload/internal/warehouse"
)

// resolveVisits returns the visits recorded for patientNum at exactly age.
// A nil age matches nothing. An empty result is not an error.
func resolveVisits(ctx context.Context, gw warehouse.Gateway, patientNum int64, age *model.Age) ([]int64, error) {
	if age == nil {
		return nil, nil
	}
	return gw.VisitsByPatientAge(ctx, patientNum, *age)
}
