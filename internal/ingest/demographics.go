package ingest

import (
	"context"

	"github.com/gyeh/ehrload/internal/normalize"
	"github.com/gyeh/ehrload/internal/sheet"
)

func (im *importer) importDemographics(ctx context.Context, file string) (fileStats, error) {
	var st fileStats
	for row, err := range sheet.Rows(file, demographicColumns, decodeDemographic) {
		if err != nil {
			return st, err
		}
		st.read++
		sex := normalize.Sex(row.Sex, im.sexCodes)
		if _, err := im.patient(ctx, row.SubjectCode, &sex); err != nil {
			return st, err
		}
		st.loaded++
	}
	return st, nil
}
