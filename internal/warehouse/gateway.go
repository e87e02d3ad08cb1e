// Package warehouse persists i2b2 patients, visits, concepts and
// observation facts.
package warehouse

import (
	"context"

	"github.com/gyeh/ehrload/internal/model"
)

// Gateway is the warehouse handle the importer writes through. Every method
// is idempotent: resolving an identity twice yields the same key and saving
// the same row twice leaves a single row.
type Gateway interface {
	// PatientNum returns the patient key for ide, allocating one on first use.
	PatientNum(ctx context.Context, ide model.PatientIDE) (int64, error)
	// EncounterNum returns the visit key for ide, allocating one on first use.
	EncounterNum(ctx context.Context, ide model.EncounterIDE) (int64, error)

	SavePatient(ctx context.Context, p model.Patient) error
	SaveVisit(ctx context.Context, v model.Visit) error
	SaveConcept(ctx context.Context, c model.Concept) error
	SaveObservation(ctx context.Context, o model.Observation) error

	// VisitsByPatientAge returns the keys of the visits recorded for
	// patientNum at exactly age, in ascending order.
	VisitsByPatientAge(ctx context.Context, patientNum int64, age model.Age) ([]int64, error)

	// RecordFile appends f to the import ledger.
	RecordFile(ctx context.Context, f model.ImportedFile) error
}
