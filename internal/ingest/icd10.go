package ingest

import (
	"context"

	"github.com/gyeh/ehrload/internal/normalize"
	"github.com/gyeh/ehrload/internal/sheet"
)

func (im *importer) importICD10(ctx context.Context, file string) (fileStats, error) {
	var st fileStats
	code, err := im.concept(ctx, "icd10", "ICD 10", "Diagnosis", "ICD10")
	if err != nil {
		return st, err
	}

	for row, err := range sheet.Rows(file, diagnosticColumns, decodeDiagnostic) {
		if err != nil {
			return st, err
		}
		st.read++

		patientNum, encounterNum, err := im.visit(ctx, row.SubjectCode, row.EventID, nil)
		if err != nil {
			return st, err
		}
		// The target schema has no ICD10 lookup table for the full label.
		if row.ICD10Full != "" {
			im.log.Debug().Str("icd10", row.ICD10).Str("label", row.ICD10Full).Msg("icd10 label not stored")
		}
		if err := im.observe(ctx, patientNum, encounterNum, code, normalize.TextValue(row.ICD10)); err != nil {
			return st, err
		}
		st.loaded++
		st.observations++
	}
	return st, nil
}
