package ingest

import (
	"context"

	"github.com/gyeh/ehrload/internal/normalize"
	"github.com/gyeh/ehrload/internal/sheet"
)

// importDiagCategories attaches each row's diagnosis category to every visit
// the subject had at the row's age. Rows without such a visit write nothing.
func (im *importer) importDiagCategories(ctx context.Context, file string) (fileStats, error) {
	var st fileStats
	code, err := im.concept(ctx, "diag_category", "Diag Category", "Diagnosis", "Diag Category")
	if err != nil {
		return st, err
	}

	for row, err := range sheet.Rows(file, diagCategoryColumns, decodeDiagCategory) {
		if err != nil {
			return st, err
		}
		st.read++

		patientNum, err := im.gw.PatientNum(ctx, im.patientIDE(row.SubjectCode))
		if err != nil {
			return st, err
		}
		visits, err := resolveVisits(ctx, im.gw, patientNum, row.Age)
		if err != nil {
			return st, err
		}
		if len(visits) == 0 {
			st.unmatched++
			ev := im.log.Debug().Str("file", file).Int("line", row.Line).Str("subject", row.SubjectCode)
			if row.Age != nil {
				ev = ev.Stringer("age", row.Age)
			}
			ev.Msg("no visit at this age, row skipped")
			continue
		}

		value := normalize.Value(row.Category)
		for _, encounterNum := range visits {
			if err := im.observe(ctx, patientNum, encounterNum, code, value); err != nil {
				return st, err
			}
			st.observations++
		}
		st.loaded++
	}
	return st, nil
}
