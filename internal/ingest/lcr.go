package ingest

import (
	"context"
	"errors"

	"github.com/gyeh/ehrload/internal/normalize"
	"github.com/gyeh/ehrload/internal/sheet"
)

var errNoLabCode = errors.New("no lab code")

// importLabResults stores one observation per lab row under a concept
// derived from LVALUE_CODE and LVALUE_NAME. Unlike scores, lab codes and
// names are never discarded: malformed values pass through as-is.
func (im *importer) importLabResults(ctx context.Context, file string) (fileStats, error) {
	var st fileStats
	if _, err := im.concept(ctx, "lcr", "LCR", "Lab", "LCR"); err != nil {
		return st, err
	}

	for row, err := range sheet.Rows(file, labColumns, decodeLab) {
		if err != nil {
			return st, err
		}
		st.read++

		shortname := normalize.LabCode(row.ValueCode)
		if shortname == "" {
			return st, &sheet.MalformedError{Path: file, Line: row.Line, Column: "LVALUE_CODE", Err: errNoLabCode}
		}
		patientNum, encounterNum, err := im.visit(ctx, row.SubjectID, row.EventID, row.Age)
		if err != nil {
			return st, err
		}
		code, err := im.concept(ctx, shortname, normalize.LabName(row.ValueName), "Scores", shortname)
		if err != nil {
			return st, err
		}
		if err := im.observe(ctx, patientNum, encounterNum, code, normalize.Value(row.Value)); err != nil {
			return st, err
		}
		st.loaded++
		st.observations++
	}
	return st, nil
}
