package ingest

import (
	"context"

	"github.com/gyeh/ehrload/internal/sheet"
)

// importEvents records every event as a visit with the subject's age at
// that time point. It writes no observations.
func (im *importer) importEvents(ctx context.Context, file string) (fileStats, error) {
	var st fileStats
	for row, err := range sheet.Rows(file, eventColumns, decodeEvent) {
		if err != nil {
			return st, err
		}
		st.read++
		if _, _, err := im.visit(ctx, row.SubjectCode, row.EventID, row.Age); err != nil {
			return st, err
		}
		st.loaded++
	}
	return st, nil
}
