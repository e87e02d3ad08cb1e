package ingest

import (
	"context"
	"iter"

	"github.com/gyeh/ehrload/internal/model"
	"github.com/gyeh/ehrload/internal/normalize"
	"github.com/gyeh/ehrload/internal/sheet"
)

const nominal = "NOMINAL"

// score is a Scores row whose value name and code both parsed.
type score struct {
	model.ScoreRow
	name string // parsed TEST_VALUE_NAME, e.g. "Gait_Speed"
	code string // parsed TEST_VALUE_CODE, e.g. "GS"
}

// prepareScores drops NOMINAL rows, then rows whose value name or value code
// does not parse, and only then decodes identifiers and age, so a dropped
// row never fails the file. Every record is counted as read; every dropped
// row as discarded.
func prepareScores(recs iter.Seq2[sheet.Record, error], st *fileStats) iter.Seq2[score, error] {
	quantitative := sheet.Filter(recs, func(rec sheet.Record) bool {
		st.read++
		if rec.Trimmed("TEST_VALUE_TYPE") == nominal {
			st.discarded++
			return false
		}
		return true
	})
	return func(yield func(score, error) bool) {
		for rec, err := range quantitative {
			if err != nil {
				yield(score{}, err)
				return
			}
			code, codeOK := normalize.ValueCode(rec.Get("TEST_VALUE_CODE"))
			name, nameOK := normalize.ValueName(rec.Get("TEST_VALUE_NAME"))
			if !codeOK || !nameOK {
				st.discarded++
				continue
			}
			row, err := decodeScore(rec)
			if err != nil {
				yield(score{}, err)
				return
			}
			if !yield(score{ScoreRow: row, name: name, code: code}, nil) {
				return
			}
		}
	}
}

func (im *importer) importScores(ctx context.Context, file string) (fileStats, error) {
	var st fileStats
	for s, err := range prepareScores(sheet.Rows(file, scoreColumns, sheet.Raw), &st) {
		if err != nil {
			return st, err
		}
		patientNum, encounterNum, err := im.visit(ctx, s.SubjectID, s.EventID, s.Age)
		if err != nil {
			return st, err
		}
		code, err := im.concept(ctx, s.name, s.code, "Scores", s.name)
		if err != nil {
			return st, err
		}
		if err := im.observe(ctx, patientNum, encounterNum, code, normalize.Value(s.Value)); err != nil {
			return st, err
		}
		st.loaded++
		st.observations++
	}
	return st, nil
}
