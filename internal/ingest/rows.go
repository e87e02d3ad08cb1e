package ingest

import (
	"github.com/gyeh/ehrload/internal/model"
	"github.com/gyeh/ehrload/internal/normalize"
	"github.com/gyeh/ehrload/internal/sheet"
)

// Required header columns per category.
var (
	scoreColumns = []string{
		"SUBJECT_ID", "EVENT_ID", "SUBJ_AGE_YEARS", "SUBJ_AGE_MONTHS",
		"TEST_VALUE_NAME", "TEST_VALUE_CODE", "TEST_VALUE", "TEST_VALUE_TYPE",
	}

	eventColumns        = []string{"ID_EVENT", "SUBJECT_CODE", "EVENT_SUBJ_AGE_YEARS", "EVENT_SUBJ_AGE_MONTHS"}
	demographicColumns  = []string{"SUBJECT_CODE", "SEX"}
	diagCategoryColumns = []string{"SUBJECT_CODE", "SUBJ_AGE_YEARS", "SUBJ_AGE_MONTHS", "DIAG_CATEGORY"}
	diagnosticColumns   = []string{"ID_EVENT", "SUBJ_CODE", "DIAG_ICD10"}

	labColumns = []string{
		"EVENT_ID", "SUBJECT_ID", "SUBJ_AGE_YEARS", "SUBJ_AGE_MONTHS",
		"LVALUE_CODE", "LVALUE_NAME", "LVALUE",
	}
)

// fields collects cells from one record and keeps the first failure, so a
// decoder can read every column before checking a single error.
type fields struct {
	rec sheet.Record
	err error
}

// required returns the trimmed cell, recording an error when it is blank.
func (f *fields) required(column string) string {
	if f.err != nil {
		return ""
	}
	v, err := f.rec.Required(column)
	if err != nil {
		f.err = err
	}
	return v
}

// age normalizes a (years, months) column pair.
func (f *fields) age(years, months string) *model.Age {
	if f.err != nil {
		return nil
	}
	a, err := normalize.Age(f.rec.Get(years), f.rec.Get(months))
	if err != nil {
		f.err = f.rec.Malformed(years+", "+months, err)
		return nil
	}
	return a
}

func decodeScore(rec sheet.Record) (model.ScoreRow, error) {
	f := fields{rec: rec}
	row := model.ScoreRow{
		Line:      rec.Line,
		SubjectID: f.required("SUBJECT_ID"),
		EventID:   f.required("EVENT_ID"),
		Age:       f.age("SUBJ_AGE_YEARS", "SUBJ_AGE_MONTHS"),
		ValueName: rec.Get("TEST_VALUE_NAME"),
		ValueCode: rec.Get("TEST_VALUE_CODE"),
		Value:     rec.Get("TEST_VALUE"),
		ValueType: rec.Trimmed("TEST_VALUE_TYPE"),
	}
	return row, f.err
}

func decodeEvent(rec sheet.Record) (model.EventRow, error) {
	f := fields{rec: rec}
	row := model.EventRow{
		Line:        rec.Line,
		EventID:     f.required("ID_EVENT"),
		SubjectCode: f.required("SUBJECT_CODE"),
		Age:         f.age("EVENT_SUBJ_AGE_YEARS", "EVENT_SUBJ_AGE_MONTHS"),
	}
	return row, f.err
}

func decodeDemographic(rec sheet.Record) (model.DemographicRow, error) {
	f := fields{rec: rec}
	row := model.DemographicRow{
		Line:        rec.Line,
		SubjectCode: f.required("SUBJECT_CODE"),
		Sex:         rec.Get("SEX"),
	}
	return row, f.err
}

func decodeDiagCategory(rec sheet.Record) (model.DiagCategoryRow, error) {
	f := fields{rec: rec}
	row := model.DiagCategoryRow{
		Line:        rec.Line,
		SubjectCode: f.required("SUBJECT_CODE"),
		Age:         f.age("SUBJ_AGE_YEARS", "SUBJ_AGE_MONTHS"),
		Category:    rec.Get("DIAG_CATEGORY"),
	}
	return row, f.err
}

func decodeDiagnostic(rec sheet.Record) (model.DiagnosticRow, error) {
	f := fields{rec: rec}
	row := model.DiagnosticRow{
		Line:        rec.Line,
		EventID:     f.required("ID_EVENT"),
		SubjectCode: f.required("SUBJ_CODE"),
		ICD10:       rec.Trimmed("DIAG_ICD10"),
		ICD10Full:   rec.Trimmed("DIAG_ICD10_FULL"),
	}
	return row, f.err
}

func decodeLab(rec sheet.Record) (model.LabRow, error) {
	f := fields{rec: rec}
	row := model.LabRow{
		Line:      rec.Line,
		EventID:   f.required("EVENT_ID"),
		SubjectID: f.required("SUBJECT_ID"),
		Age:       f.age("SUBJ_AGE_YEARS", "SUBJ_AGE_MONTHS"),
		ValueCode: rec.Get("LVALUE_CODE"),
		ValueName: rec.Get("LVALUE_NAME"),
		Value:     rec.Get("LVALUE"),
	}
	return row, f.err
}
