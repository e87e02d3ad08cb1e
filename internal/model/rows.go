package model

// Row types mirror the fixed column sets of each category's spreadsheet.
// They are populated by the sheet reader after header validation, so every
// identifier field is non-empty and ages are already normalized.

// ScoreRow is one line of a *Scores file.
type ScoreRow struct {
	Line      int
	SubjectID string // SUBJECT_ID
	EventID   string // EVENT_ID
	Age       *Age   // SUBJ_AGE_YEARS + SUBJ_AGE_MONTHS
	ValueName string // TEST_VALUE_NAME, e.g. "STD.Gait Speed: value"
	ValueCode string // TEST_VALUE_CODE, e.g. "GS: value"
	Value     string // TEST_VALUE
	ValueType string // TEST_VALUE_TYPE, e.g. "CONTINUOUS" or "NOMINAL"
}

// EventRow is one line of an *Events file.
type EventRow struct {
	Line        int
	EventID     string // ID_EVENT
	SubjectCode string // SUBJECT_CODE
	Age         *Age   // EVENT_SUBJ_AGE_YEARS + EVENT_SUBJ_AGE_MONTHS
}

// DemographicRow is one line of a *Demographics file.
type DemographicRow struct {
	Line        int
	SubjectCode string // SUBJECT_CODE
	Sex         string // SEX, raw
}

// DiagCategoryRow is one line of a *DiagCats file.
type DiagCategoryRow struct {
	Line        int
	SubjectCode string // SUBJECT_CODE
	Age         *Age   // SUBJ_AGE_YEARS + SUBJ_AGE_MONTHS
	Category    string // DIAG_CATEGORY
}

// DiagnosticRow is one line of a *Diagnostics file.
type DiagnosticRow struct {
	Line        int
	EventID     string // ID_EVENT
	SubjectCode string // SUBJ_CODE
	ICD10       string // DIAG_ICD10
	ICD10Full   string // DIAG_ICD10_FULL, optional
}

// LabRow is one line of a *LCR file.
type LabRow struct {
	Line      int
	EventID   string // EVENT_ID
	SubjectID string // SUBJECT_ID
	Age       *Age   // SUBJ_AGE_YEARS + SUBJ_AGE_MONTHS
	ValueCode string // LVALUE_CODE
	ValueName string // LVALUE_NAME
	Value     string // LVALUE
}
