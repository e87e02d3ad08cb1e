package model

import (
	"fmt"
	"time"
)

// Age is a patient age in whole months. Integer months keep the
// (patient, age) visit join exact across files.
type Age int32

// Years returns the whole-year part of the age.
func (a Age) Years() int { return int(a) / 12 }

// Months returns the month remainder after whole years.
func (a Age) Months() int { return int(a) % 12 }

func (a Age) String() string {
	return fmt.Sprintf("%dy%dm", a.Years(), a.Months())
}

// ValueType is the i2b2 valtype_cd of an observation.
type ValueType string

const (
	Numeric ValueType = "N"
	Text    ValueType = "T"
)

// EncodedNumeric is the tval_char stored alongside a numeric nval_num.
const EncodedNumeric = "E"

// DefaultStartDate is the start_date of every observation; the sources carry
// subject ages, not calendar dates.
var DefaultStartDate = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// PatientIDE identifies a patient in patient_mapping.
type PatientIDE struct {
	Ide       string // source subject code
	Source    string // patient_ide_source (dataset)
	ProjectID string // project_id (dataset)
}

// EncounterIDE identifies a visit in encounter_mapping.
type EncounterIDE struct {
	Ide           string // source event id
	Source        string // encounter_ide_source (dataset)
	ProjectID     string // project_id (dataset)
	PatientIde    string // source subject code
	PatientSource string // patient_ide_source (dataset)
}

// Patient is a patient_dimension row. A nil Sex leaves any stored value intact.
type Patient struct {
	Num int64
	Sex *string
}

// Visit is a visit_dimension row. A nil Age leaves any stored value intact.
type Visit struct {
	EncounterNum int64
	PatientNum   int64
	Age          *Age
}

// Concept is a concept_dimension row.
type Concept struct {
	Path string // e.g. "/ds/EHR/Scores/Gait_Speed"
	Code string // e.g. "ds:Gait_Speed"
	Name string
}

// ObservationValue is the typed value triple of an observation.
// Either Type is Numeric, Text is EncodedNumeric and Number is set, or
// Type is Text, Text is the raw value and Number is nil.
type ObservationValue struct {
	Type   ValueType
	Text   string
	Number *float64
}

// Valid reports whether v satisfies the numeric/text exclusivity rule.
func (v ObservationValue) Valid() bool {
	switch v.Type {
	case Numeric:
		return v.Number != nil && v.Text == EncodedNumeric
	case Text:
		return v.Number == nil
	}
	return false
}

// Observation is an observation_fact row.
type Observation struct {
	EncounterNum int64
	PatientNum   int64
	ConceptCode  string
	ProviderID   string // dataset
	StartDate    time.Time
	Value        ObservationValue
}
