package warehouse

import (
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/gyeh/ehrload/internal/model"
)

// ErrColumnLimit reports a value that does not fit its i2b2 column. Both
// gateways check it before writing, so a dry run fails where an import would.
var ErrColumnLimit = errors.New("value exceeds i2b2 column limit")

// Column sizes from the i2b2demodata migration.
const (
	maxIdeLen    = 200  // patient_ide, encounter_ide
	maxSourceLen = 50   // *_ide_source, project_id, provider_id
	maxCodeLen   = 50   // concept_cd
	maxPathLen   = 700  // concept_path
	maxNameLen   = 2000 // name_char

	// nval_num is decimal(18,5): at most 13 integer digits.
	maxNumeric = 1e13
)

func checkLen(column, v string, max int) error {
	if n := utf8.RuneCountInString(v); n > max {
		return fmt.Errorf("%w: %s %q has %d characters, max %d", ErrColumnLimit, column, v, n, max)
	}
	return nil
}

func checkPatientIDE(ide model.PatientIDE) error {
	return errors.Join(
		checkLen("patient_ide", ide.Ide, maxIdeLen),
		checkLen("patient_ide_source", ide.Source, maxSourceLen),
		checkLen("project_id", ide.ProjectID, maxSourceLen),
	)
}

func checkEncounterIDE(ide model.EncounterIDE) error {
	return errors.Join(
		checkLen("encounter_ide", ide.Ide, maxIdeLen),
		checkLen("encounter_ide_source", ide.Source, maxSourceLen),
		checkLen("project_id", ide.ProjectID, maxSourceLen),
		checkLen("patient_ide", ide.PatientIde, maxIdeLen),
		checkLen("patient_ide_source", ide.PatientSource, maxSourceLen),
	)
}

func checkConcept(c model.Concept) error {
	err := errors.Join(
		checkLen("concept_path", c.Path, maxPathLen),
		checkLen("concept_cd", c.Code, maxCodeLen),
		checkLen("name_char", c.Name, maxNameLen),
	)
	if err != nil {
		return fmt.Errorf("save concept %s: %w", c.Path, err)
	}
	return nil
}

func checkObservation(o model.Observation) error {
	if !o.Value.Valid() {
		return fmt.Errorf("save observation %s for encounter %d: inconsistent value %+v",
			o.ConceptCode, o.EncounterNum, o.Value)
	}
	err := errors.Join(
		checkLen("concept_cd", o.ConceptCode, maxCodeLen),
		checkLen("provider_id", o.ProviderID, maxSourceLen),
	)
	if n := o.Value.Number; n != nil && math.Abs(*n) >= maxNumeric {
		err = errors.Join(err, fmt.Errorf("%w: nval_num %g out of range for decimal(18,5)", ErrColumnLimit, *n))
	}
	if err != nil {
		return fmt.Errorf("save observation %s for encounter %d: %w", o.ConceptCode, o.EncounterNum, err)
	}
	return nil
}
