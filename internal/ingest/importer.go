package ingest

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gyeh/ehrload/internal/model"
	"github.com/gyeh/ehrload/internal/warehouse"
)

// importer maps category rows onto warehouse writes for one dataset.
type importer struct {
	gw       warehouse.Gateway
	log      zerolog.Logger
	dataset  string
	sexCodes map[string]string
}

// fileStats counts what one file contributed.
type fileStats struct {
	read         int64
	loaded       int64
	discarded    int64
	unmatched    int64
	observations int64
}

func (s *fileStats) add(o fileStats) {
	s.read += o.read
	s.loaded += o.loaded
	s.discarded += o.discarded
	s.unmatched += o.unmatched
	s.observations += o.observations
}

func (im *importer) patientIDE(subject string) model.PatientIDE {
	return model.PatientIDE{Ide: subject, Source: im.dataset, ProjectID: im.dataset}
}

func (im *importer) encounterIDE(event, subject string) model.EncounterIDE {
	return model.EncounterIDE{
		Ide:           event,
		Source:        im.dataset,
		ProjectID:     im.dataset,
		PatientIde:    subject,
		PatientSource: im.dataset,
	}
}

// patient resolves the subject's patient key and saves the patient. A nil
// sex leaves the stored value untouched.
func (im *importer) patient(ctx context.Context, subject string, sex *string) (int64, error) {
	num, err := im.gw.PatientNum(ctx, im.patientIDE(subject))
	if err != nil {
		return 0, err
	}
	if err := im.gw.SavePatient(ctx, model.Patient{Num: num, Sex: sex}); err != nil {
		return 0, err
	}
	return num, nil
}

// visit resolves the event's visit and its patient and saves both. A nil
// age leaves the stored visit age untouched.
func (im *importer) visit(ctx context.Context, subject, event string, age *model.Age) (patientNum, encounterNum int64, err error) {
	encounterNum, err = im.gw.EncounterNum(ctx, im.encounterIDE(event, subject))
	if err != nil {
		return 0, 0, err
	}
	patientNum, err = im.patient(ctx, subject, nil)
	if err != nil {
		return 0, 0, err
	}
	err = im.gw.SaveVisit(ctx, model.Visit{EncounterNum: encounterNum, PatientNum: patientNum, Age: age})
	if err != nil {
		return 0, 0, err
	}
	return patientNum, encounterNum, nil
}

// concept registers /<dataset>/EHR/<segments...> with code <dataset>:<shortname>
// and returns the code. Segments are joined verbatim, without path cleaning.
func (im *importer) concept(ctx context.Context, shortname, name string, segments ...string) (string, error) {
	c := model.Concept{
		Path: "/" + strings.Join(append([]string{im.dataset, "EHR"}, segments...), "/"),
		Code: im.dataset + ":" + shortname,
		Name: name,
	}
	if err := im.gw.SaveConcept(ctx, c); err != nil {
		return "", err
	}
	return c.Code, nil
}

func (im *importer) observe(ctx context.Context, patientNum, encounterNum int64, code string, v model.ObservationValue) error {
	return im.gw.SaveObservation(ctx, model.Observation{
		EncounterNum: encounterNum,
		PatientNum:   patientNum,
		ConceptCode:  code,
		ProviderID:   im.dataset,
		StartDate:    model.DefaultStartDate,
		Value:        v,
	})
}
