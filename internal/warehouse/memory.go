package warehouse

import (
	"cmp"
	"context"
	"maps"
	"slices"

	"github.com/gyeh/ehrload/internal/model"
)

type visitKey struct {
	encounter, patient int64
}

type observationKey struct {
	encounter int64
	concept   string
	provider  string
	start     int64
	patient   int64
}

// Memory is an in-process Gateway. It backs dry runs and tests. Keys are
// allocated from 1 upwards in first-reference order. It is not safe for
// concurrent use.
type Memory struct {
	nextPatient   int64
	nextEncounter int64

	patientNums   map[model.PatientIDE]int64
	encounterNums map[model.EncounterIDE]int64
	patients      map[int64]model.Patient
	visits        map[visitKey]model.Visit
	concepts      map[string]model.Concept
	observations  map[observationKey]model.Observation
	files         []model.ImportedFile
}

var _ Gateway = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		patientNums:   make(map[model.PatientIDE]int64),
		encounterNums: make(map[model.EncounterIDE]int64),
		patients:      make(map[int64]model.Patient),
		visits:        make(map[visitKey]model.Visit),
		concepts:      make(map[string]model.Concept),
		observations:  make(map[observationKey]model.Observation),
	}
}

func (m *Memory) PatientNum(_ context.Context, ide model.PatientIDE) (int64, error) {
	if err := checkPatientIDE(ide); err != nil {
		return 0, err
	}
	if num, ok := m.patientNums[ide]; ok {
		return num, nil
	}
	m.nextPatient++
	m.patientNums[ide] = m.nextPatient
	return m.nextPatient, nil
}

func (m *Memory) EncounterNum(_ context.Context, ide model.EncounterIDE) (int64, error) {
	if err := checkEncounterIDE(ide); err != nil {
		return 0, err
	}
	if num, ok := m.encounterNums[ide]; ok {
		return num, nil
	}
	m.nextEncounter++
	m.encounterNums[ide] = m.nextEncounter
	return m.nextEncounter, nil
}

func (m *Memory) SavePatient(_ context.Context, p model.Patient) error {
	if old, ok := m.patients[p.Num]; ok && p.Sex == nil {
		p.Sex = old.Sex
	}
	m.patients[p.Num] = p
	return nil
}

func (m *Memory) SaveVisit(_ context.Context, v model.Visit) error {
	k := visitKey{v.EncounterNum, v.PatientNum}
	if old, ok := m.visits[k]; ok && v.Age == nil {
		v.Age = old.Age
	}
	m.visits[k] = v
	return nil
}

func (m *Memory) SaveConcept(_ context.Context, c model.Concept) error {
	if err := checkConcept(c); err != nil {
		return err
	}
	m.concepts[c.Path] = c
	return nil
}

func (m *Memory) SaveObservation(_ context.Context, o model.Observation) error {
	if err := checkObservation(o); err != nil {
		return err
	}
	k := observationKey{
		encounter: o.EncounterNum,
		concept:   o.ConceptCode,
		provider:  o.ProviderID,
		start:     o.StartDate.UnixNano(),
		patient:   o.PatientNum,
	}
	m.observations[k] = o
	return nil
}

func (m *Memory) VisitsByPatientAge(_ context.Context, patientNum int64, age model.Age) ([]int64, error) {
	var nums []int64
	for k, v := range m.visits {
		if k.patient == patientNum && v.Age != nil && *v.Age == age {
			nums = append(nums, k.encounter)
		}
	}
	slices.Sort(nums)
	return nums, nil
}

func (m *Memory) RecordFile(_ context.Context, f model.ImportedFile) error {
	m.files = append(m.files, f)
	return nil
}

// Patients returns the stored patients ordered by key.
func (m *Memory) Patients() []model.Patient {
	return slices.SortedFunc(maps.Values(m.patients), func(a, b model.Patient) int {
		return cmp.Compare(a.Num, b.Num)
	})
}

// Visits returns the stored visits ordered by encounter key.
func (m *Memory) Visits() []model.Visit {
	return slices.SortedFunc(maps.Values(m.visits), func(a, b model.Visit) int {
		return cmp.Or(cmp.Compare(a.EncounterNum, b.EncounterNum), cmp.Compare(a.PatientNum, b.PatientNum))
	})
}

// Concepts returns the stored concepts ordered by path.
func (m *Memory) Concepts() []model.Concept {
	return slices.SortedFunc(maps.Values(m.concepts), func(a, b model.Concept) int {
		return cmp.Compare(a.Path, b.Path)
	})
}

// Observations returns the stored facts ordered by encounter, then concept.
func (m *Memory) Observations() []model.Observation {
	return slices.SortedFunc(maps.Values(m.observations), func(a, b model.Observation) int {
		return cmp.Or(
			cmp.Compare(a.EncounterNum, b.EncounterNum),
			cmp.Compare(a.ConceptCode, b.ConceptCode),
			cmp.Compare(a.PatientNum, b.PatientNum),
		)
	})
}

// Files returns the ledger entries in recording order.
func (m *Memory) Files() []model.ImportedFile {
	return slices.Clone(m.files)
}
