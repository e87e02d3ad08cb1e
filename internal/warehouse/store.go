package warehouse

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gyeh/ehrload/internal/model"
	embedsql "github.com/gyeh/ehrload/internal/sql"
)

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is the Postgres Gateway over the i2b2demodata schema.
type Store struct {
	db Querier
}

var _ Gateway = (*Store)(nil)

// NewStore returns a Store issuing its statements on db.
func NewStore(db Querier) *Store {
	return &Store{db: db}
}

func (s *Store) PatientNum(ctx context.Context, ide model.PatientIDE) (int64, error) {
	if err := checkPatientIDE(ide); err != nil {
		return 0, err
	}
	return s.getOrCreate(ctx, "patient "+ide.Ide,
		embedsql.LookupPatientNum, embedsql.InsertPatientMapping,
		ide.Ide, ide.Source, ide.ProjectID)
}

func (s *Store) EncounterNum(ctx context.Context, ide model.EncounterIDE) (int64, error) {
	if err := checkEncounterIDE(ide); err != nil {
		return 0, err
	}
	return s.getOrCreate(ctx, "encounter "+ide.Ide,
		embedsql.LookupEncounterNum, embedsql.InsertEncounterMapping,
		ide.Ide, ide.Source, ide.ProjectID, ide.PatientIde, ide.PatientSource)
}

// getOrCreate looks the mapping up, inserts it when absent and looks it up
// again when a concurrent writer won the insert.
func (s *Store) getOrCreate(ctx context.Context, what, lookup, insert string, args ...any) (int64, error) {
	var num int64
	err := s.db.QueryRow(ctx, lookup, args...).Scan(&num)
	if err == nil {
		return num, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("lookup %s: %w", what, err)
	}

	err = s.db.QueryRow(ctx, insert, args...).Scan(&num)
	if err == nil {
		return num, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("register %s: %w", what, err)
	}

	if err := s.db.QueryRow(ctx, lookup, args...).Scan(&num); err != nil {
		return 0, fmt.Errorf("lookup %s after conflict: %w", what, err)
	}
	return num, nil
}

func (s *Store) SavePatient(ctx context.Context, p model.Patient) error {
	if _, err := s.db.Exec(ctx, embedsql.UpsertPatient, p.Num, p.Sex); err != nil {
		return fmt.Errorf("save patient %d: %w", p.Num, err)
	}
	return nil
}

func (s *Store) SaveVisit(ctx context.Context, v model.Visit) error {
	var age *int32
	if v.Age != nil {
		months := int32(*v.Age)
		age = &months
	}
	if _, err := s.db.Exec(ctx, embedsql.UpsertVisit, v.EncounterNum, v.PatientNum, age); err != nil {
		return fmt.Errorf("save visit %d: %w", v.EncounterNum, err)
	}
	return nil
}

func (s *Store) SaveConcept(ctx context.Context, c model.Concept) error {
	if err := checkConcept(c); err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, embedsql.UpsertConcept, c.Path, c.Code, c.Name); err != nil {
		return fmt.Errorf("save concept %s: %w", c.Path, err)
	}
	return nil
}

func (s *Store) SaveObservation(ctx context.Context, o model.Observation) error {
	if err := checkObservation(o); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx, embedsql.UpsertObservation,
		o.EncounterNum, o.PatientNum, o.ConceptCode, o.ProviderID, o.StartDate,
		string(o.Value.Type), o.Value.Text, o.Value.Number)
	if err != nil {
		return fmt.Errorf("save observation %s for encounter %d: %w", o.ConceptCode, o.EncounterNum, err)
	}
	return nil
}

func (s *Store) VisitsByPatientAge(ctx context.Context, patientNum int64, age model.Age) ([]int64, error) {
	rows, err := s.db.Query(ctx, embedsql.VisitsByPatientAge, patientNum, int32(age))
	if err != nil {
		return nil, fmt.Errorf("query visits of patient %d at %s: %w", patientNum, age, err)
	}
	nums, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("scan visits of patient %d at %s: %w", patientNum, age, err)
	}
	return nums, nil
}

func (s *Store) RecordFile(ctx context.Context, f model.ImportedFile) error {
	_, err := s.db.Exec(ctx, embedsql.RecordImportFile,
		f.RunID, f.Dataset, f.Category, f.Path, f.SHA256,
		f.RowsRead, f.RowsLoaded, f.RowsDiscarded, f.ImportedAt)
	if err != nil {
		return fmt.Errorf("record import of %s: %w", f.Path, err)
	}
	return nil
}
