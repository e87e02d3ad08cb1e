package ingest_test

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	goparquet "github.com/parquet-go/parquet-go"

	"github.com/gyeh/ehrload/internal/config"
	"github.com/gyeh/ehrload/internal/db"
	"github.com/gyeh/ehrload/internal/ingest"
	"github.com/gyeh/ehrload/internal/logging"
	"github.com/gyeh/ehrload/internal/sheet"
	"github.com/gyeh/ehrload/internal/warehouse"
)

const (
	testPort     = 15434
	testDB       = "ehrtest"
	testUser     = "postgres"
	testPassword = "postgres"
)

var testDSN string

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	runtime, err := os.MkdirTemp("", "ehrload-ingest-pg")
	if err != nil {
		fmt.Fprintf(os.Stderr, "temp dir: %v\n", err)
		os.Exit(1)
	}

	pg := embeddedpostgres.NewDatabase(
		embeddedpostgres.DefaultConfig().
			Port(uint32(testPort)).
			Database(testDB).
			Username(testUser).
			Password(testPassword).
			Version(embeddedpostgres.V16).
			RuntimePath(filepath.Join(runtime, "runtime")).
			StartTimeout(30*time.Second),
	)
	if err := pg.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "embedded postgres unavailable, skipping integration tests: %v\n", err)
		code := m.Run()
		os.RemoveAll(runtime)
		os.Exit(code)
	}
	testDSN = fmt.Sprintf("postgresql://%s:%s@localhost:%d/%s?sslmode=disable",
		testUser, testPassword, testPort, testDB)

	code := m.Run()

	if err := pg.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop embedded postgres: %v\n", err)
	}
	os.RemoveAll(runtime)
	os.Exit(code)
}

// setupDB creates a connection pool and applies migrations to clean schemas.
func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() || testDSN == "" {
		t.Skip("postgres not available")
	}
	ctx := context.Background()

	pool, err := db.NewPool(ctx, testDSN)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	for _, schema := range []string{"i2b2demodata", "ingest"} {
		if _, err := pool.Exec(ctx, fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", schema)); err != nil {
			t.Fatalf("drop schema %s: %v", schema, err)
		}
	}

	log := logging.Setup("text", "")
	if err := db.ApplyMigrations(ctx, pool, log); err != nil {
		pool.Close()
		t.Fatalf("migrations: %v", err)
	}

	t.Cleanup(func() { pool.Close() })
	return pool
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

type eventRow struct {
	ID     string `parquet:"ID_EVENT"`
	Sub    string `parquet:"SUBJECT_CODE"`
	Years  int32  `parquet:"EVENT_SUBJ_AGE_YEARS"`
	Months int32  `parquet:"EVENT_SUBJ_AGE_MONTHS"`
}

func writeEventsParquet(t *testing.T, dir string, rows []eventRow) {
	t.Helper()
	if err := goparquet.WriteFile(filepath.Join(dir, "CLM_Events.parquet"), rows); err != nil {
		t.Fatalf("write parquet: %v", err)
	}
}

// writeDataset lays out one file per category covering the joins between them.
func writeDataset(t *testing.T, dir string) {
	t.Helper()
	writeFile(t, dir, "CLM_Scores.csv",
		"SUBJECT_ID,EVENT_ID,SUBJ_AGE_YEARS,SUBJ_AGE_MONTHS,TEST_VALUE_NAME,TEST_VALUE_CODE,TEST_VALUE,TEST_VALUE_TYPE\n"+
			"S1,E1,60,3,STD.Gait Speed: value,GS: value,1.23,CONTINUOUS\n"+
			"S1,E1,60,3,STD.Gait Speed: value,GS: value,slow,NOMINAL\n")
	writeEventsParquet(t, dir, []eventRow{
		{ID: "E2", Sub: "S1", Years: 60, Months: 3},
		{ID: "E3", Sub: "S1", Years: 61, Months: 0},
	})
	writeFile(t, dir, "CLM_Demographics.csv", "SUBJECT_CODE,SEX\nS1,F\n")
	writeFile(t, dir, "CLM_DiagCats.csv", "SUBJECT_CODE,SUBJ_AGE_YEARS,SUBJ_AGE_MONTHS,DIAG_CATEGORY\nS1,60,3,MCI\n")
	writeFile(t, dir, "CLM_Diagnostics.csv", "ID_EVENT,SUBJ_CODE,DIAG_ICD10\nE3,S1,G30.1\n")
	writeFile(t, dir, "CLM_LCR.csv",
		"EVENT_ID,SUBJECT_ID,SUBJ_AGE_YEARS,SUBJ_AGE_MONTHS,LVALUE_CODE,LVALUE_NAME,LVALUE\n"+
			"E3,S1,61,0,LCR:TAU,LCR.Total  Tau,412\n")
}

func scalar(t *testing.T, pool *pgxpool.Pool, query string, args ...any) int64 {
	t.Helper()
	var n int64
	if err := pool.QueryRow(context.Background(), query, args...).Scan(&n); err != nil {
		t.Fatalf("%s: %v", query, err)
	}
	return n
}

func TestIntegration_FullImport(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()

	dir := t.TempDir()
	writeDataset(t, dir)

	cfg := &config.Config{InputDir: dir, Dataset: "clm"}
	summary, err := ingest.Run(ctx, warehouse.NewStore(pool), logging.Setup("text", ""), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	read, discarded, observations := summary.Totals()
	t.Logf("read=%d discarded=%d observations=%d in %s", read, discarded, observations, summary.DurationTotal)
	if read != 8 || discarded != 1 {
		t.Errorf("totals: read=%d discarded=%d, want 8 and 1", read, discarded)
	}

	if n := scalar(t, pool, "SELECT count(*) FROM i2b2demodata.patient_mapping"); n != 1 {
		t.Errorf("patients = %d, want 1", n)
	}
	if n := scalar(t, pool, "SELECT count(*) FROM i2b2demodata.visit_dimension"); n != 3 {
		t.Errorf("visits = %d, want 3", n)
	}

	var sex string
	if err := pool.QueryRow(ctx, "SELECT sex_cd FROM i2b2demodata.patient_dimension").Scan(&sex); err != nil || sex != "F" {
		t.Errorf("sex_cd = %q (%v), want F", sex, err)
	}

	// Scores concept is keyed by the parsed value name.
	var code, name string
	err = pool.QueryRow(ctx, `SELECT concept_cd, name_char FROM i2b2demodata.concept_dimension
		WHERE concept_path = '/clm/EHR/Scores/Gait_Speed'`).Scan(&code, &name)
	if err != nil || code != "clm:Gait_Speed" || name != "GS" {
		t.Errorf("gait speed concept = %q %q (%v)", code, name, err)
	}

	var nval float64
	var tval string
	err = pool.QueryRow(ctx, `SELECT tval_char, nval_num FROM i2b2demodata.observation_fact
		WHERE concept_cd = 'clm:Gait_Speed'`).Scan(&tval, &nval)
	if err != nil || tval != "E" || nval != 1.23 {
		t.Errorf("gait speed fact = %q %v (%v)", tval, nval, err)
	}

	// E1 (scores) and E2 (events) share the age the diagnosis category names.
	if n := scalar(t, pool, "SELECT count(*) FROM i2b2demodata.observation_fact WHERE concept_cd = 'clm:diag_category'"); n != 2 {
		t.Errorf("diag category facts = %d, want 2", n)
	}

	if n := scalar(t, pool, `SELECT count(*) FROM i2b2demodata.observation_fact
		WHERE concept_cd = 'clm:icd10' AND valtype_cd = 'T' AND tval_char = 'G30.1' AND nval_num IS NULL`); n != 1 {
		t.Errorf("icd10 facts = %d, want 1", n)
	}

	if err := pool.QueryRow(ctx, `SELECT name_char FROM i2b2demodata.concept_dimension
		WHERE concept_path = '/clm/EHR/Scores/TAU'`).Scan(&name); err != nil || name != "Total Tau" {
		t.Errorf("lab concept name = %q (%v)", name, err)
	}

	if n := scalar(t, pool, "SELECT count(*) FROM i2b2demodata.observation_fact WHERE (valtype_cd = 'N') <> (nval_num IS NOT NULL AND tval_char = 'E')"); n != 0 {
		t.Errorf("%d facts violate numeric/text exclusivity", n)
	}

	if n := scalar(t, pool, "SELECT count(*) FROM ingest.import_files WHERE run_id = $1", summary.RunID); n != 6 {
		t.Errorf("ledger entries = %d, want 6", n)
	}
}

func TestIntegration_Reimport(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()

	dir := t.TempDir()
	writeDataset(t, dir)
	cfg := &config.Config{InputDir: dir, Dataset: "clm"}
	store := warehouse.NewStore(pool)

	if _, err := ingest.Run(ctx, store, logging.Setup("text", ""), cfg); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	counts := func() [4]int64 {
		return [4]int64{
			scalar(t, pool, "SELECT count(*) FROM i2b2demodata.patient_mapping"),
			scalar(t, pool, "SELECT count(*) FROM i2b2demodata.encounter_mapping"),
			scalar(t, pool, "SELECT count(*) FROM i2b2demodata.concept_dimension"),
			scalar(t, pool, "SELECT count(*) FROM i2b2demodata.observation_fact"),
		}
	}
	first := counts()

	if _, err := ingest.Run(ctx, store, logging.Setup("text", ""), cfg); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if second := counts(); second != first {
		t.Errorf("re-import changed warehouse rows: %v -> %v", first, second)
	}
}

func TestIntegration_MalformedAgeAborts(t *testing.T) {
	pool := setupDB(t)

	dir := t.TempDir()
	writeFile(t, dir, "CLM_Events.csv", "ID_EVENT,SUBJECT_CODE,EVENT_SUBJ_AGE_YEARS,EVENT_SUBJ_AGE_MONTHS\nE1,S1,abc,0\n")

	_, err := ingest.Run(context.Background(), warehouse.NewStore(pool), logging.Setup("text", ""),
		&config.Config{InputDir: dir, Dataset: "clm"})
	var me *sheet.MalformedError
	if !errors.As(err, &me) {
		t.Fatalf("expected MalformedError, got %v", err)
	}
	if me.Line != 2 {
		t.Errorf("line = %d, want 2", me.Line)
	}
	if n := scalar(t, pool, "SELECT count(*) FROM i2b2demodata.visit_dimension"); n != 0 {
		t.Errorf("visits = %d, want 0", n)
	}
}
