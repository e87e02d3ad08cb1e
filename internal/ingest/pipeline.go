package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/ehrload/internal/config"
	"github.com/gyeh/ehrload/internal/model"
	"github.com/gyeh/ehrload/internal/normalize"
	"github.com/gyeh/ehrload/internal/warehouse"
)

// PipelineError wraps an error with the phase where it occurred. The phase
// is "discover" or a category name.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

type fileImporter func(im *importer, ctx context.Context, file string) (fileStats, error)

var importers = map[string]fileImporter{
	model.Scores.Name:         (*importer).importScores,
	model.Events.Name:         (*importer).importEvents,
	model.Demographics.Name:   (*importer).importDemographics,
	model.DiagCategories.Name: (*importer).importDiagCategories,
	model.ICD10Diagnoses.Name: (*importer).importICD10,
	model.LabResults.Name:     (*importer).importLabResults,
}

var narration = map[string]string{
	model.Scores.Name:         "importing scores (neuropsychological scores, etc.)",
	model.Events.Name:         "importing events (patient age at event time-point)",
	model.Demographics.Name:   "importing demographics (patient sex)",
	model.DiagCategories.Name: "importing diagnosis categories",
	model.ICD10Diagnoses.Name: "importing ICD10 diagnoses",
	model.Morphology.Name:     "importing morphology",
	model.LabResults.Name:     "importing lab results (LCR)",
}

// Run imports every category selected in cfg, in canonical order, through
// gw. Categories run one after another; diagcats only finds the visits that
// scores and events recorded before it. The first error aborts the run.
func Run(ctx context.Context, gw warehouse.Gateway, log zerolog.Logger, cfg *config.Config) (*model.ImportSummary, error) {
	totalStart := time.Now()
	runID := uuid.New()
	log = log.With().Str("run_id", runID.String()).Str("dataset", cfg.Dataset).Logger()

	categories := cfg.Selected()

	log.Info().Str("input", cfg.InputDir).Msg("discovering input files")
	files, err := Discover(cfg.InputDir, categories)
	if err != nil {
		return nil, &PipelineError{Phase: "discover", Err: err}
	}

	im := &importer{
		gw:       gw,
		log:      log,
		dataset:  cfg.Dataset,
		sexCodes: cfg.SexCodes,
	}

	summary := &model.ImportSummary{
		RunID:    runID,
		Dataset:  cfg.Dataset,
		InputDir: cfg.InputDir,
	}
	for _, c := range categories {
		cs, err := im.importCategory(ctx, runID, c, files[c.Name])
		if err != nil {
			return nil, &PipelineError{Phase: c.Name, Err: err}
		}
		summary.Categories = append(summary.Categories, cs)
	}
	summary.DurationTotal = time.Since(totalStart)

	read, discarded, observations := summary.Totals()
	log.Info().
		Int64("rows_read", read).
		Int64("rows_discarded", discarded).
		Int64("observations", observations).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("import complete")

	return summary, nil
}

// importCategory runs one category pass over its files and records each file
// in the import ledger.
func (im *importer) importCategory(ctx context.Context, runID uuid.UUID, c model.Category, files []string) (model.CategorySummary, error) {
	start := time.Now()
	cs := model.CategorySummary{Category: c.Name, Files: files}
	log := im.log.With().Str("category", c.Name).Logger()

	log.Info().Int("files", len(files)).Msg(narration[c.Name])

	if c == model.Morphology {
		importMorphology(log)
		return cs, nil
	}
	run := importers[c.Name]

	var total fileStats
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return cs, err
		}

		sha, err := normalize.FileHash(file)
		if err != nil {
			return cs, err
		}

		fileStart := time.Now()
		log.Info().Str("file", file).Msg("reading data")
		st, err := run(im, ctx, file)
		if err != nil {
			return cs, fmt.Errorf("%s: %w", filepath.Base(file), err)
		}
		total.add(st)

		err = im.gw.RecordFile(ctx, model.ImportedFile{
			RunID:         runID,
			Dataset:       im.dataset,
			Category:      c.Name,
			Path:          file,
			SHA256:        sha,
			RowsRead:      st.read,
			RowsLoaded:    st.loaded,
			RowsDiscarded: st.discarded,
			ImportedAt:    time.Now(),
		})
		if err != nil {
			return cs, err
		}

		log.Info().
			Str("file", file).
			Int64("rows_read", st.read).
			Int64("rows_discarded", st.discarded).
			Int64("rows_unmatched", st.unmatched).
			Int64("observations", st.observations).
			Dur("duration", time.Since(fileStart)).
			Msg("file imported")
	}

	cs.RowsRead = total.read
	cs.RowsDiscarded = total.discarded
	cs.RowsUnmatched = total.unmatched
	cs.Observations = total.observations
	cs.Duration = time.Since(start)
	return cs, nil
}
