// mkfixture writes a small synthetic dataset, one XLSX workbook per category,
// with visits shared across categories so every join has something to match.
// Usage: go run ./cmd/mkfixture --out testdata/clm --prefix CLM --subjects 20
package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/gyeh/ehrload/internal/model"
	"github.com/gyeh/ehrload/internal/sheet"
)

type visit struct {
	event   string
	subject string
	years   int
	months  int
}

var (
	scoreTests = []struct{ name, code string }{
		{"Gait Speed", "GS"},
		{"Memory Score", "MEM"},
		{"Trail Making A", "TMTA"},
	}
	labTests = []struct{ name, code string }{
		{"Total  Tau", "TAU"},
		{"Amyloid Beta 42", "AB42"},
	}
	diagCategories = []string{"MCI", "AD", "CN", "FTD"}
	icd10Codes     = []string{"G30.1", "F03", "G31.84", "Z03.89"}
)

func main() {
	out := flag.String("out", "testdata/clm", "output folder")
	prefix := flag.String("prefix", "CLM", "file name prefix")
	subjects := flag.Int("subjects", 20, "number of subjects")
	seed := flag.Uint64("seed", 1, "random seed")
	checkOnly := flag.Bool("check", false, "only read back the files in --out and print row counts")
	flag.Parse()

	if *checkOnly {
		check(*out)
		return
	}

	if err := os.MkdirAll(*out, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "create output: %v\n", err)
		os.Exit(1)
	}

	rng := rand.New(rand.NewPCG(*seed, *seed))

	var visits []visit
	for s := 1; s <= *subjects; s++ {
		subject := fmt.Sprintf("S%03d", s)
		years := 55 + rng.IntN(30)
		months := rng.IntN(12)
		n := 1 + rng.IntN(3)
		for e := 1; e <= n; e++ {
			visits = append(visits, visit{
				event:   fmt.Sprintf("%s-E%d", subject, e),
				subject: subject,
				years:   years,
				months:  months,
			})
			months += 6
			if months >= 12 {
				years++
				months -= 12
			}
		}
	}

	tables := map[string][][]any{
		"Scores":       scores(rng, visits),
		"Events":       events(visits),
		"Demographics": demographics(rng, *subjects),
		"DiagCats":     diagCats(rng, visits),
		"Diagnostics":  diagnostics(rng, visits),
		"LCR":          labs(rng, visits),
	}
	for _, c := range model.AllCategories {
		rows, ok := tables[c.Suffix]
		if !ok {
			continue
		}
		path := filepath.Join(*out, *prefix+"_"+c.Suffix+".xlsx")
		if err := writeWorkbook(path, rows); err != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("  %-12s %4d rows  %s\n", c.Name, len(rows)-1, path)
	}
	fmt.Printf("Wrote %d subjects, %d visits to %s\n", *subjects, len(visits), *out)
}

func scores(rng *rand.Rand, visits []visit) [][]any {
	rows := [][]any{{"SUBJECT_ID", "EVENT_ID", "SUBJ_AGE_YEARS", "SUBJ_AGE_MONTHS",
		"TEST_VALUE_NAME", "TEST_VALUE_CODE", "TEST_VALUE", "TEST_VALUE_TYPE"}}
	for _, v := range visits {
		for _, t := range scoreTests {
			rows = append(rows, []any{v.subject, v.event, v.years, v.months,
				"STD." + t.name + ": value", t.code + ": value", float64(rng.IntN(1000)) / 10, "CONTINUOUS"})
		}
		// Rows the importer is expected to drop.
		rows = append(rows,
			[]any{v.subject, v.event, v.years, v.months, "STD.Handedness: value", "HAND: value", "right", "NOMINAL"},
			[]any{v.subject, v.event, v.years, v.months, "STD.Gait Speed: percentile", "GS: percentile", rng.IntN(100), "CONTINUOUS"},
		)
	}
	return rows
}

func events(visits []visit) [][]any {
	rows := [][]any{{"ID_EVENT", "SUBJECT_CODE", "EVENT_SUBJ_AGE_YEARS", "EVENT_SUBJ_AGE_MONTHS"}}
	for _, v := range visits {
		rows = append(rows, []any{v.event, v.subject, v.years, v.months})
	}
	return rows
}

func demographics(rng *rand.Rand, subjects int) [][]any {
	sexes := []string{"M", "F", "female", "Homme", ""}
	rows := [][]any{{"SUBJECT_CODE", "SEX"}}
	for s := 1; s <= subjects; s++ {
		rows = append(rows, []any{fmt.Sprintf("S%03d", s), sexes[rng.IntN(len(sexes))]})
	}
	return rows
}

func diagCats(rng *rand.Rand, visits []visit) [][]any {
	rows := [][]any{{"SUBJECT_CODE", "SUBJ_AGE_YEARS", "SUBJ_AGE_MONTHS", "DIAG_CATEGORY"}}
	for _, v := range visits {
		if rng.IntN(2) == 0 {
			continue
		}
		rows = append(rows, []any{v.subject, v.years, v.months, diagCategories[rng.IntN(len(diagCategories))]})
	}
	return rows
}

func diagnostics(rng *rand.Rand, visits []visit) [][]any {
	rows := [][]any{{"ID_EVENT", "SUBJ_CODE", "DIAG_ICD10", "DIAG_ICD10_FULL"}}
	for _, v := range visits {
		rows = append(rows, []any{v.event, v.subject, icd10Codes[rng.IntN(len(icd10Codes))], ""})
	}
	return rows
}

func labs(rng *rand.Rand, visits []visit) [][]any {
	rows := [][]any{{"EVENT_ID", "SUBJECT_ID", "SUBJ_AGE_YEARS", "SUBJ_AGE_MONTHS",
		"LVALUE_CODE", "LVALUE_NAME", "LVALUE"}}
	for _, v := range visits {
		for _, t := range labTests {
			rows = append(rows, []any{v.event, v.subject, v.years, v.months,
				"LCR:" + t.code, "LCR." + t.name, rng.IntN(1500)})
		}
	}
	return rows
}

func writeWorkbook(path string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()
	sw, err := f.NewStreamWriter("Sheet1")
	if err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	return f.SaveAs(path)
}

// check reads every data file under dir and prints its row count.
func check(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", dir, err)
		os.Exit(1)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		r, err := sheet.Open(path)
		if err != nil {
			continue
		}
		n := 0
		for {
			_, err := r.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", err)
				break
			}
			n++
		}
		r.Close()
		fmt.Printf("  %-28s %4d rows, %d columns\n", e.Name(), n, len(r.Columns()))
	}
}
