package model

// Category is one of the spreadsheet import categories.
type Category struct {
	Name   string // e.g. "scores"
	Suffix string // file base-name suffix, e.g. "Scores"; empty when never discovered
}

var (
	Scores         = Category{Name: "scores", Suffix: "Scores"}
	Events         = Category{Name: "events", Suffix: "Events"}
	Demographics   = Category{Name: "demographics", Suffix: "Demographics"}
	DiagCategories = Category{Name: "diagcats", Suffix: "DiagCats"}
	ICD10Diagnoses = Category{Name: "icd10", Suffix: "Diagnostics"}
	Morphology     = Category{Name: "morphology"}
	LabResults     = Category{Name: "lcr", Suffix: "LCR"}
)

// AllCategories lists the categories in the order they must be imported.
// diagcats resolves visits by (patient, age), so it has to run after the
// passes that record visit ages (scores, events).
var AllCategories = []Category{
	Scores,
	Events,
	Demographics,
	DiagCategories,
	ICD10Diagnoses,
	Morphology,
	LabResults,
}

// CategoryNames returns the names of AllCategories in import order.
func CategoryNames() []string {
	names := make([]string, len(AllCategories))
	for i, c := range AllCategories {
		names[i] = c.Name
	}
	return names
}

// CategoryByName returns the Category for the given name, or ok=false.
func CategoryByName(name string) (Category, bool) {
	for _, c := range AllCategories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}
