package normalize

import "strings"

// Sex codes stored in patient_dimension.sex_cd.
const (
	SexMale    = "M"
	SexFemale  = "F"
	SexUnknown = "U"
)

var sexCodes = map[string]string{
	"M":        SexMale,
	"MALE":     SexMale,
	"MAN":      SexMale,
	"H":        SexMale,
	"HOMME":    SexMale,
	"MASCULIN": SexMale,
	"F":        SexFemale,
	"FEMALE":   SexFemale,
	"WOMAN":    SexFemale,
	"W":        SexFemale,
	"FEMME":    SexFemale,
	"FEMININ":  SexFemale,
	"FÉMININ":  SexFemale,
}

// IsSexCode reports whether code is one of M, F or U.
func IsSexCode(code string) bool {
	return code == SexMale || code == SexFemale || code == SexUnknown
}

// Sex maps a raw SEX cell to M, F or U. Lookups are case-insensitive;
// extra entries (keys upper-cased by the caller) take precedence over the
// built-in vocabulary.
func Sex(raw string, extra map[string]string) string {
	key := strings.ToUpper(strings.TrimSpace(raw))
	if code, ok := extra[key]; ok {
		return code
	}
	if code, ok := sexCodes[key]; ok {
		return code
	}
	return SexUnknown
}
