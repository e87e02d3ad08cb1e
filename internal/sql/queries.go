package sql

import (
	"embed"
)

// Migrations holds the warehouse DDL, applied in filename order.
//
//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed queries/lookup_patient_num.sql
var LookupPatientNum string

//go:embed queries/insert_patient_mapping.sql
var InsertPatientMapping string

//go:embed queries/lookup_encounter_num.sql
var LookupEncounterNum string

//go:embed queries/insert_encounter_mapping.sql
var InsertEncounterMapping string

//go:embed queries/upsert_patient.sql
var UpsertPatient string

//go:embed queries/upsert_visit.sql
var UpsertVisit string

//go:embed queries/upsert_concept.sql
var UpsertConcept string

//go:embed queries/upsert_observation.sql
var UpsertObservation string

//go:embed queries/visits_by_patient_age.sql
var VisitsByPatientAge string

//go:embed queries/record_import_file.sql
var RecordImportFile string
