package exitcode

const (
	Success         = 0
	UsageError      = 1
	ValidationError = 2 // malformed input files
	DBConnError     = 3
	LoadError       = 4 // warehouse write failed mid-run
	MigrationError  = 5
)
