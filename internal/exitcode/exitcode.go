package exitcode

const (
	Success       = 0
	UsageError    = 1
	SourceError   = 2
	DBConnError   = 3
	SnapshotError = 4
	EngineError   = 5
)
