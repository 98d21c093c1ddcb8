package exitcode

const (
	Success        = 0
	UsageError     = 1
	InputError     = 2
	DBConnError    = 3
	TransformError = 4
	TrainError     = 5
	ExportError    = 6
)
