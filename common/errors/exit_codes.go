package errors

type ExitCode int

const (
	GenericFailureExitCode ExitCode = 1

	// Conductor client specific exit codes
	ConnectionFailureExitCode ExitCode = 2
	HTTPFailureExitCode       ExitCode = 3
	BundleFailureExitCode     ExitCode = 4

	// Packager specific exit codes
	PackageFailureExitCode ExitCode = 5
)
