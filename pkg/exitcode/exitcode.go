// Package exitcode provides standardized exit codes for relic
package exitcode

// Exit codes for the relic CLI
const (
	Success         = 0
	GeneralError    = 1
	ConfigError     = 2
	FileSystemError = 3
	PolicyViolation = 4
	GradeThreshold  = 5
	SchemaError     = 6
)

// String returns a human-readable description of the exit code
func String(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case ConfigError:
		return "Configuration error"
	case FileSystemError:
		return "File system error"
	case PolicyViolation:
		return "Policy violation"
	case GradeThreshold:
		return "Grade below threshold"
	case SchemaError:
		return "Result schema validation error"
	default:
		return "Unknown error"
	}
}
