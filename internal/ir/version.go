package ir

// Version constants for the table format and the generator.
const (
	// TableVersion is the version of the quintuple table encoding.
	TableVersion = "1"

	// GeneratorVersion is the tmgen state generator version.
	GeneratorVersion = "0.1.0"
)
