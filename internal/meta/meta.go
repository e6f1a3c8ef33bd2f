package meta

const (
	// CLIName is the binary name used in help text, config paths,
	// and environment variable prefixes (uppercased).
	CLIName = "awsrp"

	// ProductName is the long form name of the project.
	ProductName = "aws-resource-providers"
)
