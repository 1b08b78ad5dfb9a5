package cli

import "fmt"

var (
	// Version contains the application version number. It's set via ldflags
	// when building.
	Version = ""

	// CommitSHA contains the SHA of the commit that this application was built
	// against. It's set via ldflags when building.
	CommitSHA = ""
)

// ConfigPaths lists the JSON files flag defaults are read from, in order of precedence.
var ConfigPaths = []string{
	".hledger.json",
	"~/.config/hledger/config.json",
}

// BuildVersion returns the version string shown by --version.
func BuildVersion() string {
	version := Version
	if version == "" {
		version = "dev"
	}
	if CommitSHA == "" {
		return version
	}
	return fmt.Sprintf("%s (%s)", version, CommitSHA)
}

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool `help:"Show timing telemetry for operations."`
}

type Commands struct {
	Globals

	Check  CheckCmd  `cmd:"" help:"Parse and check an hledger journal file."`
	Doctor DoctorCmd `cmd:"" help:"Doctor utilities for debugging journal files."`
	Format FormatCmd `cmd:"" help:"Format a journal file to align posting amounts."`
}
