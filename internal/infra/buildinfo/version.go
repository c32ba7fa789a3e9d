package buildinfo

import "runtime"

// Set at build time with ldflags. A plain "go build" yields a dev
// binary with unknown commit and time.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Info is the JSON shape of "docvault version --output json".
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// Get returns the stamped build identity plus the compiling Go
// version.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
}

// String renders the one-line form used by the version command.
func String() string {
	return Version + " (" + Commit + ") built at " + BuildTime
}
