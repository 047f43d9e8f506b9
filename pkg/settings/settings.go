// Package settings provides build metadata, per-invocation options, and
// context helpers shared by the tagq CLI, TUI, and server.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "tagq"

// VersionInformation is populated at build time via ldflags and holds the
// commit hash, semantic version, and build timestamp of the running binary.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Run holds configuration settings for a single execution of the application:
// log verbosity, where logs go, and how output is rendered.
type Run struct {
	MinLogLevel int8
	LogFile     string
	ConfigFile  string
	IsQuiet     bool
	NoColor     bool
	Interactive bool
}

// NewCliParams returns Run settings with CLI defaults: info logging to
// stderr, colour enabled, non-interactive.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		IsQuiet:     false,
		NoColor:     false,
		Interactive: false,
	}
}

// DebugLevel maps a debug toggle onto the zap level scale used by the logger:
// debug => -1 (zap.DebugLevel), otherwise 0 (zap.InfoLevel).
func DebugLevel(debug bool) int8 {
	if debug {
		return -1
	}
	return 0
}
