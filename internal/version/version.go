package version

// Version is overridden at build time:
// go build -ldflags "-X git.home.luguber.info/inful/kicadexport/internal/version.Version=v0.3.0".
var Version = "dev"

// Build metadata stamped alongside Version.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	return "kicadexport " + Version + " (commit " + GitCommit + ", built " + BuildTime + ")"
}
