package buildinfo

// Set via -ldflags at build time, e.g.
// go build -ldflags "-X github.com/gilby125/weekend-trip-api/pkg/buildinfo.Version=v0.3.0 -X github.com/gilby125/weekend-trip-api/pkg/buildinfo.Commit=$(git rev-parse --short HEAD)"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Info returns the build metadata reported by /health and the CLI.
func Info() map[string]string {
	return map[string]string{
		"version": Version,
		"commit":  Commit,
		"date":    Date,
	}
}
