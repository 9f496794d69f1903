package version

// Set at build time with
// -ldflags "-X github.com/chainsink/geyser-sink/internal/version.Version=... -X github.com/chainsink/geyser-sink/internal/version.Commit=..."
var (
	Version string
	Commit  string
)
