package runtime

// Overridden at build time via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	Timestamp = "unknown"
)
