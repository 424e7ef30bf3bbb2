package constants

import "time"

// Graph cache constants
const (
	// DefaultGraphCacheTTL applies when no TTL is configured
	DefaultGraphCacheTTL = 5 * time.Minute

	// GraphFormatVersion is bumped whenever the serialized graph shape changes,
	// so cached graphs from older builds are never served
	GraphFormatVersion = "v1"
)

// HTTP server constants
const (
	// ReadHeaderTimeout bounds how long a client may take to send headers
	ReadHeaderTimeout = 10 * time.Second

	// ShutdownTimeout is how long in-flight requests get to finish on SIGTERM
	ShutdownTimeout = 5 * time.Second
)

// Store constants
const (
	// StartupTimeout bounds connectivity checks and schema setup at boot
	StartupTimeout = 15 * time.Second
)
