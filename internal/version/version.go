// internal/version/version.go
package version

// Version is overridden at link time: -ldflags "-X repsim/internal/version.Version=..."
var Version = "0.3.0-dev"
