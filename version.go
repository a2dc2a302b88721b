// Package timeserver provides the version information for time-server.
package timeserver

// Version is the current version of time-server.
const Version = "1.0.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
