// Package cellar presents the Homebrew package manager as a programmable
// catalog: search, inspect, install, uninstall and upgrade packages through
// a strictly serialized brew command queue.
package cellar

// Version is the cellar release version.
const Version = "0.2.0"
