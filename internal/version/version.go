// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Constellation matching, calibration windows, debug HTTP API
// 0.2.0 - Sensor fusion ladder, CSV replay source, map view mode
// 0.1.0 - Initial release: star catalog, sky orientation, TUI sky view
