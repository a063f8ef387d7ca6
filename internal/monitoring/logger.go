package monitoring

import "log"

// Logf is the diagnostic logger for refresh cycles and backend calls. It
// defaults to log.Printf but may be replaced by SetLogger; the desktop
// shell redirects it into its status console, tests mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
