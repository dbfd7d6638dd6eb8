package tkb

import (
	"strings"

	"github.com/akeil/tkb/internal/logging"
)

// SetLogLevel sets the log level from a name like "debug" or "warning".
// Unknown names disable logging.
func SetLogLevel(level string) {
	var lvl logging.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = logging.LevelDebug
	case "info":
		lvl = logging.LevelInfo
	case "warning", "warn":
		lvl = logging.LevelWarning
	case "error":
		lvl = logging.LevelError
	default:
		lvl = logging.LevelNone
	}
	logging.SetLevel(lvl)
}

// SetLogFormat selects "json" or "text" (the default) log output.
func SetLogFormat(format string) {
	logging.SetJSON(strings.ToLower(format) == "json")
}
