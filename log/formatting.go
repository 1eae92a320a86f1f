package log

import (
	"fmt"
	"strings"
)

func (s Severity) String() string {
	switch s {
	case TraceLevel:
		return "TRAC"
	case DebugLevel:
		return "DEBU"
	case InfoLevel:
		return "INFO"
	case WarningLevel:
		return "WARN"
	case ErrorLevel:
		return "ERRO"
	case CriticalLevel:
		return "CRIT"
	default:
		return "NONE"
	}
}

// ParseLevel returns the level for the given name, or 0 if the name is unknown.
func ParseLevel(level string) Severity {
	switch strings.ToLower(level) {
	case "trace":
		return TraceLevel
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warning":
		return WarningLevel
	case "error":
		return ErrorLevel
	case "critical":
		return CriticalLevel
	}
	return 0
}

func formatLine(line *logLine) string {
	file := line.file
	if len(file) > 40 {
		file = file[len(file)-40:]
	}

	if line.line == 0 {
		return fmt.Sprintf("%s ? %s %s", line.timestamp.Format("060102 15:04:05.000"), line.level, line.msg)
	}
	return fmt.Sprintf("%s %s:%d %s %s", line.timestamp.Format("060102 15:04:05.000"), file, line.line, line.level, line.msg)
}
