package sapgui

import (
	"fmt"
	"io"
)

// LogOutput is the writer for verbose logging (set by main).
var LogOutput io.Writer = io.Discard

// SetLogOutput sets the writer for verbose logging.
func SetLogOutput(w io.Writer) {
	LogOutput = w
}

func logf(format string, args ...any) {
	fmt.Fprintf(LogOutput, format+"\n", args...)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
