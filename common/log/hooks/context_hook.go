package hooks

import (
	"runtime/debug"
	"strings"

	"github.com/sirupsen/logrus"
)

type contextHook struct {
}

// NewContextHook returns a hook that stamps each entry with the file:line of the logging call.
func NewContextHook() contextHook {
	return contextHook{}
}

func (hook contextHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (hook contextHook) Fire(entry *logrus.Entry) error {
	entry.Data["file:line"] = callerOf(string(debug.Stack()))
	return nil
}

// callerOf finds the first frame below the logrus frames of a goroutine stack dump.
// Only the tab-indented "path/file.go:line +0x.." rows are considered.
func callerOf(stack string) string {
	inLogrus := false
	for _, line := range strings.Split(stack, "\n") {
		if !strings.HasPrefix(line, "\t") {
			continue
		}
		if strings.Contains(line, "sirupsen/logrus") {
			inLogrus = true
			continue
		}
		if !inLogrus {
			continue
		}
		ctx := strings.Split(line, "conduct/")
		return strings.Fields(strings.TrimSpace(ctx[len(ctx)-1]))[0]
	}
	return ""
}
