// Package logging configures the loggo writers and levels for the process.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/juju/loggo"
)

// Root is the parent of every venuedesk logger.
const Root = "venuedesk"

// Setup sends log output to file, or to stderr when file is empty, and sets
// the venuedesk loggers to level. The returned closer releases the file.
func Setup(level, file string) (io.Closer, error) {
	lvl, ok := loggo.ParseLevel(level)
	if !ok {
		return nil, fmt.Errorf("unknown log level %q", level)
	}

	var (
		w      io.Writer = os.Stderr
		closer io.Closer = io.NopCloser(nil)
	)
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return nil, fmt.Errorf("creating log dir: %w", err)
		}
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		w, closer = f, f
	}

	loggo.ReplaceDefaultWriter(loggo.NewSimpleWriter(w, Format))
	if err := loggo.ConfigureLoggers(fmt.Sprintf("<root>=WARNING;%s=%s", Root, lvl)); err != nil {
		closer.Close()
		return nil, err
	}
	return closer, nil
}

// Format renders an entry as "2006-01-02 15:04:05 LEVEL module message".
func Format(entry loggo.Entry) string {
	ts := entry.Timestamp.In(time.UTC).Format("2006-01-02 15:04:05")
	return fmt.Sprintf("%s %s %s %s", ts, entry.Level, entry.Module, strings.TrimSpace(entry.Message))
}
