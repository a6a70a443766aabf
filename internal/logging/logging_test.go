package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/juju/loggo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWritesToFile(t *testing.T) {
	t.Cleanup(loggo.ResetLogging)
	path := filepath.Join(t.TempDir(), "logs", "venuedesk.log")

	closer, err := Setup("DEBUG", path)
	require.NoError(t, err)

	logger := loggo.GetLogger("venuedesk.test")
	logger.Debugf("pass %s started", "abc")
	loggo.GetLogger("other").Infof("filtered")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "DEBUG venuedesk.test pass abc started")
	assert.NotContains(t, string(data), "filtered")
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	_, err := Setup("LOUD", "")
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	got := Format(loggo.Entry{
		Level:     loggo.WARNING,
		Module:    "venuedesk.sync",
		Timestamp: time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC),
		Message:   "fetching invoices: boom\n",
	})
	assert.Equal(t, "2024-06-10 09:00:00 WARNING venuedesk.sync fetching invoices: boom", got)
}
