package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs a fresh command tree and returns its stdout
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		wantErr        bool
		expectedOutput string
	}{
		{"root command without args shows help", []string{}, false, "SongPeaks"},
		{"root command with --help", []string{"--help"}, false, "Available Commands:"},
		{"root command with invalid flag", []string{"--invalid-flag"}, true, ""},
		{"serve help", []string{"serve", "--help"}, false, "Start the SongPeaks API server"},
		{"serve with invalid port", []string{"serve", "--port", "invalid"}, true, ""},
		{"migrate help", []string{"migrate", "--help"}, false, "Manage the SQLite file"},
		{"timeline help", []string{"timeline", "--help"}, false, "--create"},
		{"sections needs args", []string{"sections", "add", "x"}, true, ""},
		{"play flags are exclusive", []string{"play", "dQw4w9WgXcQ", "--section", "a", "--suggestion", "1"}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			if tt.expectedOutput != "" {
				assert.Contains(t, out, tt.expectedOutput)
			}
		})
	}
}

func TestPersistentFlags(t *testing.T) {
	cmd := NewRootCmd()

	logFlag := cmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, logFlag)
	assert.Equal(t, "info", logFlag.DefValue)

	assert.NotNil(t, cmd.PersistentFlags().Lookup("json-logs"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("db"))
}

func TestNewRootCmd_FreshTrees(t *testing.T) {
	first := NewRootCmd()
	second := NewRootCmd()
	assert.NotSame(t, first, second)

	_, _, err := first.Find([]string{"favorites", "add"})
	assert.NoError(t, err)
}
