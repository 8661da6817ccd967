package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usagelens/usagelens/internal/presentation/formatter"
)

func writeExport(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.csv")
	content := "date,model,total_tokens,requests,cost\n" +
		"2024-01-01,glm-4,100,5,1.2\n" +
		"2024-01-02,glm,50,2,0.3\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	// Flag values persist across Execute calls; reset to defaults so
	// each case only sees its own arguments.
	outputFormat = "table"
	groupBy = "time"
	granularity = "daily"
	fromDate, toDate = "", ""
	categories = nil
	metric = "usage"
	watch = false
	logFile = defaultLogFile

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootTableOutput(t *testing.T) {
	out, err := runRoot(t, "--input", writeExport(t))
	require.NoError(t, err)
	assert.Contains(t, out, "2024-01-01")
	assert.Contains(t, out, "Total")
}

func TestRootJSONOutput(t *testing.T) {
	out, err := runRoot(t, "--input", writeExport(t), "-o", "json", "--group-by", "category")
	require.NoError(t, err)

	var report formatter.Report
	require.NoError(t, sonic.UnmarshalString(out, &report))
	assert.Equal(t, 2, report.Stats.ValidRecords)
	require.NotEmpty(t, report.Categories)
	assert.Equal(t, "GLM-4", report.Categories[0].Category)
}

func TestRootDateFilter(t *testing.T) {
	out, err := runRoot(t, "--input", writeExport(t), "-o", "json",
		"--from", "2024-01-02", "--to", "2024-01-02")
	require.NoError(t, err)

	var report formatter.Report
	require.NoError(t, sonic.UnmarshalString(out, &report))
	assert.Equal(t, 1, report.Stats.ValidRecords)
}

func TestRootUnusableLogDirFallsBackToConsole(t *testing.T) {
	// A regular file where the log directory should go makes MkdirAll
	// fail; the command warns and still produces its report.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	out, err := runRoot(t, "--input", writeExport(t),
		"--log-file", filepath.Join(blocker, "logs", "app.log"))
	require.NoError(t, err)
	assert.Contains(t, out, "warning: cannot create log directory")
	assert.Contains(t, out, "Total")
}

func TestRootMissingInputFails(t *testing.T) {
	_, err := runRoot(t, "--input", filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
