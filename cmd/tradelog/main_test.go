package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestParseCommand_Args(t *testing.T) {
	cfg := writeTestConfig(t, "environment:\n  log_level: error\n")

	out, err := execute(t, "", "parse", "--config", cfg, "--format", "csv",
		"SELL -4 CALENDAR SHOP 100 (Weeklys) 13 FEB 26/16 JAN 26 160 PUT @6.75 LMT")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "input,status,reason,"))
	assert.Contains(t, lines[1], "SHOP")
	assert.Contains(t, lines[1], "-4")
	assert.Contains(t, lines[1], "OPEN")
	assert.Contains(t, lines[2], "CLOSE")
}

func TestParseCommand_Stdin(t *testing.T) {
	cfg := writeTestConfig(t, "environment:\n  log_level: error\noutput:\n  format: json\n")
	stdin := "BUY +2 BE 100 15 JAN 27 50 CALL @52.60 LMT\n\n" +
		"SELL -2 1/3 BACKRATIO AMZN 100 16 JAN 26 247.5/260 CALL @-1.49 LMT\n"

	out, err := execute(t, stdin, "parse", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, `"symbol": "BE"`)
	assert.Contains(t, out, `"symbol": "AMZN"`)
	assert.Contains(t, out, `"spread_type": "BACKRATIO"`)
}

func TestParseCommand_FailuresExitNonZero(t *testing.T) {
	cfg := writeTestConfig(t, "environment:\n  log_level: error\n")

	out, err := execute(t, "", "parse", "--config", cfg,
		"BUY +2 BE 100 15 JAN 27 50 CALL @52.60 LMT", "hello world")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 trade lines failed to parse")
	assert.Contains(t, out, "BE")
	assert.Contains(t, out, "no_action")
}

func TestParseCommand_BadConfig(t *testing.T) {
	cfg := writeTestConfig(t, "output:\n  format: xlsx\n")

	_, err := execute(t, "", "parse", "--config", cfg, "BUY +2 BE 100 15 JAN 27 50 CALL @52.60 LMT")
	assert.ErrorContains(t, err, "output.format")
}

func TestReadLines(t *testing.T) {
	lines, err := readLines(strings.NewReader("  a  \n\n\t\nb\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, lines)
}

func TestLoadConfig_DefaultWhenMissing(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "table", cfg.Output.Format)
}
