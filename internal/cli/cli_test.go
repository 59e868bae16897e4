package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionNeedsNoConfig(t *testing.T) {
	t.Setenv("PG_URL", "")
	out, err := execute(t, "version")
	assert.NoError(t, err)
	assert.Contains(t, out, "secmaster "+Version)
}

func TestCommandsRequirePGURL(t *testing.T) {
	t.Setenv("PG_URL", "")
	for _, name := range []string{"serve", "migrate", "rebuild-prices-log"} {
		t.Run(name, func(t *testing.T) {
			_, err := execute(t, name)
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), "PG_URL")
			}
		})
	}
}

func TestInvalidLogLevel(t *testing.T) {
	t.Setenv("PG_URL", "postgres://localhost/none")
	_, err := execute(t, "migrate", "--log-level", "chatty")
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "invalid log level")
	}
	logLevel = ""
}

func TestSubcommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "rebuild-prices-log", "seed", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}
