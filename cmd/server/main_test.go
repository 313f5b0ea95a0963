package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootHelp(t *testing.T) {
	buf := &bytes.Buffer{}
	root := newRootCommand()
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"--help"})

	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "serve")
	assert.Contains(t, buf.String(), "migrate")
}

func TestMigrateCommand_SQLite(t *testing.T) {
	t.Setenv("MEDVERITAS_STORAGE_BACKEND", "sqlite")
	t.Setenv("MEDVERITAS_STORAGE_SQLITE_PATH", filepath.Join(t.TempDir(), "cli.db"))
	t.Setenv("MEDVERITAS_SERVER_LOG_LEVEL", "error")

	for _, args := range [][]string{{"migrate", "up"}, {"migrate", "status"}, {"migrate", "down"}} {
		root := newRootCommand()
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})
		root.SetArgs(args)
		require.NoError(t, root.Execute(), args)
	}
}

func TestMigrateCommand_RejectsExtraArgs(t *testing.T) {
	root := newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"migrate", "up", "now"})
	assert.Error(t, root.Execute())
}

func TestMigrateCommand_MissingConfigFile(t *testing.T) {
	root := newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml"), "migrate", "status"})
	assert.ErrorContains(t, root.Execute(), "failed to load configuration")
}
