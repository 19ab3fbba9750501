package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/lectern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestVersionCommand(t *testing.T) {
	out := execute(t, "version")
	assert.Equal(t, "lectern version "+strings.TrimSpace(lectern.Version)+"\n", out)
}

func TestGraphCommand(t *testing.T) {
	out := execute(t, "graph", "quick-outline")
	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
}

func TestRunRequiresWorkflowID(t *testing.T) {
	rootCmd.SetArgs([]string{"run"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	assert.Error(t, rootCmd.Execute())
}
