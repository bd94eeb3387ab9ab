package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "pathstore", cmd.Use)
	assert.Contains(t, cmd.Long, "key path")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"get", "set", "delete", "append", "contains", "cat", "info", "query"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	defaults := map[string]string{
		"config":       "",
		"backend":      "file",
		"db":           "pathstore.db",
		"encoding":     "utf-8",
		"codec":        "",
		"strict-kinds": "false",
	}
	for name, def := range defaults {
		flag := cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, "flag %s", name)
		assert.Equal(t, def, flag.DefValue, "flag %s", name)
	}
}

func TestValueFlagsAreRequired(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"set", "append", "contains"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)

		flag := sub.Flags().Lookup("value")
		require.NotNil(t, flag, "%s should have --value", name)
		assert.Equal(t, []string{"true"}, flag.Annotations[cobra.BashCompOneRequiredFlag])
	}

	sub, _, err := cmd.Find([]string{"query"})
	require.NoError(t, err)
	require.NotNil(t, sub.Flags().Lookup("expr"))
}

func TestListFlags(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"get", "append", "contains"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		flag := sub.Flags().Lookup("list")
		require.NotNil(t, flag, "%s should have --list", name)
		assert.Equal(t, "false", flag.DefValue)
	}

	sub, _, err := cmd.Find([]string{"set"})
	require.NoError(t, err)
	parents := sub.Flags().Lookup("parents")
	require.NotNil(t, parents)
	assert.Equal(t, "p", parents.Shorthand)
}

func TestInvalidFormat(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"info", "cfg.json", "--format", "xml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
