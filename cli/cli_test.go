package cli

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/grovetools/widgets/errors"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardFlags(t *testing.T) {
	cmd := NewStandardCommand("widgets", "Dashboard widgets")
	cmd.RunE = func(*cobra.Command, []string) error { return nil }
	cmd.SetArgs([]string{"-v", "--json", "-c", "dash.yml"})
	require.NoError(t, cmd.Execute())

	opts := GetOptions(cmd)
	assert.True(t, opts.Verbose)
	assert.True(t, opts.JSONOutput)
	assert.Equal(t, "dash.yml", opts.ConfigFile)
}

func TestErrorHandlerMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{errors.ConfigNotFound("/tmp"), "Configuration not found"},
		{errors.ConfigInvalid("bad"), "Invalid configuration"},
		{errors.NotFound("genre-chart"), "Mount 'genre-chart' not found"},
		{errors.New(errors.ErrCodeStoreFailed, "locked"), "Library database error"},
		{fmt.Errorf("plain"), "Error: plain"},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		err := NewErrorHandler(false, &out).Handle(tt.err)
		assert.Equal(t, tt.err, err)
		assert.Contains(t, out.String(), tt.want)
	}
}

func TestErrorHandlerVerboseDetails(t *testing.T) {
	var out bytes.Buffer
	_ = NewErrorHandler(true, &out).Handle(errors.NotFound("genre-chart"))
	assert.Contains(t, out.String(), `"code": "MOUNT_NOT_FOUND"`)
	assert.Nil(t, NewErrorHandler(true, &out).Handle(nil))
}

func TestStyledHelp(t *testing.T) {
	root := NewStandardCommand("widgets", "Dashboard widgets")
	root.AddCommand(&cobra.Command{
		Use:   "render",
		Short: "Render widgets",
		Long:  "Bind and render widgets.\n\nExamples:\n# all widgets\nwidgets render --json",
		RunE:  func(*cobra.Command, []string) error { return nil },
	})
	ApplyStyledHelpRecursive(root)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"render", "--help"})
	require.NoError(t, root.Execute())

	help := out.String()
	assert.Contains(t, help, "WIDGETS RENDER")
	assert.Contains(t, help, "EXAMPLES")
	assert.Contains(t, help, "# all widgets")
}

func TestVersionCommand(t *testing.T) {
	root := NewStandardCommand("widgets", "Dashboard widgets")
	root.AddCommand(NewVersionCommand("widgets"))

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version", "--json"})
	require.NoError(t, root.Execute())
	assert.True(t, strings.Contains(out.String(), `"version": "dev"`))
}

func TestWrapText(t *testing.T) {
	wrapped := wrapText("one two three four five", 9)
	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, len(line), 9)
	}
}
