package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/grovetools/widgets/cli"
	"github.com/grovetools/widgets/dashboard"
	"github.com/grovetools/widgets/tui/theme"
	"github.com/spf13/cobra"
)

// NewRenderCmd creates the render command.
func NewRenderCmd() *cobra.Command {
	var rendererName string
	var width int

	cmd := &cobra.Command{
		Use:   "render [mount...]",
		Short: "Bind widgets and print what each mount shows",
		Long: `Bind every widget in widgets.yml (or only the named mounts) to an
in-memory document and print the result: Chart.js config documents for
the chartjs renderer, text charts for the terminal renderer.

Examples:
# render every widget with the configured renderer
widgets render

# render one widget as a text chart
widgets render genre-chart --renderer terminal

# machine-readable output
widgets render --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.GetOptions(cmd)
			logger := cli.GetLogger(cmd)

			cfg, err := cli.LoadConfig(opts)
			if err != nil {
				return err
			}

			s, err := openSession(cmd.Context(), cfg, rendererName, width, args, logger)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Ready(cmd.Context()); err != nil {
				return err
			}

			if opts.JSONOutput {
				return writeJSON(cmd.OutOrStdout(), s.Outputs())
			}
			writeText(cmd.OutOrStdout(), s.Outputs())
			return nil
		},
	}

	cmd.Flags().StringVarP(&rendererName, "renderer", "r", "", "Renderer override: chartjs, terminal")
	cmd.Flags().IntVarP(&width, "width", "w", 0, "Terminal chart width in cells")
	return cmd
}

type jsonOutput struct {
	Mount    string          `json:"mount"`
	Kind     string          `json:"kind"`
	Chart    json.RawMessage `json:"chart,omitempty"`
	Text     string          `json:"text,omitempty"`
	Fallback string          `json:"fallback,omitempty"`
}

func writeJSON(w io.Writer, outputs []output) error {
	items := make([]jsonOutput, 0, len(outputs))
	for _, o := range outputs {
		item := jsonOutput{Mount: o.Mount, Kind: o.Node.Kind}
		switch {
		case o.Node.Kind == dashboard.FallbackKind:
			item.Fallback = string(o.Node.Payload)
		case json.Valid(o.Node.Payload):
			item.Chart = json.RawMessage(o.Node.Payload)
		default:
			item.Text = string(o.Node.Payload)
		}
		items = append(items, item)
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func writeText(w io.Writer, outputs []output) {
	t := theme.DefaultTheme
	for i, o := range outputs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, t.Title.Render(o.Mount))
		switch {
		case o.Node.Kind == dashboard.FallbackKind:
			fmt.Fprintln(w, t.Warning.Render(string(o.Node.Payload)))
		case json.Valid(o.Node.Payload):
			var buf bytes.Buffer
			if err := json.Indent(&buf, o.Node.Payload, "", "  "); err != nil {
				fmt.Fprintln(w, string(o.Node.Payload))
				continue
			}
			fmt.Fprintln(w, buf.String())
		default:
			fmt.Fprintln(w, string(o.Node.Payload))
		}
	}
}
