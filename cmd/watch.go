package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/grovetools/widgets/cli"
	"github.com/grovetools/widgets/config"
	"github.com/grovetools/widgets/host"
	"github.com/grovetools/widgets/tui/theme"
	"github.com/spf13/cobra"
)

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cobra.Command {
	var rendererName string
	var width int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Render widgets and re-render whenever widgets.yml changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.GetOptions(cmd)
			logger := cli.GetLogger(cmd)

			cfg, err := cli.LoadConfig(opts)
			if err != nil {
				return err
			}
			if cfg.Path() == "" {
				return fmt.Errorf("watch needs a config file")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var mu sync.Mutex
			var current *session
			defer func() {
				mu.Lock()
				defer mu.Unlock()
				if current != nil {
					_ = current.Close()
				}
			}()

			show := func(ctx context.Context, s *session) error {
				if err := s.Ready(ctx); err != nil {
					logger.WithError(err).Warn("Some widgets failed")
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, theme.DefaultTheme.Header.Render(fmt.Sprintf("── %s ──", s.cfg.Path())))
				if opts.JSONOutput {
					return writeJSON(out, s.Outputs())
				}
				writeText(out, s.Outputs())
				return nil
			}

			renderOnce := func(ctx context.Context, cfg *config.Config) error {
				mu.Lock()
				s := current
				mu.Unlock()

				if s != nil {
					reused, err := s.Reload(cfg, rendererName)
					if err != nil {
						return err
					}
					if reused {
						logger.Debug("Config reloaded into running dashboard")
						return show(ctx, s)
					}
				}

				next, err := openSession(ctx, cfg, rendererName, width, nil, logger)
				if err != nil {
					return err
				}
				mu.Lock()
				current = next
				mu.Unlock()
				if s != nil {
					_ = s.Close()
				}
				return show(ctx, next)
			}

			if err := renderOnce(ctx, cfg); err != nil {
				return err
			}

			path := cfg.Path()
			w, err := host.NewWatcher(path, cfg.Debounce(), func(ctx context.Context) {
				next, err := config.Load(path)
				if err != nil {
					logger.WithError(err).Error("Reload failed, keeping previous widgets")
					return
				}
				if err := renderOnce(ctx, next); err != nil {
					logger.WithError(err).Error("Re-render failed")
				}
			})
			if err != nil {
				return err
			}
			defer w.Close()

			logger.WithField("path", path).Info("Watching for changes")
			w.Start(ctx)
			return nil
		},
	}

	cmd.Flags().StringVarP(&rendererName, "renderer", "r", "", "Renderer override: chartjs, terminal")
	cmd.Flags().IntVarP(&width, "width", "w", 0, "Terminal chart width in cells")
	return cmd
}
