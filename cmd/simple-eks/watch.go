package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type watchOptions struct {
	debounce  time.Duration
	format    string
	outputDir string
}

// newWatchCmd creates the "watch" subcommand for re-synthesizing on
// configuration changes.
func newWatchCmd(g *globals) *cobra.Command {
	var opts watchOptions

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-synthesize when the configuration file changes",
		Long: `Watch monitors the configuration file and rewrites every stack template
each time it changes. Rapid changes are debounced.

Examples:
    simple-eks watch --config cluster.yaml -o cdk.out
    simple-eks watch --config cluster.yaml -o cdk.out --debounce 1s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, g, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().DurationVar(&opts.debounce, "debounce", 500*time.Millisecond, "Debounce duration for rapid changes")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "cdk.out", "Directory to write templates to")

	return cmd
}

// runWatch synthesizes once, then again after every write to the
// configuration file, until ctx is done.
func runWatch(ctx context.Context, g *globals, opts watchOptions, w io.Writer) error {
	if g.configPath == "" {
		return fmt.Errorf("watch needs --config")
	}
	if err := checkFormat(opts.format); err != nil {
		return err
	}
	configPath, err := filepath.Abs(g.configPath)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	// Editors replace files on save, so the directory is watched.
	if err := watcher.Add(filepath.Dir(configPath)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", configPath, err)
	}
	fmt.Fprintf(w, "Watching: %s\n", configPath)

	rebuild := func() {
		paths, err := watchBuild(g, opts)
		if err != nil {
			fmt.Fprintf(w, "Build failed: %v\n", err)
			return
		}
		fmt.Fprintf(w, "Build successful, wrote %d templates to %s\n", len(paths), opts.outputDir)
	}

	fmt.Fprintln(w, "Running initial synth...")
	rebuild()

	var debounceTimer *time.Timer
	rebuildChan := make(chan struct{}, 1)
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != configPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(opts.debounce, func() {
				select {
				case rebuildChan <- struct{}{}:
				default:
				}
			})

		case <-rebuildChan:
			fmt.Fprintf(w, "[%s] Change detected, rebuilding...\n", time.Now().Format("15:04:05"))
			rebuild()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			g.logger.Warn("watch error", zap.Error(err))

		case <-ctx.Done():
			fmt.Fprintln(w, "Stopping watch...")
			return nil
		}
	}
}

func watchBuild(g *globals, opts watchOptions) ([]string, error) {
	_, app, err := g.load()
	if err != nil {
		return nil, err
	}
	stacks, err := g.synthesize(app, "")
	if err != nil {
		return nil, err
	}
	return writeTemplates(stacks, opts.format, opts.outputDir)
}
