package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	simpleeks "github.com/miztiik/simple-eks-cluster"
	"github.com/miztiik/simple-eks-cluster/internal/template"
)

type synthOptions struct {
	format    string
	outputDir string
	stack     string
}

func newSynthCmd(g *globals) *cobra.Command {
	var opts synthOptions

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Generate one CloudFormation template per stack",
		Long: `Synth builds the model from the configuration and renders every stack.

With --output-dir each stack is written to <dir>/<stack>.<format>. Without it,
a single stack (--stack) is printed as a raw template and several stacks are
printed as one JSON document keyed by stack name.

Examples:
    simple-eks synth -o cdk.out
    simple-eks synth --stack eks-cluster-stack --format yaml
    simple-eks synth --config cluster.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSynth(g, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "Directory to write templates to (default: stdout)")
	cmd.Flags().StringVarP(&opts.stack, "stack", "s", "", "Only synthesize this stack")

	return cmd
}

func runSynth(g *globals, opts synthOptions, w io.Writer) error {
	if err := checkFormat(opts.format); err != nil {
		return err
	}
	_, app, err := g.load()
	if err != nil {
		return reportBuildErrors(w, err)
	}
	stacks, err := g.synthesize(app, opts.stack)
	if err != nil {
		return reportBuildErrors(w, err)
	}

	if opts.outputDir != "" {
		if _, err := writeTemplates(stacks, opts.format, opts.outputDir); err != nil {
			return err
		}
		g.logger.Info("templates written", zap.String("dir", opts.outputDir), zap.Int("stacks", len(stacks)))
		return nil
	}

	if len(stacks) == 1 {
		data, err := render(stacks[0].template, opts.format)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	result := simpleeks.BuildResult{
		Success: true,
		Stacks:  map[string]simpleeks.Template{},
	}
	for _, s := range stacks {
		result.Stacks[s.stack] = *s.template
		for name := range s.template.Resources {
			result.Resources = append(result.Resources, s.stack+"/"+name)
		}
	}
	sort.Strings(result.Resources)
	return writeJSON(w, result)
}

// reportBuildErrors prints a failed BuildResult and returns an error.
func reportBuildErrors(w io.Writer, err error) error {
	result := simpleeks.BuildResult{Success: false, Errors: []string{err.Error()}}
	if werr := writeJSON(w, result); werr != nil {
		return werr
	}
	return fmt.Errorf("synth failed")
}

// writeTemplates writes each stack to dir and returns the written paths.
func writeTemplates(stacks []namedTemplate, format, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}
	var paths []string
	for _, s := range stacks {
		data, err := render(s.template, format)
		if err != nil {
			return nil, fmt.Errorf("rendering %s: %w", s.stack, err)
		}
		path := filepath.Join(dir, s.stack+"."+format)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func render(t *simpleeks.Template, format string) ([]byte, error) {
	switch format {
	case "json":
		return template.ToJSON(t)
	case "yaml":
		return template.ToYAML(t)
	}
	return nil, fmt.Errorf("unknown format: %s", format)
}

func checkFormat(format string) error {
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unknown format: %s (use 'json' or 'yaml')", format)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
