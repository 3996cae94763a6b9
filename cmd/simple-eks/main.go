// Command simple-eks synthesizes the VPC and EKS cluster stacks.
//
// Usage:
//
//	simple-eks synth -o cdk.out         Write one CloudFormation template per stack
//	simple-eks validate                 Validate the model and lint the templates
//	simple-eks list                     List resources in deployment order
//	simple-eks graph -f mermaid         Draw the declaration graph
//	simple-eks diff old.json new.json   Compare two templates
//	simple-eks publish --bucket b       Upload the templates to S3
//	simple-eks ack --region us-east-1   Render ACK Kubernetes manifests
//	simple-eks optimize -C security     Suggest best-practice improvements
//	simple-eks version                  Show version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	simpleeks "github.com/miztiik/simple-eks-cluster"
	"github.com/miztiik/simple-eks-cluster/internal/cfn"
	"github.com/miztiik/simple-eks-cluster/internal/config"
	"github.com/miztiik/simple-eks-cluster/internal/logging"
	"github.com/miztiik/simple-eks-cluster/internal/stack"
)

func main() {
	os.Exit(run())
}

func run() int {
	g := &globals{logger: zap.NewNop()}
	defer func() { _ = g.logger.Sync() }()

	if err := newRootCmd(g).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// globals are the settings shared by every subcommand.
type globals struct {
	configPath string
	logLevel   string
	logFormat  string
	logger     *zap.Logger
}

func (g *globals) flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("global", pflag.ContinueOnError)
	fs.StringVarP(&g.configPath, "config", "c", "", "Path to the YAML configuration (default: built-in defaults)")
	fs.StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn or error (default: from config)")
	fs.StringVar(&g.logFormat, "log-format", string(logging.FormatConsole), "Log format: console or json")
	return fs
}

func newRootCmd(g *globals) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "simple-eks",
		Short: "Synthesize a VPC and an EKS cluster as CloudFormation",
		Long: `simple-eks builds the desired state of a VPC, an EKS cluster with one
capacity strategy (on_demand, spot or serverless) and the IAM roles around it,
then renders it as one CloudFormation template per stack.

    simple-eks synth -o cdk.out
    SIMPLE_EKS_CAPACITY_STRATEGY=spot simple-eks synth --stack eks-cluster-stack`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.setupLogger()
		},
	}
	rootCmd.PersistentFlags().AddFlagSet(g.flagSet())

	rootCmd.AddCommand(
		newSynthCmd(g),
		newValidateCmd(g),
		newListCmd(g),
		newGraphCmd(g),
		newDiffCmd(g),
		newWatchCmd(g),
		newPublishCmd(g),
		newACKCmd(g),
		newOptimizeCmd(g),
		newVersionCmd(),
	)
	return rootCmd
}

// setupLogger builds the logger once per process. The --log-level flag wins
// over the configured level. A configuration that fails to load leaves the
// level at info; the command reports the load error itself.
func (g *globals) setupLogger() error {
	level := g.logLevel
	if level == "" {
		level = "info"
		if cfg, err := config.Load(g.configPath); err == nil && cfg.LogLevel != "" {
			level = cfg.LogLevel
		}
	}
	logger, err := logging.New(logging.Config{Level: level, Format: logging.Format(g.logFormat)})
	if err != nil {
		return err
	}
	g.logger = logger
	return nil
}

// load reads the configuration and builds the stacks.
func (g *globals) load() (*config.Config, *stack.App, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, nil, err
	}

	app, err := stack.Synthesize(cfg)
	if err != nil {
		return nil, nil, err
	}
	g.logger.Debug("model built",
		zap.String("config", g.configPath),
		zap.String("capacity", cfg.Capacity.Strategy),
	)
	return cfg, app, nil
}

// namedTemplate is a synthesized stack.
type namedTemplate struct {
	stack    string
	template *simpleeks.Template
}

// synthesize renders the selected stacks in deployment order. An empty
// selection renders every stack.
func (g *globals) synthesize(app *stack.App, only string) ([]namedTemplate, error) {
	var out []namedTemplate
	for _, graph := range app.Graphs() {
		if only != "" && graph.Name() != only {
			continue
		}
		tmpl, err := cfn.Synthesize(graph)
		if err != nil {
			return nil, err
		}
		g.logger.Info("stack synthesized",
			zap.String("stack", graph.Name()),
			zap.Int("resources", len(tmpl.Resources)),
			zap.Int("outputs", len(tmpl.Outputs)),
		)
		out = append(out, namedTemplate{stack: graph.Name(), template: tmpl})
	}
	if only != "" && len(out) == 0 {
		return nil, fmt.Errorf("unknown stack %q", only)
	}
	return out, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "simple-eks %s\n", getVersion())
		},
	}
}
