// Command simple-eks-pulumi declares the simple-eks stacks as a Pulumi program.
//
// Stack configuration:
//
//	simple-eks:configFile   path to the simple-eks YAML configuration (optional)
//	simple-eks:accountId    account trusted by the cluster admin role
//	simple-eks:partition    AWS partition, defaults to "aws"
package main

import (
	"fmt"

	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	pulumiconfig "github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
	"go.uber.org/zap"

	"github.com/miztiik/simple-eks-cluster/internal/config"
	"github.com/miztiik/simple-eks-cluster/internal/logging"
	"github.com/miztiik/simple-eks-cluster/internal/pulumistack"
	"github.com/miztiik/simple-eks-cluster/internal/stack"
	"github.com/miztiik/simple-eks-cluster/model"
)

func main() {
	pulumi.Run(run)
}

func run(ctx *pulumi.Context) error {
	settings := pulumiconfig.New(ctx, "simple-eks")

	cfg, err := config.Load(settings.Get("configFile"))
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Config{Level: cfg.LogLevel})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	app, err := stack.Synthesize(cfg)
	if err != nil {
		return fmt.Errorf("building model: %w", err)
	}

	opts := pulumistack.Options{
		Partition: settings.Get("partition"),
		AccountID: settings.Get("accountId"),
	}
	for _, g := range app.Graphs() {
		logger.Info("declaring stack",
			zap.String("stack", g.Name()),
			zap.Int("nodes", len(g.Nodes())),
			zap.String("capacity", capacityKind(g)),
		)
	}
	return pulumistack.Declare(ctx, opts, app.Graphs()...)
}

func capacityKind(g *model.Graph) string {
	if c := g.Capacity(); c != nil {
		return string(c.Kind())
	}
	return "none"
}
