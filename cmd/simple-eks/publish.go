package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/miztiik/simple-eks-cluster/internal/publish"
)

type publishOptions struct {
	s3           publish.Options
	format       string
	createBucket bool
}

func newPublishCmd(g *globals) *cobra.Command {
	var opts publishOptions

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload the synthesized templates to S3",
		Long: `Publish synthesizes every stack and uploads each template to
s3://<bucket>/<prefix>/<stack>.<format>, printing the template URLs.

Credentials come from the default AWS chain (environment, shared config,
instance role).

Examples:
    simple-eks publish --bucket my-templates --prefix simple-eks/v1
    simple-eks publish --bucket b --endpoint http://localhost:9000 --path-style --create-bucket`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd.Context(), g, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.s3.Bucket, "bucket", "", "Destination bucket (required)")
	cmd.Flags().StringVar(&opts.s3.Prefix, "prefix", "", "Key prefix")
	cmd.Flags().StringVar(&opts.s3.Region, "region", "", "Bucket region (default: from the AWS config)")
	cmd.Flags().StringVar(&opts.s3.Endpoint, "endpoint", "", "S3-compatible endpoint URL")
	cmd.Flags().BoolVar(&opts.s3.PathStyle, "path-style", false, "Use path-style bucket addressing")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "json", "Template format: json or yaml")
	cmd.Flags().BoolVar(&opts.createBucket, "create-bucket", false, "Create the bucket if it does not exist")
	_ = cmd.MarkFlagRequired("bucket")

	return cmd
}

func runPublish(ctx context.Context, g *globals, opts publishOptions, w io.Writer) error {
	if err := checkFormat(opts.format); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	_, app, err := g.load()
	if err != nil {
		return err
	}
	stacks, err := g.synthesize(app, "")
	if err != nil {
		return err
	}

	publisher, err := publish.New(ctx, opts.s3)
	if err != nil {
		return err
	}
	if opts.createBucket {
		if err := publisher.EnsureBucket(ctx); err != nil {
			return err
		}
	}

	for _, s := range stacks {
		data, err := render(s.template, opts.format)
		if err != nil {
			return fmt.Errorf("rendering %s: %w", s.stack, err)
		}
		url, err := publisher.Publish(ctx, s.stack, opts.format, data)
		if err != nil {
			return err
		}
		g.logger.Info("template published",
			zap.String("stack", s.stack),
			zap.String("url", url),
			zap.Int("bytes", len(data)),
		)
		fmt.Fprintf(w, "%s: %s\n", s.stack, url)
	}
	return nil
}
