// Package publish uploads synthesized templates to S3 so they can be deployed
// by URL.
package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// Options configures the publisher. Credentials fall back to the default AWS
// chain when AccessKey is empty.
type Options struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	// PathStyle addresses the bucket in the URL path, as S3-compatible
	// endpoints usually require.
	PathStyle bool
}

// Publisher uploads templates to one bucket.
type Publisher struct {
	s3     *s3.Client
	bucket string
	prefix string
	region string
	url    string
}

// New creates a publisher.
func New(ctx context.Context, opts Options) (*Publisher, error) {
	if opts.Bucket == "" {
		return nil, errors.New("bucket is required")
	}

	loadOpts := []func(*config.LoadOptions) error{}
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.PathStyle
	})

	return newPublisher(client, opts, cfg.Region), nil
}

func newPublisher(client *s3.Client, opts Options, region string) *Publisher {
	p := &Publisher{
		s3:     client,
		bucket: opts.Bucket,
		prefix: strings.Trim(opts.Prefix, "/"),
		region: region,
	}
	switch {
	case opts.Endpoint != "":
		p.url = strings.TrimRight(opts.Endpoint, "/") + "/" + opts.Bucket
	case region != "":
		p.url = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, region)
	default:
		p.url = fmt.Sprintf("https://%s.s3.amazonaws.com", opts.Bucket)
	}
	return p
}

// EnsureBucket creates the bucket. An existing bucket owned by the caller is
// not an error.
func (p *Publisher) EnsureBucket(ctx context.Context) error {
	input := &s3.CreateBucketInput{Bucket: aws.String(p.bucket)}
	if p.region != "" && p.region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(p.region),
		}
	}
	if _, err := p.s3.CreateBucket(ctx, input); err != nil {
		if isBucketAlreadyOwnedByYou(err) {
			return nil
		}
		return fmt.Errorf("failed to create bucket %s: %w", p.bucket, err)
	}
	return nil
}

// Key returns the object key of a stack template.
func (p *Publisher) Key(stack, format string) string {
	return path.Join(p.prefix, stack+"."+format)
}

// URL returns the HTTPS URL of an object key.
func (p *Publisher) URL(key string) string {
	return p.url + "/" + key
}

// Publish uploads a stack template and returns its URL.
func (p *Publisher) Publish(ctx context.Context, stack, format string, data []byte) (string, error) {
	key := p.Key(stack, format)
	contentType := "application/json"
	if format == "yaml" {
		contentType = "application/x-yaml"
	}

	_, err := p.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %s in bucket %s: %w", key, p.bucket, err)
	}
	return p.URL(key), nil
}

// List returns the keys published under the prefix.
func (p *Publisher) List(ctx context.Context) ([]string, error) {
	input := &s3.ListObjectsV2Input{Bucket: aws.String(p.bucket)}
	if p.prefix != "" {
		input.Prefix = aws.String(p.prefix + "/")
	}

	result, err := p.s3.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to list objects in bucket %s: %w", p.bucket, err)
	}

	var keys []string
	for _, obj := range result.Contents {
		if obj.Key != nil {
			keys = append(keys, *obj.Key)
		}
	}
	return keys, nil
}

func isBucketAlreadyOwnedByYou(err error) bool {
	if err == nil {
		return false
	}

	var baoby *types.BucketAlreadyOwnedByYou
	if errors.As(err, &baoby) {
		return true
	}

	// S3-compatible services may only return the error code.
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "BucketAlreadyOwnedByYou"
	}

	return false
}
