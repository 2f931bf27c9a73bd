package commands

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/haivivi/blobkv/pkg/blobkv"
	"github.com/haivivi/blobkv/pkg/cli"
)

// openStore builds the store described by the active context. The
// caller must Close it.
func openStore(ctx context.Context) (blobkv.Store, error) {
	cctx, err := getContext()
	if err != nil {
		return nil, err
	}
	if err := cctx.Validate(); err != nil {
		return nil, err
	}

	switch cctx.Store {
	case cli.StoreFS:
		return blobkv.NewFS(cctx.Root)

	case cli.StoreWeb:
		return blobkv.NewWebFS(cctx.Root, cctx.URLPrefix)

	case cli.StoreS3:
		client, err := newS3Client(ctx, cctx)
		if err != nil {
			return nil, err
		}
		return blobkv.NewS3(client, blobkv.S3Config{
			Bucket:    cctx.Bucket,
			Prefix:    cctx.Prefix,
			URLPrefix: cctx.URLPrefix,
		}), nil

	case cli.StoreBadger:
		dir := cctx.DataDir
		if dir == "" {
			paths, err := cli.NewPaths()
			if err != nil {
				return nil, err
			}
			if err := paths.EnsureDataDir(); err != nil {
				return nil, err
			}
			dir = paths.DataPath(cctx.Name)
		}
		return blobkv.NewBadger(blobkv.BadgerOptions{Dir: dir})

	case cli.StoreMemory:
		// Ephemeral; useful for piping and smoke tests only.
		return blobkv.NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown store kind %q", cctx.Store)
}

// newS3Client wires the AWS SDK from the context: default credential
// chain unless static credentials are configured, optional custom
// endpoint for S3-compatible services.
func newS3Client(ctx context.Context, cctx *cli.Context) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cctx.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cctx.Region))
	}
	if cctx.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cctx.AccessKey, cctx.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cctx.Endpoint != "" {
			o.BaseEndpoint = aws.String(cctx.Endpoint)
			o.UsePathStyle = true // MinIO and friends require path-style addressing
		}
	})
	return client, nil
}

// urlStore returns the active store if it supports URL derivation.
func urlStore(ctx context.Context) (blobkv.URLStore, error) {
	s, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	us, ok := s.(blobkv.URLStore)
	if !ok {
		s.Close()
		return nil, fmt.Errorf("the active store backend has no external URLs")
	}
	return us, nil
}
