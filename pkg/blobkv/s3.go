package blobkv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3Client abstracts the S3 API operations used by [S3]. The
// [s3.Client] type satisfies this interface.
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Config is the serializable identity of an S3 store: everything
// needed to reconstruct it except the live client. Credentials, region
// and endpoint belong to the client configuration, not here.
type S3Config struct {
	// Bucket is the S3 bucket holding the values. Required.
	Bucket string `yaml:"bucket"`

	// Prefix is prepended to every object key, separated by '/'.
	// Empty means keys map to object keys directly.
	Prefix string `yaml:"prefix,omitempty"`

	// URLPrefix, when set, makes the store URL-addressable: URLFor
	// returns URLPrefix + percent-encoded key, with the prefix used
	// verbatim. Typically the public endpoint of the bucket.
	URLPrefix string `yaml:"url_prefix,omitempty"`
}

// S3 implements Store backed by Amazon S3 or any S3-compatible object
// store (MinIO, R2, etc.). It satisfies the same observable contract
// as FS: the same key grammar, ErrNotFound on Open of an absent key,
// and idempotent Delete (S3 DeleteObject already succeeds for missing
// keys).
//
// The caller owns the client's lifecycle and configuration
// (credentials, region, endpoint); any type satisfying [S3Client] is
// accepted, typically an [s3.Client].
type S3 struct {
	client S3Client
	cfg    S3Config
}

// NewS3 creates an S3-backed store from a pre-configured client and a
// store configuration.
func NewS3(client S3Client, cfg S3Config) *S3 {
	return &S3{client: client, cfg: cfg}
}

// Config returns the serializable configuration of the store.
func (s *S3) Config() S3Config { return s.cfg }

// objectKey builds the full S3 object key for key.
func (s *S3) objectKey(key string) string {
	if s.cfg.Prefix == "" {
		return key
	}
	return s.cfg.Prefix + "/" + key
}

func (s *S3) Exists(ctx context.Context, key string) (bool, error) {
	if err := ValidateKey(key); err != nil {
		return false, err
	}
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *S3) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	return err
}

func (s *S3) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, fmt.Errorf("blobkv: open %s: %w", key, ErrNotFound)
		}
		return nil, err
	}
	return out.Body, nil
}

func (s *S3) Put(ctx context.Context, key string, data []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.objectKey(key)),
		Body:   bytes.NewReader(data),
	})
	return err
}

// PutReader streams r to PutObject; the SDK chunks the upload, so the
// value never needs to reside in memory at once.
func (s *S3) PutReader(ctx context.Context, key string, r io.Reader) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.objectKey(key)),
		Body:   r,
	})
	return err
}

// PutFile uploads the file at path and removes it on success. S3 has
// no move primitive, so adoption is always copy-then-delete.
func (s *S3) PutFile(ctx context.Context, key string, path string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.objectKey(key)),
		Body:   f,
	})
	cerr := f.Close()
	if err != nil {
		return err
	}
	if cerr != nil {
		return cerr
	}
	return os.Remove(path)
}

// listPrefix is the object-key prefix for listing, with the trailing
// separator that keeps "abc" from matching prefix "ab".
func (s *S3) listPrefix() string {
	if s.cfg.Prefix == "" {
		return ""
	}
	return s.cfg.Prefix + "/"
}

// Keys lists every key under the store's prefix. Pagination is driven
// to completion; the result reflects S3's listing consistency, not a
// point-in-time snapshot.
func (s *S3) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	for k, err := range s.IterKeys(ctx) {
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// IterKeys yields keys one page of ListObjectsV2 at a time.
func (s *S3) IterKeys(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		prefix := s.listPrefix()
		in := &s3.ListObjectsV2Input{
			Bucket: aws.String(s.cfg.Bucket),
		}
		if prefix != "" {
			in.Prefix = aws.String(prefix)
		}
		for {
			out, err := s.client.ListObjectsV2(ctx, in)
			if err != nil {
				yield("", err)
				return
			}
			for _, obj := range out.Contents {
				key := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
				if !yield(key, nil) {
					return
				}
			}
			if !aws.ToBool(out.IsTruncated) {
				return
			}
			in.ContinuationToken = out.NextContinuationToken
		}
	}
}

// Close releases nothing; the client is owned by the caller.
func (s *S3) Close() error { return nil }

// URLFor derives the public URL for key: the configured URL prefix,
// used verbatim, followed by the key encoded as one opaque path
// segment. Derivation is pure and performs no validation; it fails
// only if the store has no URL prefix configured.
func (s *S3) URLFor(key string) (string, error) {
	if s.cfg.URLPrefix == "" {
		return "", errors.New("blobkv: s3 store has no url_prefix configured")
	}
	return s.cfg.URLPrefix + url.PathEscape(key), nil
}

// isS3NotFound reports whether err indicates the object does not exist.
func isS3NotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}

// Compile-time interface check.
var _ URLStore = (*S3)(nil)
