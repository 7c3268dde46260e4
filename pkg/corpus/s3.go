package corpus

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Options configures the S3-backed corpus source
type S3Options struct {
	Bucket string
	Key    string
	Region string

	// Endpoint overrides the AWS endpoint, for S3-compatible stores
	Endpoint string

	// AccessKey/SecretKey select static credentials; when empty the
	// default AWS credential chain is used
	AccessKey string
	SecretKey string

	UsePathStyle bool

	// File maps the object's CSV/TSV payload onto documents. Its Path
	// defaults to Key so delimiter sniffing works.
	File FileOptions
}

// S3Source reads a delimited corpus object from an S3 bucket
type S3Source struct {
	client *s3.Client
	opts   S3Options
}

// NewS3Source creates an S3 client for the given bucket and object
func NewS3Source(ctx context.Context, opts S3Options) (*S3Source, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 corpus: bucket is required")
	}
	if opts.Key == "" {
		return nil, fmt.Errorf("s3 corpus: object key is required")
	}
	if opts.Region == "" {
		opts.Region = "auto"
	}
	if opts.File.Path == "" {
		opts.File.Path = opts.Key
	}

	endpoint := opts.Endpoint
	if strings.Contains(endpoint, "/"+opts.Bucket) {
		endpoint = strings.TrimSuffix(endpoint, "/"+opts.Bucket)
	}

	var client *s3.Client
	if opts.AccessKey != "" {
		clientOpts := s3.Options{
			Region:       opts.Region,
			Credentials:  credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
			UsePathStyle: opts.UsePathStyle,
		}
		if endpoint != "" {
			clientOpts.BaseEndpoint = aws.String(endpoint)
		}
		client = s3.New(clientOpts)
	} else {
		cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(opts.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		client = s3.NewFromConfig(cfg, func(o *s3.Options) {
			o.UsePathStyle = opts.UsePathStyle
			if endpoint != "" {
				o.BaseEndpoint = aws.String(endpoint)
			}
		})
	}

	return &S3Source{client: client, opts: opts}, nil
}

// Name identifies the source in logs and health checks
func (s *S3Source) Name() string {
	return "s3"
}

// Load streams the object through the delimited parser
func (s *S3Source) Load(ctx context.Context) ([]Document, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(s.opts.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch s3://%s/%s: %w", s.opts.Bucket, s.opts.Key, err)
	}
	defer result.Body.Close()

	docs, err := parseDelimited(ctx, result.Body, s.opts.File)
	if err != nil {
		return nil, fmt.Errorf("s3://%s/%s: %w", s.opts.Bucket, s.opts.Key, err)
	}
	for i := range docs {
		docs[i].Origin = "s3"
	}
	return docs, nil
}
