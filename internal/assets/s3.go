package assets

import (
	"context"
	stderrors "errors"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/TuanAnhhh123/M26-HKT/internal/errors"
)

// ObjectGetter is the part of the S3 client the source needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads objects from an S3 bucket.
type S3Source struct {
	client ObjectGetter
	bucket string
	prefix string
}

// NewS3Source creates a source reading keys prefix+name from bucket.
func NewS3Source(client ObjectGetter, bucket, prefix string) *S3Source {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3Source{client: client, bucket: bucket, prefix: prefix}
}

// NewS3SourceFromEnv builds an S3 client from the default AWS credential
// chain and returns a source over it.
func NewS3SourceFromEnv(ctx context.Context, bucket, prefix, region string) (*S3Source, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.New("E301").Wrap(err).
			WithSuggestion("Check AWS credentials and assets.s3.region")
	}
	return NewS3Source(s3.NewFromConfig(cfg), bucket, prefix), nil
}

// Kind implements Source.
func (s *S3Source) Kind() string { return "s3" }

// Key returns the object key for a name.
func (s *S3Source) Key(name string) string {
	return s.prefix + name
}

// Open implements Source.
func (s *S3Source) Open(ctx context.Context, name string) (*Object, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.Key(name)),
	})
	if err != nil {
		if isMissingKey(err) {
			return nil, ErrNotFound
		}
		return nil, errors.New("E301").Wrap(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.New("E301").Wrap(err)
	}

	obj := &Object{
		Name:        name,
		Data:        data,
		ContentType: aws.ToString(out.ContentType),
	}
	if obj.ContentType == "" {
		obj.ContentType = contentType(name)
	}
	if out.LastModified != nil {
		obj.ModTime = *out.LastModified
	}
	return obj, nil
}

// isMissingKey reports whether err means the key does not exist. Without
// s3:ListBucket on the bucket S3 answers 403 AccessDenied for missing keys,
// so that code counts as missing too.
func isMissingKey(err error) bool {
	var nsk *types.NoSuchKey
	if stderrors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "AccessDenied":
			return true
		}
	}
	return false
}
