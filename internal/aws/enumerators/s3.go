package enumerators

import (
	"context"
	"time"

	awslib "cloudpwn/internal/aws"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3BucketEnumerator lists every bucket in the account with its home region
type S3BucketEnumerator struct {
	clients *awslib.Clients
}

// NewS3Buckets binds an S3BucketEnumerator to c
func NewS3Buckets(c *awslib.Clients) awslib.Enumerator {
	return &S3BucketEnumerator{clients: c}
}

// Name implements Enumerator interface
func (e *S3BucketEnumerator) Name() string { return "s3-buckets" }

// Label implements Enumerator interface
func (e *S3BucketEnumerator) Label() string { return "S3 Buckets" }

// Headers implements Enumerator interface
func (e *S3BucketEnumerator) Headers() []string {
	return []string{"Bucket Name", "Region", "Creation Date"}
}

// List implements Enumerator interface
func (e *S3BucketEnumerator) List(ctx context.Context) awslib.Result {
	out, err := e.clients.S3.ListBucketsWithContext(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return awslib.Failed("ListBuckets", err)
	}

	rows := make([]awslib.Row, 0, len(out.Buckets))
	for _, bucket := range out.Buckets {
		created := awslib.Placeholder
		if bucket.CreationDate != nil {
			created = bucket.CreationDate.UTC().Format(time.RFC3339)
		}
		rows = append(rows, awslib.Row{
			awslib.StringValue(bucket.Name),
			e.location(ctx, bucket.Name),
			created,
		})
	}

	return awslib.Found(rows, "No buckets found in the account")
}

func (e *S3BucketEnumerator) location(ctx context.Context, bucket *string) string {
	out, err := e.clients.S3.GetBucketLocationWithContext(ctx, &s3.GetBucketLocationInput{Bucket: bucket})
	if err != nil {
		return awslib.Placeholder
	}
	return s3.NormalizeBucketLocation(aws.StringValue(out.LocationConstraint))
}
