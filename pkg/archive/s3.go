// pkg/archive/s3.go

package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
)

// S3 uploads documents to <bucket>/<prefix>/<number>.<ext>.
type S3 struct {
	uploader s3manageriface.UploaderAPI
	bucket   string
	prefix   string
}

func NewS3(uploader s3manageriface.UploaderAPI, bucket, prefix string) *S3 {
	return &S3{uploader: uploader, bucket: bucket, prefix: prefix}
}

// OpenS3 builds an uploader from the default credential chain.
func OpenS3(region, bucket, prefix string) (*S3, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	return NewS3(s3manager.NewUploader(sess), bucket, prefix), nil
}

// Key is the object key used for doc.
func (s *S3) Key(doc Document) string {
	number := doc.Number
	if number == "" {
		number = doc.Checksum()[:12]
	}
	return path.Join(s.prefix, number+"."+doc.Extension)
}

func (s *S3) Archive(ctx context.Context, doc Document) error {
	key := s.Key(doc)
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(doc.Body),
		ContentType: aws.String(doc.ContentType),
		Metadata: map[string]*string{
			"Invoice-Total": aws.String(doc.Total.StringFixed(2)),
			"Checksum":      aws.String(doc.Checksum()),
		},
	})
	if err != nil {
		return fmt.Errorf("upload %s to s3://%s: %w", key, s.bucket, err)
	}
	return nil
}
