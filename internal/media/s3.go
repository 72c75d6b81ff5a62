package media

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Presigner hands out short-lived S3 URLs so clients upload media
// directly to the bucket; the API only ever stores the resulting key.
type Presigner struct {
	bucket   string
	presign  *s3.PresignClient
	validity time.Duration
}

func NewPresigner(ctx context.Context, region, bucket string) (*Presigner, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &Presigner{
		bucket:   bucket,
		presign:  s3.NewPresignClient(s3.NewFromConfig(cfg)),
		validity: 5 * time.Minute,
	}, nil
}

// UploadURL returns a presigned PUT URL and the object key under which
// the upload will land.
func (p *Presigner) UploadURL(ctx context.Context, fileName, contentType string) (string, string, error) {
	key := "uploads/" + time.Now().UTC().Format("20060102") + "/" + uuid.NewString() + "-" + fileName
	req, err := p.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(p.validity))
	if err != nil {
		return "", "", err
	}
	return req.URL, key, nil
}

// ReadURL returns a presigned GET URL for a previously uploaded object.
func (p *Presigner) ReadURL(ctx context.Context, key string) (string, error) {
	req, err := p.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(p.validity))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
