package media

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/petermazzocco/murmur-api/internal/apperr"
)

// ObjectPutter is the subset of *s3.Client the store needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Config struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	// PublicURL is a format string with one %s for the object key.
	PublicURL string
}

// S3Store uploads images to an S3-compatible bucket (Cloudflare R2 by default).
type S3Store struct {
	client    ObjectPutter
	bucket    string
	publicURL string
	resizer   Resizer
}

func NewS3Store(client ObjectPutter, bucket, publicURL string, resizer Resizer) *S3Store {
	if resizer == nil {
		resizer = NopResizer{}
	}
	return &S3Store{client: client, bucket: bucket, publicURL: publicURL, resizer: resizer}
}

// NewS3Client builds a client for the R2 endpoint of cfg.AccountID.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	// Create custom HTTP client with TLS config
	tr := &http.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
			MaxVersion: tls.VersionTLS13,
		},
	}
	httpClient := &http.Client{Transport: tr}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithHTTPClient(httpClient),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.AccessKeySecret, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID))
	}), nil
}

func (s *S3Store) Put(ctx context.Context, owner uint, img Image) (string, error) {
	data, err := s.resizer.Resize(img)
	if err != nil {
		return "", apperr.Fail("resize image", err)
	}

	key := fmt.Sprintf("avatars/%d/%s.%s", owner, uuid.New().String(), img.Ext)
	obj, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(img.MimeType),
	})
	if err != nil {
		return "", apperr.Fail("upload image", err)
	}
	log.Printf("Image uploaded: %s, ETag: %s\n", key, aws.ToString(obj.ETag))

	return CleanURL(fmt.Sprintf(s.publicURL, key)), nil
}

func CleanURL(urlStr string) string {
	urlStr = strings.ReplaceAll(urlStr, " ", "%20")
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return urlStr
	}

	return parsedURL.String()
}
