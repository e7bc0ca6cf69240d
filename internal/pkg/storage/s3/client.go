package s3aws

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront-checkout/internal/pkg/logger"
	"storefront-checkout/internal/pkg/redis"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

const presignTTL = 24 * time.Hour

type S3Config struct {
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	Endpoint           string
}

type S3Client struct {
	Client     s3iface.S3API
	BucketName string
	redis      redis.IRedis
}

type Is3 interface {
	GetBucketName() string
	UploadFile(ctx context.Context, key string, body []byte, contentType string) error
	UploadJSON(ctx context.Context, key string, v any) error
	GetPresignedURL(key string) (string, error)
}

func newSession(cfg S3Config) (*session.Session, error) {
	awsCfg := &aws.Config{
		Region: aws.String(cfg.AWSRegion),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	return session.NewSession(awsCfg)
}

// NewS3Client connects to bucketName, creating it when missing. rds may be nil.
func NewS3Client(cfg S3Config, bucketName string, rds redis.IRedis) (*S3Client, error) {
	sess, err := newSession(cfg)
	if err != nil {
		return nil, err
	}

	s3Client := &S3Client{
		Client:     s3.New(sess),
		BucketName: bucketName,
		redis:      rds,
	}

	exists, err := s3Client.bucketExists()
	if err != nil {
		return nil, err
	}
	if !exists {
		logger.Info.Printf("Creating bucket %s", bucketName)
		if _, err := s3Client.Client.CreateBucket(&s3.CreateBucketInput{Bucket: aws.String(bucketName)}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", bucketName, err)
		}
	}

	return s3Client, nil
}

// NewWithAPI wraps an existing S3 API, mainly for tests.
func NewWithAPI(api s3iface.S3API, bucketName string, rds redis.IRedis) *S3Client {
	return &S3Client{Client: api, BucketName: bucketName, redis: rds}
}

func (s *S3Client) bucketExists() (bool, error) {
	_, err := s.Client.HeadBucket(&s3.HeadBucketInput{Bucket: aws.String(s.BucketName)})
	if err == nil {
		return true, nil
	}
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchBucket, "NotFound":
			return false, nil
		}
	}
	return false, err
}

func (s *S3Client) GetBucketName() string {
	return s.BucketName
}

func (s *S3Client) UploadFile(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to S3: %w", key, err)
	}
	return nil
}

func (s *S3Client) UploadJSON(ctx context.Context, key string, v any) error {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.UploadFile(ctx, key, body, "application/json")
}

func (s *S3Client) GetPresignedURL(key string) (string, error) {
	cacheKey := fmt.Sprintf("s3:%s:%s", s.BucketName, key)
	if s.redis != nil {
		if cached, err := s.redis.Get(cacheKey); err == nil && cached != "" {
			var url string
			if json.Unmarshal([]byte(cached), &url) == nil && url != "" {
				return url, nil
			}
		}
	}

	req, _ := s.Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket:                     aws.String(s.BucketName),
		Key:                        aws.String(key),
		ResponseContentDisposition: aws.String("inline"),
	})
	url, err := req.Presign(presignTTL)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	if s.redis != nil {
		if err := s.redis.Set(cacheKey, url, presignTTL-time.Hour); err != nil {
			logger.Warning.Printf("Failed to cache presigned URL for %s: %v", key, err)
		}
	}
	return url, nil
}
