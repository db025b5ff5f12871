package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/logkeeper/internal/common"
	"github.com/dmitrijs2005/logkeeper/internal/server/config"
	"github.com/dmitrijs2005/logkeeper/internal/server/models"
	"github.com/google/uuid"
)

// ExportURLExpiry is the lifetime of the presigned download link.
const ExportURLExpiry = 15 * time.Minute

var loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type getPresigner interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// LogLister is the part of LogService the exporter needs.
type LogLister interface {
	List(ctx context.Context) ([]*models.Log, error)
}

// ExportResult describes an uploaded snapshot.
type ExportResult struct {
	Key   string
	URL   string
	Count int
}

// Snapshot is the JSON document written to the bucket.
type Snapshot struct {
	ExportedAt time.Time     `json:"exportedAt"`
	Count      int           `json:"count"`
	Logs       []*models.Log `json:"logs"`
}

// ExportService uploads a JSON snapshot of the record store to an
// S3-compatible bucket and hands back a presigned GET URL for it.
type ExportService struct {
	logs      LogLister
	bucket    string
	putter    objectPutter
	presigner getPresigner
	now       func() time.Time
	newID     func() string
}

// NewExportService builds the S3 client from cfg. When no bucket is
// configured the service is returned disabled and Export reports
// common.ErrExportDisabled.
func NewExportService(ctx context.Context, cfg *config.Config, logs LogLister) (*ExportService, error) {
	s := &ExportService{
		logs:  logs,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	if !cfg.ExportEnabled() {
		return s, nil
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3Region)}
	if cfg.S3RootUser != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3RootUser, cfg.S3RootPassword, "")))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	s.bucket = cfg.S3Bucket
	s.putter = client
	s.presigner = s3.NewPresignClient(client)
	return s, nil
}

func (s *ExportService) Enabled() bool {
	return s.putter != nil
}

// storageKey returns exports/YYYY/MM/DD/<uuid>.json.
func (s *ExportService) storageKey(at time.Time) string {
	return fmt.Sprintf("exports/%04d/%02d/%02d/%s.json", at.Year(), at.Month(), at.Day(), s.newID())
}

// Export uploads the current contents of the store.
func (s *ExportService) Export(ctx context.Context) (*ExportResult, error) {
	if !s.Enabled() {
		return nil, common.ErrExportDisabled
	}

	items, err := s.logs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}

	now := s.now()
	body, err := json.Marshal(Snapshot{ExportedAt: now, Count: len(items), Logs: items})
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	key := s.storageKey(now)
	_, err = s.putter.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(common.ContentTypeJSON),
	})
	if err != nil {
		return nil, fmt.Errorf("upload snapshot: %w", err)
	}

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ExportURLExpiry))
	if err != nil {
		return nil, fmt.Errorf("presign snapshot: %w", err)
	}

	return &ExportResult{Key: key, URL: req.URL, Count: len(items)}, nil
}
