package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/leavekeeper/internal/common"
	dm "github.com/dmitrijs2005/leavekeeper/internal/models"
	sc "github.com/dmitrijs2005/leavekeeper/internal/server/config"
	"github.com/dmitrijs2005/leavekeeper/internal/server/repositories/repomanager"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

var ErrInvalidFileName = errors.New("invalid file name")

// Upload is a presigned PUT for an attachment.
type Upload struct {
	URL       string
	Key       string
	ExpiresAt time.Time
}

// AttachmentService hands out presigned S3 URLs for supporting documents of
// leave requests. Files never pass through the server.
type AttachmentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	now         func() time.Time
}

func NewAttachmentService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config) *AttachmentService {
	return &AttachmentService{db: db, repomanager: m, config: cfg, now: time.Now}
}

// StorageKey names the object of a request attachment.
func StorageKey(userID, requestID int64, fileName string) string {
	return fmt.Sprintf("attachments/%d/%d/%s/%s", userID, requestID, uuid.New(), fileName)
}

func (s *AttachmentService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// RequestUpload records a fresh object key on caller's request id and returns
// a presigned PUT URL for it. Requests of other users are reported as not
// found.
func (s *AttachmentService) RequestUpload(ctx context.Context, caller dm.Identity, id int64, fileName, contentType string) (Upload, error) {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(fileName), "\\", "/"))
	if name == "" || name == "." || name == "/" {
		return Upload{}, &common.ValidationError{Fields: []common.FieldError{
			{Field: "fileName", Message: ErrInvalidFileName.Error()},
		}}
	}

	lr, err := s.repomanager.Leaves(s.db).GetByID(ctx, id)
	if err != nil {
		return Upload{}, err
	}
	if lr.UserID != caller.ID {
		return Upload{}, common.ErrorNotFound
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return Upload{}, fmt.Errorf("presign client: %w", err)
	}

	bucket := s.config.S3Bucket
	key := StorageKey(caller.ID, id, name)
	in := &s3.PutObjectInput{Bucket: &bucket, Key: &key}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	ttl := s.config.PresignValidityDuration
	expires := s.now().Add(ttl)
	req, err := presignPutObject(presignClient, ctx, in, s3.WithPresignExpires(ttl))
	if err != nil {
		return Upload{}, fmt.Errorf("presign put: %w", err)
	}

	if err := s.repomanager.Leaves(s.db).SetAttachmentKey(ctx, id, caller.ID, key); err != nil {
		return Upload{}, err
	}

	return Upload{URL: req.URL, Key: key, ExpiresAt: expires}, nil
}
