package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/leavekeeper/internal/common"
	dm "github.com/dmitrijs2005/leavekeeper/internal/models"
)

// stubS3 replaces the AWS seams and records the presigned input.
func stubS3(t *testing.T, presignErr error) *s3.PutObjectInput {
	t.Helper()
	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origPut := presignPutObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPut
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}

	captured := &s3.PutObjectInput{}
	presignPutObject = func(_ *s3.PresignClient, _ context.Context, in *s3.PutObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		*captured = *in
		if presignErr != nil {
			return nil, presignErr
		}
		return &v4.PresignedHTTPRequest{URL: "https://s3.local/" + *in.Key, Method: "PUT"}, nil
	}
	return captured
}

func newAttachmentSvc(t *testing.T) (*AttachmentService, *memRepoManager) {
	t.Helper()
	db, _ := newSQLMockDB(t)
	rm := newMemRepoManager()
	s := NewAttachmentService(db, rm, testConfig())
	s.now = func() time.Time { return fixedNow }
	return s, rm
}

func seedRequest(t *testing.T, rm *memRepoManager, owner dm.Identity) int64 {
	t.Helper()
	lr := dm.NewLeaveRequest(0, owner, fields("2025-03-11", "2025-03-11", "x"), fixedNow)
	require.NoError(t, rm.leaves.Create(context.Background(), &lr))
	return lr.ID
}

func TestAttachmentService_RequestUpload(t *testing.T) {
	captured := stubS3(t, nil)
	s, rm := newAttachmentSvc(t)
	emp := rm.addUser(t, "emp", dm.RoleEmployee)
	id := seedRequest(t, rm, emp)

	up, err := s.RequestUpload(context.Background(), emp, id, `C:\docs\note.pdf`, "application/pdf")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(up.Key, "attachments/"))
	assert.True(t, strings.HasSuffix(up.Key, "/note.pdf"))
	assert.Equal(t, "https://s3.local/"+up.Key, up.URL)
	assert.Equal(t, fixedNow.Add(15*time.Minute), up.ExpiresAt)

	assert.Equal(t, "leave-attachments", aws.ToString(captured.Bucket))
	assert.Equal(t, "application/pdf", aws.ToString(captured.ContentType))

	stored, err := rm.leaves.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, stored.AttachmentKey)
	assert.Equal(t, up.Key, *stored.AttachmentKey)
}

func TestAttachmentService_RequestUploadRejects(t *testing.T) {
	stubS3(t, nil)
	s, rm := newAttachmentSvc(t)
	emp := rm.addUser(t, "emp", dm.RoleEmployee)
	other := rm.addUser(t, "other", dm.RoleEmployee)
	id := seedRequest(t, rm, emp)
	ctx := context.Background()

	_, err := s.RequestUpload(ctx, emp, id, "  ", "")
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = s.RequestUpload(ctx, other, id, "a.pdf", "")
	require.ErrorIs(t, err, common.ErrorNotFound)

	_, err = s.RequestUpload(ctx, emp, 12345, "a.pdf", "")
	require.ErrorIs(t, err, common.ErrorNotFound)

	stored, err := rm.leaves.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, stored.AttachmentKey)
}

func TestAttachmentService_PresignErrors(t *testing.T) {
	stubS3(t, errors.New("sign"))
	s, rm := newAttachmentSvc(t)
	emp := rm.addUser(t, "emp", dm.RoleEmployee)
	id := seedRequest(t, rm, emp)
	ctx := context.Background()

	_, err := s.RequestUpload(ctx, emp, id, "a.pdf", "")
	require.ErrorContains(t, err, "presign put")

	loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}
	_, err = s.RequestUpload(ctx, emp, id, "a.pdf", "")
	require.ErrorContains(t, err, "presign client")
}

func Test_getPresignClient_AppliesConfig(t *testing.T) {
	stubS3(t, nil)
	s, _ := newAttachmentSvc(t)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		require.NotNil(t, lo.Credentials)
		creds, err := lo.Credentials.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "minioadmin", creds.AccessKeyID)
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}

	pc, err := s.getPresignClient(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, pc)
	assert.Equal(t, "http://127.0.0.1:9000", aws.ToString(opts.BaseEndpoint))
	assert.True(t, opts.UsePathStyle)
}
