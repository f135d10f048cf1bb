package leaves

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"

	"github.com/dmitrijs2005/leavekeeper/internal/client/client"
	"github.com/dmitrijs2005/leavekeeper/internal/client/demo"
	"github.com/dmitrijs2005/leavekeeper/internal/client/session"
	"github.com/dmitrijs2005/leavekeeper/internal/netx"
	"github.com/dmitrijs2005/leavekeeper/internal/rpc"
)

var ErrAttachmentsUnsupported = errors.New("attachments are not available for built-in accounts")

// Attachments uploads supporting documents of remote leave requests straight
// to object storage, using a presigned URL issued by the server.
type Attachments struct {
	client client.Client
	upload func(ctx context.Context, url, contentType string, body io.Reader, size int64) error
}

func NewAttachments(c client.Client) *Attachments {
	return &Attachments{client: c, upload: netx.UploadToPresignedURL}
}

// Attach uploads body as the attachment of request id and returns the
// storage key recorded on the request.
func (a *Attachments) Attach(ctx context.Context, sess session.Session, id int64, fileName string, body io.Reader, size int64) (string, error) {
	if demo.IsManager(sess.Identity) || demo.IsEmployee(sess.Identity) {
		return "", ErrAttachmentsUnsupported
	}

	contentType := mime.TypeByExtension(filepath.Ext(fileName))
	up, err := a.client.RequestAttachmentUpload(ctx, sess.Token, rpc.AttachmentUploadRequest{
		ID:          id,
		FileName:    filepath.Base(fileName),
		ContentType: contentType,
	})
	if err != nil {
		return "", remoteErr(err, "failed to prepare attachment upload")
	}

	if err := a.upload(ctx, up.URL, contentType, body, size); err != nil {
		return "", fmt.Errorf("upload %s: %w", filepath.Base(fileName), err)
	}
	return up.Key, nil
}
