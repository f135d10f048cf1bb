package rpc

import (
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dmitrijs2005/leavekeeper/internal/models"
)

// StatusOK is the Ping answer of a healthy server.
const StatusOK = "OK"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest = models.Profile

// AuthResponse answers Login and Register.
type AuthResponse struct {
	Token string          `json:"token"`
	User  models.Identity `json:"user"`
}

type CreateLeaveRequest = models.LeaveFields

type LeaveList struct {
	Requests []models.LeaveRequest `json:"requests"`
}

type UpdateStatusRequest struct {
	ID             int64         `json:"id"`
	Status         models.Status `json:"status"`
	ManagerComment *string       `json:"managerComment"`
}

type EmployeeList struct {
	Employees []models.Identity `json:"employees"`
}

type AttachmentUploadRequest struct {
	ID          int64  `json:"id"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType,omitempty"`
}

// AttachmentUpload is a presigned PUT target for a leave attachment.
type AttachmentUpload struct {
	URL       string    `json:"url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type PingResponse struct {
	Status string `json:"status"`
}

// Encode converts v to a Struct through its JSON form; v must marshal to a
// JSON object.
func Encode(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return structpb.NewStruct(m)
}

// Decode fills v from s. A nil Struct decodes as an empty object.
func Decode(s *structpb.Struct, v any) error {
	raw, err := json.Marshal(s.AsMap())
	if err != nil {
		return fmt.Errorf("decode %T: %w", v, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %T: %w", v, err)
	}
	return nil
}
