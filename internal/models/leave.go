package models

import (
	"errors"
	"time"
)

// Status is the lifecycle state of a leave request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

var (
	ErrAlreadyReviewed = errors.New("leave request already reviewed")
	ErrInvalidStatus   = errors.New("status must be approved or rejected")
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusPending || s.IsTerminal()
}

// IsTerminal reports whether no further transition is allowed from s.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// LeaveFields are the user-supplied parts of a leave request.
type LeaveFields struct {
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"required,datetime=2006-01-02"`
	Reason    string `json:"reason" validate:"required,max=500"`
}

// LeaveRequest is a date-range leave application.
//
// Only Status, ManagerComment, UpdatedAt and AttachmentKey change after
// creation; Status changes at most once (see Review).
type LeaveRequest struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"userId"`
	FullName       string    `json:"fullName"`
	StartDate      string    `json:"startDate"`
	EndDate        string    `json:"endDate"`
	Reason         string    `json:"reason"`
	Status         Status    `json:"status"`
	ManagerComment *string   `json:"managerComment"`
	AttachmentKey  *string   `json:"attachmentKey,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// NewLeaveRequest builds a pending request owned by owner.
func NewLeaveRequest(id int64, owner Identity, f LeaveFields, now time.Time) LeaveRequest {
	return LeaveRequest{
		ID:        id,
		UserID:    owner.ID,
		FullName:  owner.FullName,
		StartDate: f.StartDate,
		EndDate:   f.EndDate,
		Reason:    f.Reason,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Review moves a pending request to a terminal status. An empty comment is
// stored as nil. A request that is already terminal is left untouched and
// ErrAlreadyReviewed is returned.
func (r *LeaveRequest) Review(status Status, comment string, now time.Time) error {
	if !status.IsTerminal() {
		return ErrInvalidStatus
	}
	if r.Status.IsTerminal() {
		return ErrAlreadyReviewed
	}

	r.Status = status
	if comment != "" {
		r.ManagerComment = &comment
	} else {
		r.ManagerComment = nil
	}
	r.UpdatedAt = now
	return nil
}

// Clone returns a deep copy of r.
func (r LeaveRequest) Clone() LeaveRequest {
	if r.ManagerComment != nil {
		c := *r.ManagerComment
		r.ManagerComment = &c
	}
	if r.AttachmentKey != nil {
		k := *r.AttachmentKey
		r.AttachmentKey = &k
	}
	return r
}

// Comment returns the manager comment or an empty string.
func (r LeaveRequest) Comment() string {
	if r.ManagerComment == nil {
		return ""
	}
	return *r.ManagerComment
}

// Partition splits requests into pending and reviewed ones, preserving order.
func Partition(requests []LeaveRequest) (pending, reviewed []LeaveRequest) {
	for _, r := range requests {
		if r.Status == StatusPending {
			pending = append(pending, r)
		} else {
			reviewed = append(reviewed, r)
		}
	}
	return pending, reviewed
}
