package leaves

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/leavekeeper/internal/common"
	"github.com/dmitrijs2005/leavekeeper/internal/dbx"
	"github.com/dmitrijs2005/leavekeeper/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, lr *models.LeaveRequest) error {
	query :=
		`INSERT INTO leave_requests (user_id, start_date, end_date, reason, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		lr.UserID, lr.StartDate, lr.EndDate, lr.Reason, string(lr.Status), lr.CreatedAt).Scan(&lr.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const selectLeave = `SELECT l.id, l.user_id, u.full_name, l.start_date, l.end_date, l.reason,
	l.status, l.manager_comment, l.attachment_key, l.created_at, l.updated_at
	FROM leave_requests l JOIN users u ON u.id = l.user_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanLeave(row scanner) (models.LeaveRequest, error) {
	var (
		lr            models.LeaveRequest
		start, end    time.Time
		status        string
		comment, akey sql.NullString
	)
	err := row.Scan(&lr.ID, &lr.UserID, &lr.FullName, &start, &end, &lr.Reason,
		&status, &comment, &akey, &lr.CreatedAt, &lr.UpdatedAt)
	if err != nil {
		return models.LeaveRequest{}, err
	}

	lr.StartDate = start.Format(common.DateLayout)
	lr.EndDate = end.Format(common.DateLayout)
	lr.Status = models.Status(status)
	if comment.Valid {
		lr.ManagerComment = &comment.String
	}
	if akey.Valid {
		lr.AttachmentKey = &akey.String
	}
	return lr, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, id int64) (models.LeaveRequest, error) {
	lr, err := scanLeave(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.LeaveRequest{}, common.ErrorNotFound
		}
		return models.LeaveRequest{}, fmt.Errorf("db error: %w", err)
	}
	return lr, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (models.LeaveRequest, error) {
	return r.getOne(ctx, selectLeave+` WHERE l.id = $1`, id)
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id int64) (models.LeaveRequest, error) {
	return r.getOne(ctx, selectLeave+` WHERE l.id = $1 FOR UPDATE OF l`, id)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]models.LeaveRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []models.LeaveRequest{}
	for rows.Next() {
		lr, err := scanLeave(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]models.LeaveRequest, error) {
	return r.list(ctx, selectLeave+` WHERE l.user_id = $1 ORDER BY l.created_at DESC, l.id DESC`, userID)
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]models.LeaveRequest, error) {
	return r.list(ctx, selectLeave+` ORDER BY l.created_at DESC, l.id DESC`)
}

func (r *PostgresRepository) UpdateReview(ctx context.Context, lr models.LeaveRequest) error {
	query :=
		`UPDATE leave_requests SET status = $2, manager_comment = $3, updated_at = $4
		 WHERE id = $1 AND status = 'pending'
		 `

	res, err := r.db.ExecContext(ctx, query, lr.ID, string(lr.Status), lr.ManagerComment, lr.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return models.ErrAlreadyReviewed
	}
	return nil
}

func (r *PostgresRepository) SetAttachmentKey(ctx context.Context, id, userID int64, key string) error {
	query :=
		`UPDATE leave_requests SET attachment_key = $3
		 WHERE id = $1 AND user_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, id, userID, key)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
