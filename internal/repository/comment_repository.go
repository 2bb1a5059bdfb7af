package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/officehours_bot/internal/model"
	"github.com/Freeeeeet/officehours_bot/internal/repository/base"
)

type CommentRepository struct {
	db base.DBTX
}

func NewCommentRepository(db base.DBTX) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, c *model.AppointmentComment) error {
	query := `
		INSERT INTO appointment_comments (appointment_id, author_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	if err := r.db.QueryRow(ctx, query, c.AppointmentID, c.AuthorID, c.Text).Scan(&c.ID, &c.CreatedAt); err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*model.AppointmentComment, error) {
	query := `
		SELECT id, appointment_id, author_id, text, created_at
		FROM appointment_comments
		WHERE id = $1
	`

	var c model.AppointmentComment
	err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.AppointmentID, &c.AuthorID, &c.Text, &c.CreatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &c, nil
}

func (r *CommentRepository) ListByAppointment(ctx context.Context, appointmentID int64) ([]*model.AppointmentComment, error) {
	query := `
		SELECT id, appointment_id, author_id, text, created_at
		FROM appointment_comments
		WHERE appointment_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.Query(ctx, query, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []*model.AppointmentComment
	for rows.Next() {
		var c model.AppointmentComment
		if err := rows.Scan(&c.ID, &c.AppointmentID, &c.AuthorID, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	return comments, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	affected, err := base.ExecAffected(ctx, r.db, `DELETE FROM appointment_comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete comment %d: %w", id, ErrNotUpdated)
	}
	return nil
}
