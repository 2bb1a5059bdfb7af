package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Freeeeeet/officehours_bot/internal/model"
	"github.com/Freeeeeet/officehours_bot/internal/repository"
	"go.uber.org/zap"
)

const maxCommentLength = 2000

type CommentService struct {
	store  repository.Store
	logger *zap.Logger
}

func NewCommentService(store repository.Store, logger *zap.Logger) *CommentService {
	return &CommentService{store: store, logger: logger}
}

// AddComment оставляет комментарий к встрече от её участника или администратора
func (s *CommentService) AddComment(ctx context.Context, appointmentID, authorID int64, text string) (*model.AppointmentComment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, validationf("comment text is required")
	}
	if utf8.RuneCountInString(text) > maxCommentLength {
		return nil, validationf("comment is longer than %d characters", maxCommentLength)
	}

	if _, err := s.requireAccess(ctx, appointmentID, authorID); err != nil {
		return nil, err
	}

	comment := &model.AppointmentComment{
		AppointmentID: appointmentID,
		AuthorID:      authorID,
		Text:          text,
	}
	if err := s.store.Comments().Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.logger.Info("Comment added",
		zap.Int64("comment_id", comment.ID),
		zap.Int64("appointment_id", appointmentID),
		zap.Int64("author_id", authorID))

	return comment, nil
}

func (s *CommentService) ListComments(ctx context.Context, appointmentID, viewerID int64) ([]*model.AppointmentComment, error) {
	if _, err := s.requireAccess(ctx, appointmentID, viewerID); err != nil {
		return nil, err
	}
	return s.store.Comments().ListByAppointment(ctx, appointmentID)
}

// DeleteComment удалить комментарий может только автор
func (s *CommentService) DeleteComment(ctx context.Context, commentID, actorID int64) error {
	comment, err := s.store.Comments().GetByID(ctx, commentID)
	if err != nil {
		return fmt.Errorf("get comment: %w", err)
	}
	if comment == nil {
		return fmt.Errorf("%w %d", ErrCommentNotFound, commentID)
	}
	if comment.AuthorID != actorID {
		return ErrNotOwner
	}

	if err := s.store.Comments().Delete(ctx, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

func (s *CommentService) requireAccess(ctx context.Context, appointmentID, userID int64) (*model.Appointment, error) {
	appt, err := requireAppointment(ctx, s.store, appointmentID, false)
	if err != nil {
		return nil, err
	}
	if appt.ParticipantOf(userID) != model.ParticipantNone {
		return appt, nil
	}

	user, err := requireUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, ErrNotParticipant
	}
	return appt, nil
}
