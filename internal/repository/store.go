package repository

import (
	"context"

	"github.com/Freeeeeet/officehours_bot/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

// PgStore реализация Store поверх PostgreSQL
type PgStore struct {
	conn base.Conn
}

// NewStore принимает *pgxpool.Pool либо pgx.Tx
func NewStore(conn base.Conn) *PgStore {
	return &PgStore{conn: conn}
}

func (s *PgStore) Users() Users                   { return NewUserRepository(s.conn) }
func (s *PgStore) Programs() Programs             { return NewProgramRepository(s.conn) }
func (s *PgStore) Availabilities() Availabilities { return NewAvailabilityRepository(s.conn) }
func (s *PgStore) Appointments() Appointments     { return NewAppointmentRepository(s.conn) }
func (s *PgStore) Comments() Comments             { return NewCommentRepository(s.conn) }
func (s *PgStore) Feedback() Feedback             { return NewFeedbackRepository(s.conn) }

// InTx внутри уже открытой транзакции создаёт savepoint
func (s *PgStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	return pgx.BeginFunc(ctx, s.conn, func(tx pgx.Tx) error {
		return fn(&PgStore{conn: tx})
	})
}
