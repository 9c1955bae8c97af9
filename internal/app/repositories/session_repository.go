package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/fypdash/internal/app/models"
	"github.com/yigit/fypdash/internal/pkg/apperrors"
	"github.com/yigit/fypdash/internal/pkg/logger"
	"github.com/yigit/fypdash/internal/session"
)

const sessionsTable = "dashboard_sessions"

// SessionRepository stores dashboard sessions in PostgreSQL
type SessionRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Name identifies the store in logs and health output
func (r *SessionRepository) Name() string { return "postgres" }

func (r *SessionRepository) saveQuery(s *session.Session) (string, []interface{}, error) {
	var userData []byte
	if s.User != nil {
		b, err := json.Marshal(s.User)
		if err != nil {
			return "", nil, fmt.Errorf("failed to encode session user: %w", err)
		}
		userData = b
	}

	var expiresAt *time.Time
	if !s.ExpiresAt.IsZero() {
		expiresAt = &s.ExpiresAt
	}

	return r.sb.Insert(sessionsTable).
		Columns("id", "token", "user_data", "school_name", "hydrated", "created_at", "expires_at", "updated_at").
		Values(s.ID, s.Token, userData, s.SchoolName, s.Hydrated, s.CreatedAt, expiresAt, time.Now()).
		Suffix("ON CONFLICT (id) DO UPDATE SET token = EXCLUDED.token, user_data = EXCLUDED.user_data, " +
			"school_name = EXCLUDED.school_name, hydrated = EXCLUDED.hydrated, " +
			"expires_at = EXCLUDED.expires_at, updated_at = EXCLUDED.updated_at").
		ToSql()
}

// Save inserts or replaces a session
func (r *SessionRepository) Save(ctx context.Context, s *session.Session) error {
	sql, args, err := r.saveQuery(s)
	if err != nil {
		logger.Error().Err(err).Msg("Error building save session SQL")
		return fmt.Errorf("failed to build save session query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("sessionId", s.ID).Msg("Error executing save session query")
		return fmt.Errorf("error saving session: %w", err)
	}
	return nil
}

func (r *SessionRepository) loadQuery(id string) (string, []interface{}, error) {
	return r.sb.Select("id", "token", "user_data", "school_name", "hydrated", "created_at", "expires_at").
		From(sessionsTable).
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
}

// Load retrieves a session by id
func (r *SessionRepository) Load(ctx context.Context, id string) (*session.Session, error) {
	sql, args, err := r.loadQuery(id)
	if err != nil {
		logger.Error().Err(err).Msg("Error building load session SQL")
		return nil, fmt.Errorf("failed to build load session query: %w", err)
	}

	var (
		s         session.Session
		userData  []byte
		expiresAt *time.Time
	)
	err = r.db.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.Token, &userData, &s.SchoolName, &s.Hydrated, &s.CreatedAt, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSessionNotFound
		}
		logger.Error().Err(err).Str("sessionId", id).Msg("Error scanning session row")
		return nil, fmt.Errorf("error loading session: %w", err)
	}

	if len(userData) > 0 {
		var user models.User
		if err := json.Unmarshal(userData, &user); err != nil {
			return nil, fmt.Errorf("failed to decode session user: %w", err)
		}
		s.User = &user
	}
	if expiresAt != nil {
		s.ExpiresAt = *expiresAt
	}
	return &s, nil
}

// Delete removes a session
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	sql, args, err := r.sb.Delete(sessionsTable).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete session query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("sessionId", id).Msg("Error deleting session")
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}

// PurgeExpired removes sessions whose expiry passed before now
func (r *SessionRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	sql, args, err := r.sb.Delete(sessionsTable).
		Where(squirrel.And{
			squirrel.NotEq{"expires_at": nil},
			squirrel.Lt{"expires_at": now},
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete expired sessions query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error deleting expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *SessionRepository) countQuery(now time.Time) (string, []interface{}, error) {
	return r.sb.Select("COUNT(*)").
		From(sessionsTable).
		Where(squirrel.Or{
			squirrel.Eq{"expires_at": nil},
			squirrel.GtOrEq{"expires_at": now},
		}).
		ToSql()
}

// Count returns the number of sessions that have not expired at now
func (r *SessionRepository) Count(ctx context.Context, now time.Time) (int64, error) {
	sql, args, err := r.countQuery(now)
	if err != nil {
		return 0, fmt.Errorf("failed to build count sessions query: %w", err)
	}

	var n int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting sessions: %w", err)
	}
	return n, nil
}
