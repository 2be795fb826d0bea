package repository

import (
	"context"
	"fmt"
	"time"

	"otp-service/internal/data/entity"
	"otp-service/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type OTPRepository interface {
	Create(ctx context.Context, otp *entity.OTPCode) error
	// FindByCode returns the most recently created row matching the code
	// string, or nil when none matches. Codes are not unique across time;
	// newest-first keeps the lookup deterministic.
	FindByCode(ctx context.Context, code string) (*entity.OTPCode, error)
	// FindActiveByCode is the collision probe used at generation time.
	FindActiveByCode(ctx context.Context, code string) (*entity.OTPCode, error)
	FindAllByUser(ctx context.Context, userID uuid.UUID) ([]*entity.OTPCode, error)
	// MarkUsed flips ACTIVE -> USED and reports whether this call won the
	// transition. A row already USED or EXPIRED is left untouched.
	MarkUsed(ctx context.Context, id uuid.UUID) (bool, error)
	// MarkExpiredOlderThan flips every ACTIVE row older than ttl to
	// EXPIRED and returns how many rows changed.
	MarkExpiredOlderThan(ctx context.Context, ttl time.Duration) (int64, error)
	DeleteAllByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type otpRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewOTPRepository(db database.PgxIface, log *zap.Logger) OTPRepository {
	return &otpRepository{
		db:  db,
		log: log.With(zap.String("repository", "otp")),
	}
}

func (r *otpRepository) Create(ctx context.Context, otp *entity.OTPCode) error {
	query := `
		INSERT INTO otp_codes (id, user_id, operation_id, code, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		otp.ID,
		otp.UserID,
		otp.OperationID,
		otp.Code,
		otp.Status,
		otp.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create OTP code",
			zap.Error(err),
			zap.String("user_id", otp.UserID.String()),
		)
		return fmt.Errorf("create OTP code for user %s: %w", otp.UserID.String(), err)
	}

	return nil
}

func (r *otpRepository) FindByCode(ctx context.Context, code string) (*entity.OTPCode, error) {
	query := `
		SELECT id, user_id, operation_id, code, status, created_at
		FROM otp_codes
		WHERE code = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	return r.scanOne(ctx, query, code)
}

func (r *otpRepository) FindActiveByCode(ctx context.Context, code string) (*entity.OTPCode, error) {
	query := `
		SELECT id, user_id, operation_id, code, status, created_at
		FROM otp_codes
		WHERE code = $1 AND status = 'ACTIVE'
		ORDER BY created_at DESC
		LIMIT 1
	`

	return r.scanOne(ctx, query, code)
}

func (r *otpRepository) scanOne(ctx context.Context, query, code string) (*entity.OTPCode, error) {
	var otp entity.OTPCode
	err := r.db.QueryRow(ctx, query, code).Scan(
		&otp.ID,
		&otp.UserID,
		&otp.OperationID,
		&otp.Code,
		&otp.Status,
		&otp.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find OTP code", zap.Error(err))
		return nil, fmt.Errorf("find OTP code: %w", err)
	}

	return &otp, nil
}

func (r *otpRepository) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]*entity.OTPCode, error) {
	query := `
		SELECT id, user_id, operation_id, code, status, created_at
		FROM otp_codes
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to list OTP codes by user",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("list OTP codes for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var codes []*entity.OTPCode
	for rows.Next() {
		var otp entity.OTPCode
		err := rows.Scan(
			&otp.ID,
			&otp.UserID,
			&otp.OperationID,
			&otp.Code,
			&otp.Status,
			&otp.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan OTP row", zap.Error(err))
			return nil, fmt.Errorf("scan OTP row: %w", err)
		}
		codes = append(codes, &otp)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate OTP rows: %w", err)
	}

	return codes, nil
}

func (r *otpRepository) MarkUsed(ctx context.Context, id uuid.UUID) (bool, error) {
	// Conditional on ACTIVE so a racing sweep cannot be overwritten; the
	// losing caller observes zero rows affected.
	query := `
		UPDATE otp_codes
		SET status = 'USED'
		WHERE id = $1 AND status = 'ACTIVE'
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to mark OTP code as used",
			zap.Error(err),
			zap.String("otp_id", id.String()),
		)
		return false, fmt.Errorf("mark OTP %s as used: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *otpRepository) MarkExpiredOlderThan(ctx context.Context, ttl time.Duration) (int64, error) {
	query := `
		UPDATE otp_codes
		SET status = 'EXPIRED'
		WHERE status = 'ACTIVE' AND created_at < NOW() - $1::interval
	`

	result, err := r.db.Exec(ctx, query, ttl.String())
	if err != nil {
		r.log.Error("Failed to mark expired OTP codes",
			zap.Error(err),
			zap.Duration("ttl", ttl),
		)
		return 0, fmt.Errorf("mark OTP codes expired older than %s: %w", ttl, err)
	}

	affected := result.RowsAffected()
	if affected > 0 {
		r.log.Info("Expired OTP codes marked",
			zap.Int64("count", affected),
			zap.Duration("ttl", ttl),
		)
	}

	return affected, nil
}

func (r *otpRepository) DeleteAllByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `DELETE FROM otp_codes WHERE user_id = $1`

	result, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to delete OTP codes by user",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("delete OTP codes for user %s: %w", userID.String(), err)
	}

	return result.RowsAffected(), nil
}
