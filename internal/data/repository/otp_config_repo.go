package repository

import (
	"context"
	"fmt"

	"otp-service/internal/data/entity"
	"otp-service/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type OTPConfigRepository interface {
	// Get returns the singleton config row, or nil when none exists yet.
	Get(ctx context.Context) (*entity.OTPConfig, error)
	Update(ctx context.Context, length, ttlSeconds int) error
	// InitDefaultIfAbsent seeds length=6, ttl=300s on first startup.
	InitDefaultIfAbsent(ctx context.Context) error
}

type otpConfigRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewOTPConfigRepository(db database.PgxIface, log *zap.Logger) OTPConfigRepository {
	return &otpConfigRepository{
		db:  db,
		log: log.With(zap.String("repository", "otp_config")),
	}
}

func (r *otpConfigRepository) Get(ctx context.Context) (*entity.OTPConfig, error) {
	query := `SELECT id, length, ttl_seconds FROM otp_config LIMIT 1`

	var cfg entity.OTPConfig
	err := r.db.QueryRow(ctx, query).Scan(&cfg.ID, &cfg.Length, &cfg.TTLSeconds)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to load OTP config", zap.Error(err))
		return nil, fmt.Errorf("load OTP config: %w", err)
	}

	return &cfg, nil
}

func (r *otpConfigRepository) Update(ctx context.Context, length, ttlSeconds int) error {
	query := `
		UPDATE otp_config
		SET length = $1, ttl_seconds = $2
	`

	result, err := r.db.Exec(ctx, query, length, ttlSeconds)
	if err != nil {
		r.log.Error("Failed to update OTP config",
			zap.Error(err),
			zap.Int("length", length),
			zap.Int("ttl_seconds", ttlSeconds),
		)
		return fmt.Errorf("update OTP config: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("OTP config row not found")
	}

	r.log.Info("OTP config updated",
		zap.Int("length", length),
		zap.Int("ttl_seconds", ttlSeconds),
	)
	return nil
}

func (r *otpConfigRepository) InitDefaultIfAbsent(ctx context.Context) error {
	existing, err := r.Get(ctx)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	query := `INSERT INTO otp_config (length, ttl_seconds) VALUES ($1, $2)`

	_, err = r.db.Exec(ctx, query, entity.DefaultOTPLength, entity.DefaultOTPTTLSeconds)
	if err != nil {
		r.log.Error("Failed to seed default OTP config", zap.Error(err))
		return fmt.Errorf("seed default OTP config: %w", err)
	}

	r.log.Info("Default OTP config seeded",
		zap.Int("length", entity.DefaultOTPLength),
		zap.Int("ttl_seconds", entity.DefaultOTPTTLSeconds),
	)
	return nil
}
