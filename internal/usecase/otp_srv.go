package usecase

import (
	"context"
	"fmt"
	"time"

	"otp-service/internal/apperr"
	"otp-service/internal/data/entity"
	"otp-service/internal/data/repository"
	"otp-service/pkg/notifier"
	"otp-service/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxGenerateAttempts bounds the collision-regeneration loop. With six
// or more digits a second collision in a row is already vanishingly
// rare; five draws is plenty.
const maxGenerateAttempts = 5

type OTPService interface {
	Generate(ctx context.Context, userID uuid.UUID, operationID *string) (string, error)
	Send(ctx context.Context, userID uuid.UUID, operationID *string, channel notifier.Channel) error
	Validate(ctx context.Context, code string) (bool, error)
	SweepExpired(ctx context.Context) (int64, error)
}

type otpService struct {
	repo      *repository.Repository
	notifiers *notifier.Factory
	log       *zap.Logger
	now       func() time.Time
}

func NewOTPService(
	repo *repository.Repository,
	notifiers *notifier.Factory,
	log *zap.Logger,
) OTPService {
	return &otpService{
		repo:      repo,
		notifiers: notifiers,
		log:       log,
		now:       time.Now,
	}
}

// Generate draws a fresh passcode of the configured length, persists it
// as ACTIVE and returns the code string. A draw colliding with another
// ACTIVE code is thrown away and repeated so that by-value lookup stays
// unambiguous.
func (s *otpService) Generate(ctx context.Context, userID uuid.UUID, operationID *string) (string, error) {
	cfg, err := s.config(ctx)
	if err != nil {
		return "", err
	}

	var code string
	for attempt := 0; ; attempt++ {
		if attempt == maxGenerateAttempts {
			return "", fmt.Errorf("generate OTP: no collision-free code in %d attempts", maxGenerateAttempts)
		}

		code, err = utils.GenerateOTP(cfg.Length)
		if err != nil {
			return "", fmt.Errorf("generate OTP: %w", err)
		}

		active, err := s.repo.OTP.FindActiveByCode(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check OTP collision: %w", err)
		}
		if active == nil {
			break
		}

		s.log.Warn("OTP code collision, regenerating", zap.Int("attempt", attempt+1))
	}

	otp := &entity.OTPCode{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: s.now(),
		},
		UserID:      userID,
		OperationID: operationID,
		Code:        code,
		Status:      entity.OTPStatusActive,
	}

	if err := s.repo.OTP.Create(ctx, otp); err != nil {
		return "", fmt.Errorf("save OTP: %w", err)
	}

	s.log.Info("OTP generated",
		zap.String("user_id", userID.String()),
		zap.Stringp("operation_id", operationID),
		zap.Int("length", cfg.Length),
	)

	return code, nil
}

// Send generates a code and hands it to the channel's sender. Delivery
// is a single synchronous attempt; on failure the persisted code stays
// ACTIVE and redeemable until it expires.
func (s *otpService) Send(ctx context.Context, userID uuid.UUID, operationID *string, channel notifier.Channel) error {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("%w: user %s", apperr.ErrNotFound, userID.String())
	}

	sender, err := s.notifiers.Sender(channel)
	if err != nil {
		return fmt.Errorf("%w: %s", apperr.ErrValidation, err.Error())
	}

	code, err := s.Generate(ctx, userID, operationID)
	if err != nil {
		return err
	}

	if err := sender.SendCode(ctx, user.Username, code); err != nil {
		s.log.Error("OTP delivery failed",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("channel", string(channel)),
		)
		return fmt.Errorf("%w: %s", apperr.ErrDelivery, err.Error())
	}

	s.log.Info("OTP sent",
		zap.String("user_id", userID.String()),
		zap.String("channel", string(channel)),
	)
	return nil
}

// Validate consumes a code. The TTL in force is the one configured right
// now, not the one at generation time. Discovering an expired code
// triggers a batch sweep of everything ACTIVE past the TTL.
func (s *otpService) Validate(ctx context.Context, code string) (bool, error) {
	otp, err := s.repo.OTP.FindByCode(ctx, code)
	if err != nil {
		return false, fmt.Errorf("find OTP: %w", err)
	}
	if otp == nil {
		s.log.Warn("OTP validation: code not found")
		return false, nil
	}

	if otp.Status != entity.OTPStatusActive {
		s.log.Warn("OTP validation: code not active",
			zap.String("otp_id", otp.ID.String()),
			zap.String("status", string(otp.Status)),
		)
		return false, nil
	}

	cfg, err := s.config(ctx)
	if err != nil {
		return false, err
	}

	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	expiry := otp.CreatedAt.Add(ttl)

	// Strictly after: a code expiring at exactly this instant still
	// counts as valid.
	if s.now().After(expiry) {
		if _, err := s.repo.OTP.MarkExpiredOlderThan(ctx, ttl); err != nil {
			return false, fmt.Errorf("sweep expired OTP codes: %w", err)
		}
		s.log.Warn("OTP validation: code expired",
			zap.String("otp_id", otp.ID.String()),
			zap.Time("expired_at", expiry),
		)
		return false, nil
	}

	// Conditional transition; a concurrent validate or sweep that got
	// to the row first wins and this call reports failure.
	used, err := s.repo.OTP.MarkUsed(ctx, otp.ID)
	if err != nil {
		return false, fmt.Errorf("mark OTP used: %w", err)
	}
	if !used {
		s.log.Warn("OTP validation lost race for code", zap.String("otp_id", otp.ID.String()))
		return false, nil
	}

	s.log.Info("OTP validated and consumed", zap.String("otp_id", otp.ID.String()))
	return true, nil
}

// SweepExpired is the maintenance hook for codes nobody re-validates.
func (s *otpService) SweepExpired(ctx context.Context) (int64, error) {
	cfg, err := s.config(ctx)
	if err != nil {
		return 0, err
	}

	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	count, err := s.repo.OTP.MarkExpiredOlderThan(ctx, ttl)
	if err != nil {
		return 0, fmt.Errorf("sweep expired OTP codes: %w", err)
	}

	return count, nil
}

func (s *otpService) config(ctx context.Context) (*entity.OTPConfig, error) {
	cfg, err := s.repo.OTPConfig.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load OTP config: %w", err)
	}
	if cfg == nil {
		return nil, fmt.Errorf("OTP config not initialized")
	}
	return cfg, nil
}
