package repository

import (
	"otp-service/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User      UserRepository
	OTP       OTPRepository
	OTPConfig OTPConfigRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:      NewUserRepository(db, log),
		OTP:       NewOTPRepository(db, log),
		OTPConfig: NewOTPConfigRepository(db, log),
	}
}
