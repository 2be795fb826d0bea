package notifier

import (
	"context"
	"fmt"

	"otp-service/pkg/utils"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type EmailSender struct {
	config utils.EmailConfig
	log    *zap.Logger
}

func NewEmailSender(config utils.EmailConfig, log *zap.Logger) *EmailSender {
	return &EmailSender{
		config: config,
		log:    log.With(zap.String("channel", "email")),
	}
}

func (s *EmailSender) SendCode(ctx context.Context, recipient, code string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.From)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", "Your one-time passcode")
	m.SetBody("text/plain", fmt.Sprintf("Your one-time verification code is: %s", code))

	d := gomail.NewDialer(s.config.Host, s.config.Port, s.config.User, s.config.Password)

	if err := d.DialAndSend(m); err != nil {
		s.log.Error("Failed to send OTP email",
			zap.Error(err),
			zap.String("recipient", recipient),
		)
		return fmt.Errorf("send OTP email to %s: %w", recipient, err)
	}

	s.log.Info("OTP email sent", zap.String("recipient", recipient))
	return nil
}
