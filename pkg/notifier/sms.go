package notifier

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"otp-service/pkg/utils"

	"go.uber.org/zap"
)

// SMSSender posts to the Twilio Messages REST API.
type SMSSender struct {
	config utils.SMSConfig
	client *http.Client
	log    *zap.Logger
}

func NewSMSSender(config utils.SMSConfig, log *zap.Logger) *SMSSender {
	return &SMSSender{
		config: config,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log.With(zap.String("channel", "sms")),
	}
}

func (s *SMSSender) SendCode(ctx context.Context, recipient, code string) error {
	if s.config.AccountSID == "" || s.config.AuthToken == "" || s.config.From == "" {
		return fmt.Errorf("SMS channel is not configured")
	}

	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json",
		s.config.AccountSID)

	form := url.Values{}
	form.Set("To", recipient)
	form.Set("From", s.config.From)
	form.Set("Body", fmt.Sprintf("Your one-time verification code is: %s", code))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build SMS request: %w", err)
	}
	req.SetBasicAuth(s.config.AccountSID, s.config.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Error("Failed to send OTP SMS",
			zap.Error(err),
			zap.String("recipient", recipient),
		)
		return fmt.Errorf("send OTP SMS to %s: %w", recipient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.log.Error("SMS gateway rejected the message",
			zap.Int("status", resp.StatusCode),
			zap.String("recipient", recipient),
		)
		return fmt.Errorf("SMS gateway returned %d for %s", resp.StatusCode, recipient)
	}

	s.log.Info("OTP SMS sent", zap.String("recipient", recipient))
	return nil
}
