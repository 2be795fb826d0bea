package notifier

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"otp-service/pkg/utils"

	"go.uber.org/zap"
)

// TelegramSender calls the Bot API sendMessage endpoint. An empty
// recipient falls back to the configured default chat id.
type TelegramSender struct {
	config utils.TelegramConfig
	client *http.Client
	log    *zap.Logger
}

func NewTelegramSender(config utils.TelegramConfig, log *zap.Logger) *TelegramSender {
	return &TelegramSender{
		config: config,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log.With(zap.String("channel", "telegram")),
	}
}

func (s *TelegramSender) SendCode(ctx context.Context, recipient, code string) error {
	if s.config.Token == "" {
		return fmt.Errorf("telegram channel is not configured")
	}

	chatID := recipient
	if chatID == "" {
		chatID = s.config.ChatID
	}

	endpoint := fmt.Sprintf("%s%s/sendMessage", s.config.APIURL, s.config.Token)

	params := url.Values{}
	params.Set("chat_id", chatID)
	params.Set("text", fmt.Sprintf("Your one-time verification code is: %s", code))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build telegram request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Error("Failed to send OTP via Telegram",
			zap.Error(err),
			zap.String("chat_id", chatID),
		)
		return fmt.Errorf("send OTP to telegram chat %s: %w", chatID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.log.Error("Telegram API error",
			zap.Int("status", resp.StatusCode),
			zap.String("chat_id", chatID),
		)
		return fmt.Errorf("telegram API returned %d for chat %s", resp.StatusCode, chatID)
	}

	s.log.Info("OTP sent via Telegram", zap.String("chat_id", chatID))
	return nil
}
