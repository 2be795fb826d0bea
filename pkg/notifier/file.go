package notifier

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// FileSender appends codes to a local file; the recipient is the file
// path. Used for development and offline delivery.
type FileSender struct {
	log *zap.Logger
}

func NewFileSender(log *zap.Logger) *FileSender {
	return &FileSender{
		log: log.With(zap.String("channel", "file")),
	}
}

func (s *FileSender) SendCode(ctx context.Context, recipient, code string) error {
	if recipient == "" {
		return fmt.Errorf("file channel needs a target path")
	}

	if dir := filepath.Dir(recipient); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create OTP file directory %s: %w", dir, err)
		}
	}

	f, err := os.OpenFile(recipient, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		s.log.Error("Failed to open OTP file",
			zap.Error(err),
			zap.String("path", recipient),
		)
		return fmt.Errorf("open OTP file %s: %w", recipient, err)
	}
	defer f.Close()

	entry := fmt.Sprintf("%s - OTP: %s\n", time.Now().Format("2006-01-02 15:04:05"), code)
	if _, err := f.WriteString(entry); err != nil {
		s.log.Error("Failed to write OTP to file",
			zap.Error(err),
			zap.String("path", recipient),
		)
		return fmt.Errorf("write OTP to file %s: %w", recipient, err)
	}

	s.log.Info("OTP written to file", zap.String("path", recipient))
	return nil
}
