// Package notifier delivers generated passcodes to a recipient through a
// channel selected by the caller. Delivery is synchronous and never
// retried here; a failed send is reported to the caller while the code
// itself stays redeemable.
package notifier

import (
	"context"
	"fmt"
	"strings"

	"otp-service/pkg/utils"

	"go.uber.org/zap"
)

type Channel string

const (
	ChannelEmail    Channel = "EMAIL"
	ChannelSMS      Channel = "SMS"
	ChannelTelegram Channel = "TELEGRAM"
	ChannelFile     Channel = "FILE"
)

func ParseChannel(s string) (Channel, error) {
	ch := Channel(strings.ToUpper(s))
	switch ch {
	case ChannelEmail, ChannelSMS, ChannelTelegram, ChannelFile:
		return ch, nil
	default:
		return "", fmt.Errorf("unsupported channel %q", s)
	}
}

// Sender delivers one code to one recipient.
type Sender interface {
	SendCode(ctx context.Context, recipient, code string) error
}

// Factory maps a channel tag to its sender. New channels are added by
// extending the map, not by editing a dispatch function.
type Factory struct {
	senders map[Channel]Sender
}

func NewFactory(config *utils.Config, log *zap.Logger) *Factory {
	return &Factory{
		senders: map[Channel]Sender{
			ChannelEmail:    NewEmailSender(config.Email, log),
			ChannelSMS:      NewSMSSender(config.SMS, log),
			ChannelTelegram: NewTelegramSender(config.Telegram, log),
			ChannelFile:     NewFileSender(log),
		},
	}
}

// Register installs or replaces the sender for a channel.
func (f *Factory) Register(ch Channel, s Sender) {
	f.senders[ch] = s
}

func (f *Factory) Sender(ch Channel) (Sender, error) {
	sender, ok := f.senders[ch]
	if !ok {
		return nil, fmt.Errorf("unsupported channel %q", ch)
	}
	return sender, nil
}
