package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"otp-service/internal/apperr"
	"otp-service/internal/data/entity"
	"otp-service/pkg/notifier"
	"otp-service/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type otpFixture struct {
	svc     *otpService
	users   *fakeUserRepo
	otps    *fakeOTPRepo
	cfg     *fakeOTPConfigRepo
	sender  *fakeSender
	current time.Time
}

func (fx *otpFixture) advance(d time.Duration) {
	fx.current = fx.current.Add(d)
}

func newOTPFixture(t *testing.T) *otpFixture {
	t.Helper()

	fx := &otpFixture{
		current: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
		users:   newFakeUserRepo(),
		cfg:     newFakeOTPConfigRepo(),
		sender:  &fakeSender{},
	}
	clock := func() time.Time { return fx.current }
	fx.otps = newFakeOTPRepo(clock)

	factory := notifier.NewFactory(&utils.Config{}, zap.NewNop())
	factory.Register(notifier.ChannelEmail, fx.sender)

	fx.svc = &otpService{
		repo:      newTestRepository(fx.users, fx.otps, fx.cfg),
		notifiers: factory,
		log:       zap.NewNop(),
		now:       clock,
	}
	return fx
}

func (fx *otpFixture) seedUser(t *testing.T, username string) *entity.User {
	t.Helper()

	user := &entity.User{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: fx.current,
			UpdatedAt: fx.current,
		},
		Username: username,
		Role:     entity.RoleUser,
	}
	require.NoError(t, fx.users.Create(context.Background(), user))
	return user
}

func TestGeneratePersistsActiveCode(t *testing.T) {
	fx := newOTPFixture(t)
	user := fx.seedUser(t, "alice")
	opID := "payment-42"

	code, err := fx.svc.Generate(context.Background(), user.ID, &opID)
	require.NoError(t, err)
	assert.Len(t, code, entity.DefaultOTPLength)

	stored, err := fx.otps.FindByCode(context.Background(), code)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, user.ID, stored.UserID)
	assert.Equal(t, entity.OTPStatusActive, stored.Status)
	require.NotNil(t, stored.OperationID)
	assert.Equal(t, "payment-42", *stored.OperationID)
	assert.Equal(t, fx.current, stored.CreatedAt)
}

func TestGenerateHonorsConfiguredLength(t *testing.T) {
	fx := newOTPFixture(t)
	user := fx.seedUser(t, "alice")

	require.NoError(t, fx.cfg.Update(context.Background(), 8, 600))

	code, err := fx.svc.Generate(context.Background(), user.ID, nil)
	require.NoError(t, err)
	assert.Len(t, code, 8)
}

func TestGenerateWithoutConfig(t *testing.T) {
	fx := newOTPFixture(t)
	fx.cfg.cfg = nil
	user := fx.seedUser(t, "alice")

	_, err := fx.svc.Generate(context.Background(), user.ID, nil)
	assert.Error(t, err)
}

func TestSendDeliversToUsername(t *testing.T) {
	fx := newOTPFixture(t)
	user := fx.seedUser(t, "alice@example.com")

	err := fx.svc.Send(context.Background(), user.ID, nil, notifier.ChannelEmail)
	require.NoError(t, err)

	require.Len(t, fx.sender.sent, 1)
	assert.Equal(t, "alice@example.com", fx.sender.sent[0].recipient)
	assert.Len(t, fx.sender.sent[0].code, entity.DefaultOTPLength)

	// The delivered code matches the persisted ACTIVE row.
	stored, err := fx.otps.FindActiveByCode(context.Background(), fx.sender.sent[0].code)
	require.NoError(t, err)
	assert.NotNil(t, stored)
}

func TestSendUnknownUser(t *testing.T) {
	fx := newOTPFixture(t)

	err := fx.svc.Send(context.Background(), uuid.New(), nil, notifier.ChannelEmail)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Empty(t, fx.sender.sent)
}

func TestSendUnknownChannel(t *testing.T) {
	fx := newOTPFixture(t)
	user := fx.seedUser(t, "alice")

	err := fx.svc.Send(context.Background(), user.ID, nil, notifier.Channel("PIGEON"))
	assert.ErrorIs(t, err, apperr.ErrValidation)
	// Rejected before any code was minted.
	assert.Empty(t, fx.otps.codes)
}

func TestSendDeliveryFailureKeepsCodeActive(t *testing.T) {
	fx := newOTPFixture(t)
	user := fx.seedUser(t, "alice")
	fx.sender.err = errors.New("smtp connection refused")

	err := fx.svc.Send(context.Background(), user.ID, nil, notifier.ChannelEmail)
	assert.ErrorIs(t, err, apperr.ErrDelivery)

	// Failed delivery does not burn the code; it stays redeemable.
	require.Len(t, fx.otps.codes, 1)
	assert.Equal(t, entity.OTPStatusActive, fx.otps.codes[0].Status)
}

func TestValidateConsumesCodeOnce(t *testing.T) {
	fx := newOTPFixture(t)
	user := fx.seedUser(t, "alice")

	code, err := fx.svc.Generate(context.Background(), user.ID, nil)
	require.NoError(t, err)

	valid, err := fx.svc.Validate(context.Background(), code)
	require.NoError(t, err)
	assert.True(t, valid)

	stored, err := fx.otps.FindByCode(context.Background(), code)
	require.NoError(t, err)
	assert.Equal(t, entity.OTPStatusUsed, stored.Status)

	// Single use: the same code never validates twice.
	valid, err = fx.svc.Validate(context.Background(), code)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestValidateUnknownCode(t *testing.T) {
	fx := newOTPFixture(t)

	valid, err := fx.svc.Validate(context.Background(), "999999")
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestValidateExpiredCode(t *testing.T) {
	fx := newOTPFixture(t)
	user := fx.seedUser(t, "alice")

	code, err := fx.svc.Generate(context.Background(), user.ID, nil)
	require.NoError(t, err)

	// One second past the 300s TTL.
	fx.advance(301 * time.Second)

	valid, err := fx.svc.Validate(context.Background(), code)
	require.NoError(t, err)
	assert.False(t, valid)

	// Discovery of the expired code swept it to EXPIRED, not USED.
	stored, err := fx.otps.FindByCode(context.Background(), code)
	require.NoError(t, err)
	assert.Equal(t, entity.OTPStatusExpired, stored.Status)
}

func TestValidateAtExactExpiryInstant(t *testing.T) {
	fx := newOTPFixture(t)
	user := fx.seedUser(t, "alice")

	code, err := fx.svc.Generate(context.Background(), user.ID, nil)
	require.NoError(t, err)

	// Exactly created_at + TTL: still valid, expiry is strictly after.
	fx.advance(300 * time.Second)

	valid, err := fx.svc.Validate(context.Background(), code)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestValidateExpiryUsesCurrentConfig(t *testing.T) {
	fx := newOTPFixture(t)
	user := fx.seedUser(t, "alice")

	code, err := fx.svc.Generate(context.Background(), user.ID, nil)
	require.NoError(t, err)

	// Shrink the TTL after generation; the new policy applies.
	require.NoError(t, fx.cfg.Update(context.Background(), entity.DefaultOTPLength, 60))
	fx.advance(2 * time.Minute)

	valid, err := fx.svc.Validate(context.Background(), code)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestValidateExpiredTriggersBatchSweep(t *testing.T) {
	fx := newOTPFixture(t)
	alice := fx.seedUser(t, "alice")
	bob := fx.seedUser(t, "bob")

	staleAlice, err := fx.svc.Generate(context.Background(), alice.ID, nil)
	require.NoError(t, err)
	staleBob, err := fx.svc.Generate(context.Background(), bob.ID, nil)
	require.NoError(t, err)

	fx.advance(10 * time.Minute)

	fresh, err := fx.svc.Generate(context.Background(), bob.ID, nil)
	require.NoError(t, err)

	valid, err := fx.svc.Validate(context.Background(), staleAlice)
	require.NoError(t, err)
	assert.False(t, valid)

	// The sweep caught bob's stale code too, but left the fresh one.
	staleRow, _ := fx.otps.FindByCode(context.Background(), staleBob)
	freshRow, _ := fx.otps.FindByCode(context.Background(), fresh)
	assert.Equal(t, entity.OTPStatusExpired, staleRow.Status)
	assert.Equal(t, entity.OTPStatusActive, freshRow.Status)
}

func TestSweepExpired(t *testing.T) {
	fx := newOTPFixture(t)
	user := fx.seedUser(t, "alice")

	stale1, err := fx.svc.Generate(context.Background(), user.ID, nil)
	require.NoError(t, err)
	stale2, err := fx.svc.Generate(context.Background(), user.ID, nil)
	require.NoError(t, err)

	// Consume one before it goes stale; USED rows are not sweep targets.
	valid, err := fx.svc.Validate(context.Background(), stale2)
	require.NoError(t, err)
	require.True(t, valid)

	fx.advance(10 * time.Minute)

	fresh, err := fx.svc.Generate(context.Background(), user.ID, nil)
	require.NoError(t, err)

	count, err := fx.svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	row1, _ := fx.otps.FindByCode(context.Background(), stale1)
	row2, _ := fx.otps.FindByCode(context.Background(), stale2)
	rowFresh, _ := fx.otps.FindByCode(context.Background(), fresh)
	assert.Equal(t, entity.OTPStatusExpired, row1.Status)
	assert.Equal(t, entity.OTPStatusUsed, row2.Status)
	assert.Equal(t, entity.OTPStatusActive, rowFresh.Status)
}

func TestSweepExpiredNothingToDo(t *testing.T) {
	fx := newOTPFixture(t)
	user := fx.seedUser(t, "alice")

	_, err := fx.svc.Generate(context.Background(), user.ID, nil)
	require.NoError(t, err)

	count, err := fx.svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
