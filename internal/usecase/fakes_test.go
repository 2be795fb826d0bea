package usecase

import (
	"context"
	"sort"
	"time"

	"otp-service/internal/data/entity"
	"otp-service/internal/data/repository"

	"github.com/google/uuid"
)

// In-memory repository fakes. Each mirrors the conditional-update
// semantics of its SQL counterpart so service-level race handling is
// exercised the same way.

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
	err   error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	if f.err != nil {
		return f.err
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[id], nil
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindAllNonAdmins(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*entity.User
	for _, u := range f.users {
		if u.Role != entity.RoleAdmin {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeUserRepo) CountNonAdmins(ctx context.Context) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	var n int64
	for _, u := range f.users {
		if u.Role != entity.RoleAdmin {
			n++
		}
	}
	return n, nil
}

func (f *fakeUserRepo) AdminExists(ctx context.Context) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, u := range f.users {
		if u.Role == entity.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	delete(f.users, id)
	return nil
}

type fakeOTPRepo struct {
	codes []*entity.OTPCode
	now   func() time.Time
	err   error
}

func newFakeOTPRepo(now func() time.Time) *fakeOTPRepo {
	return &fakeOTPRepo{now: now}
}

func (f *fakeOTPRepo) Create(ctx context.Context, otp *entity.OTPCode) error {
	if f.err != nil {
		return f.err
	}
	cp := *otp
	f.codes = append(f.codes, &cp)
	return nil
}

func (f *fakeOTPRepo) FindByCode(ctx context.Context, code string) (*entity.OTPCode, error) {
	if f.err != nil {
		return nil, f.err
	}
	var newest *entity.OTPCode
	for _, c := range f.codes {
		if c.Code != code {
			continue
		}
		if newest == nil || c.CreatedAt.After(newest.CreatedAt) {
			newest = c
		}
	}
	return newest, nil
}

func (f *fakeOTPRepo) FindActiveByCode(ctx context.Context, code string) (*entity.OTPCode, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, c := range f.codes {
		if c.Code == code && c.Status == entity.OTPStatusActive {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeOTPRepo) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]*entity.OTPCode, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*entity.OTPCode
	for _, c := range f.codes {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeOTPRepo) MarkUsed(ctx context.Context, id uuid.UUID) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, c := range f.codes {
		if c.ID == id && c.Status == entity.OTPStatusActive {
			c.Status = entity.OTPStatusUsed
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeOTPRepo) MarkExpiredOlderThan(ctx context.Context, ttl time.Duration) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	cutoff := f.now().Add(-ttl)
	var n int64
	for _, c := range f.codes {
		if c.Status == entity.OTPStatusActive && c.CreatedAt.Before(cutoff) {
			c.Status = entity.OTPStatusExpired
			n++
		}
	}
	return n, nil
}

func (f *fakeOTPRepo) DeleteAllByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	var kept []*entity.OTPCode
	var n int64
	for _, c := range f.codes {
		if c.UserID == userID {
			n++
			continue
		}
		kept = append(kept, c)
	}
	f.codes = kept
	return n, nil
}

type fakeOTPConfigRepo struct {
	cfg *entity.OTPConfig
	err error
}

func newFakeOTPConfigRepo() *fakeOTPConfigRepo {
	return &fakeOTPConfigRepo{
		cfg: &entity.OTPConfig{
			ID:         1,
			Length:     entity.DefaultOTPLength,
			TTLSeconds: entity.DefaultOTPTTLSeconds,
		},
	}
}

func (f *fakeOTPConfigRepo) Get(ctx context.Context) (*entity.OTPConfig, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.cfg, nil
}

func (f *fakeOTPConfigRepo) Update(ctx context.Context, length, ttlSeconds int) error {
	if f.err != nil {
		return f.err
	}
	f.cfg = &entity.OTPConfig{ID: 1, Length: length, TTLSeconds: ttlSeconds}
	return nil
}

func (f *fakeOTPConfigRepo) InitDefaultIfAbsent(ctx context.Context) error {
	if f.err != nil {
		return f.err
	}
	if f.cfg == nil {
		f.cfg = &entity.OTPConfig{
			ID:         1,
			Length:     entity.DefaultOTPLength,
			TTLSeconds: entity.DefaultOTPTTLSeconds,
		}
	}
	return nil
}

type sentCode struct {
	recipient string
	code      string
}

type fakeSender struct {
	sent []sentCode
	err  error
}

func (f *fakeSender) SendCode(ctx context.Context, recipient, code string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentCode{recipient: recipient, code: code})
	return nil
}

func newTestRepository(users *fakeUserRepo, otps *fakeOTPRepo, cfg *fakeOTPConfigRepo) *repository.Repository {
	return &repository.Repository{
		User:      users,
		OTP:       otps,
		OTPConfig: cfg,
	}
}
