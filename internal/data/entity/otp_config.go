package entity

// OTPConfig is a singleton row. Length and TTL are read on every
// generate/validate call, so an admin update takes effect immediately,
// including for codes generated under the previous config.
type OTPConfig struct {
	ID         int64 `db:"id"`
	Length     int   `db:"length"`
	TTLSeconds int   `db:"ttl_seconds"`
}

const (
	DefaultOTPLength     = 6
	DefaultOTPTTLSeconds = 300
)
