package request

type UpdateOTPConfigRequest struct {
	Length     int `json:"length" validate:"required,min=4,max=10"`
	TTLSeconds int `json:"ttl_seconds" validate:"required,min=30,max=86400"`
}
