package response

type ValidateOTPResponse struct {
	Valid bool `json:"valid"`
}

type SweepResponse struct {
	Expired int64 `json:"expired"`
}
