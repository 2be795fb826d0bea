package request

type GenerateOTPRequest struct {
	UserID      string  `json:"user_id" validate:"required,uuid"`
	OperationID *string `json:"operation_id,omitempty" validate:"omitempty,max=100"`
	Channel     string  `json:"channel" validate:"required,oneof=EMAIL SMS TELEGRAM FILE"`
}

type ValidateOTPRequest struct {
	Code string `json:"code" validate:"required,numeric,min=4,max=10"`
}
