package adaptor

import (
	"encoding/json"
	"net/http"

	"otp-service/internal/dto/request"
	"otp-service/internal/dto/response"
	"otp-service/internal/usecase"
	"otp-service/pkg/notifier"
	"otp-service/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OTPHandler struct {
	service usecase.OTPService
	log     *zap.Logger
}

func NewOTPHandler(service usecase.OTPService, log *zap.Logger) *OTPHandler {
	return &OTPHandler{
		service: service,
		log:     log,
	}
}

// Generate handles POST /api/otp/generate
func (h *OTPHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req request.GenerateOTPRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid user ID", nil)
		return
	}

	channel, err := notifier.ParseChannel(req.Channel)
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	if err := h.service.Send(r.Context(), userID, req.OperationID, channel); err != nil {
		respondError(w, h.log, err, "generate OTP")
		return
	}

	utils.ResponseAccepted(w, "OTP dispatched", nil)
}

// Validate handles POST /api/otp/validate
func (h *OTPHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req request.ValidateOTPRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	valid, err := h.service.Validate(r.Context(), req.Code)
	if err != nil {
		respondError(w, h.log, err, "validate OTP")
		return
	}

	utils.ResponseSuccess(w, "OTP validation complete", response.ValidateOTPResponse{Valid: valid})
}

// Sweep handles POST /api/admin/otp/sweep
func (h *OTPHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	expired, err := h.service.SweepExpired(r.Context())
	if err != nil {
		respondError(w, h.log, err, "sweep expired OTP codes")
		return
	}

	utils.ResponseSuccess(w, "Expired OTP codes swept", response.SweepResponse{Expired: expired})
}
