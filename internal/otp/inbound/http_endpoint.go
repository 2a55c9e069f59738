package inbound

import (
	"github.com/shandysiswandi/otpgate/internal/otp/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
)

const msgInvalidCode = "Invalid or expired OTP code"

// HTTPEndpoint exposes the OTP lifecycle and its admin settings over HTTP.
type HTTPEndpoint struct {
	uc uc
}

func caller(r *router.Request) (*jwt.Claims, error) {
	clm := jwt.GetAuth(r.Context())
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}
	return clm, nil
}

// Generate issues a code for the caller and delivers it over the configured channel.
// @Summary Generate OTP code
// @Description Creates a one-time code for the caller and operation and sends it over the configured delivery channel. The code itself is never returned.
// @Tags OTP
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body GenerateRequest true "Generate payload"
// @Success 201 {object} router.successResponse{data=GenerateResponse} "OTP code has been sent"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 409 {object} router.errorResponse "An active OTP code already exists for this operation"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 502 {object} router.errorResponse "Failed to deliver OTP code"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /otp/generate [post]
func (h *HTTPEndpoint) Generate(r *router.Request) (any, error) {
	clm, err := caller(r)
	if err != nil {
		return nil, err
	}

	var req GenerateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Generate(r.Context(), usecase.GenerateInput{
		UserID:      clm.UserID,
		OperationID: req.OperationID,
	})
	if err != nil {
		return nil, err
	}

	return GenerateResponse{
		ID:        resp.ID,
		Channel:   resp.Channel.String(),
		ExpiresAt: resp.ExpiresAt,
	}, nil
}

// Validate answers 400 for every rejected code so callers cannot tell a
// wrong code from an expired or consumed one.
// @Summary Validate OTP code
// @Description Consumes the active code of the caller for an operation. A code can be validated only once.
// @Tags OTP
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body ValidateRequest true "Validate payload"
// @Success 200 {object} router.successResponse{data=ValidateResponse} "OTP code is valid"
// @Failure 400 {object} router.errorResponse "Invalid or expired OTP code"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /otp/validate [post]
func (h *HTTPEndpoint) Validate(r *router.Request) (any, error) {
	clm, err := caller(r)
	if err != nil {
		return nil, err
	}

	var req ValidateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	ok, err := h.uc.Validate(r.Context(), usecase.ValidateInput{
		UserID:      clm.UserID,
		OperationID: req.OperationID,
		Code:        req.Code,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, goerror.NewBusiness(msgInvalidCode, goerror.CodeBadRequest)
	}

	return ValidateResponse{Valid: true}, nil
}

// GetConfig returns the settings applied to newly generated codes.
// @Summary Get OTP config
// @Description Returns the code length, TTL and delivery channel used for new codes.
// @Tags OTP, Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} router.successResponse{data=ConfigResponse} "OTP config"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /admin/otp-config [get]
func (h *HTTPEndpoint) GetConfig(r *router.Request) (any, error) {
	resp, err := h.uc.GetConfig(r.Context())
	if err != nil {
		return nil, err
	}

	return toConfigResponse(resp), nil
}

// UpdateConfig replaces the settings; codes already issued keep their expiry.
// @Summary Update OTP config
// @Description Sets the code length (4-12) and TTL in seconds (60-86400) for codes generated from now on.
// @Tags OTP, Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body ConfigRequest true "Config payload"
// @Success 200 {object} router.successResponse{data=ConfigResponse} "Updated OTP config"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /admin/otp-config [put]
func (h *HTTPEndpoint) UpdateConfig(r *router.Request) (any, error) {
	var req ConfigRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.UpdateConfig(r.Context(), usecase.UpdateConfigInput{
		CodeLength: req.CodeLength,
		TTLSeconds: req.TTLSeconds,
	})
	if err != nil {
		return nil, err
	}

	return toConfigResponse(resp), nil
}

func toConfigResponse(out *usecase.ConfigOutput) ConfigResponse {
	return ConfigResponse{
		CodeLength:      out.CodeLength,
		TTLSeconds:      out.TTLSeconds,
		DeliveryChannel: out.DeliveryChannel.String(),
	}
}
