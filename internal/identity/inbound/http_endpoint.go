package inbound

import (
	"github.com/samber/lo"
	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/identity/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
)

// HTTPEndpoint exposes registration, login and user administration.
type HTTPEndpoint struct {
	uc uc
}

// Register creates an account. Only one admin account can ever exist.
// @Summary Register user
// @Description Creates a user account. Setting admin creates the single administrator account.
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Register payload"
// @Success 201 {object} router.successResponse{data=RegisterResponse} "User registered successfully"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 409 {object} router.errorResponse "Username or email already taken, or admin already exists"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /register [post]
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Register(r.Context(), usecase.RegisterInput{
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		Phone:          req.Phone,
		TelegramChatID: req.TelegramChatID,
		Admin:          req.Admin,
	})
	if err != nil {
		return nil, err
	}

	return RegisterResponse{ID: resp.ID, Role: resp.Role.String()}, nil
}

// Login checks the credentials and issues an access token.
// @Summary Authenticate user
// @Description Validates credentials and returns a JWT access token carrying the user role.
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login payload"
// @Success 200 {object} router.successResponse{data=LoginResponse} "Authentication result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid credentials"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /login [post]
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	return LoginResponse{AccessToken: resp.AccessToken}, nil
}

// Profile returns the authenticated caller.
// @Summary Get current user
// @Description Returns the identity and role of the token owner.
// @Tags Identity, Profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} router.successResponse{data=ProfileResponse} "Current user"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 404 {object} router.errorResponse "User not found"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /me [get]
func (h *HTTPEndpoint) Profile(r *router.Request) (any, error) {
	resp, err := h.uc.Profile(r.Context())
	if err != nil {
		return nil, err
	}

	return ProfileResponse{
		ID:       resp.ID,
		Username: resp.Username,
		Email:    resp.Email,
		Role:     resp.Role,
	}, nil
}

// UserList returns every non-admin user.
// @Summary List users
// @Description Returns all users with the USER role.
// @Tags Identity, Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} router.successResponse{data=[]User} "User list"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /admin/users [get]
func (h *HTTPEndpoint) UserList(r *router.Request) (any, error) {
	users, err := h.uc.UserList(r.Context())
	if err != nil {
		return nil, err
	}

	return UserListResponse(lo.Map(users, func(u entity.User, _ int) User {
		return User{
			ID:             u.ID,
			Username:       u.Username,
			Email:          u.Email,
			Phone:          u.Phone,
			TelegramChatID: u.TelegramChatID,
			CreatedAt:      u.CreatedAt,
		}
	})), nil
}

// UserDelete removes a user together with their OTP codes.
// @Summary Delete user
// @Description Deletes a user and every OTP code issued to them. The admin account cannot be deleted.
// @Tags Identity, Admin
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid path parameter"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 404 {object} router.errorResponse "User not found"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /admin/users/{id} [delete]
func (h *HTTPEndpoint) UserDelete(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, goerror.NewInvalidFormat("user id must be a number")
	}

	if err := h.uc.UserDelete(r.Context(), usecase.UserDeleteInput{ID: id}); err != nil {
		return nil, err
	}

	return UserDeleteResponse{}, nil
}
