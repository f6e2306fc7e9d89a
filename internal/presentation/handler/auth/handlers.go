package auth

import (
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmelnic/teamchat/internal/domain"
	"github.com/dmelnic/teamchat/internal/infrastructure/configs"
	"github.com/dmelnic/teamchat/internal/infrastructure/json"
	"github.com/dmelnic/teamchat/internal/infrastructure/logging"
	"github.com/dmelnic/teamchat/internal/infrastructure/ws"
	"github.com/dmelnic/teamchat/internal/presentation/utils"
)

type Handler struct {
	userRepository domain.UserRepository
	hub            *ws.Hub
	config         configs.AuthConfig
	logger         logging.Logger
}

func NewHandler(
	userRepository domain.UserRepository,
	hub *ws.Hub,
	config configs.AuthConfig,
	logger logging.Logger,
) *Handler {
	return &Handler{
		userRepository: userRepository,
		hub:            hub,
		config:         config,
		logger:         logger,
	}
}

// LoginHandler godoc
// @Summary      Log in
// @Description  Exchanges email and password for a session token, set both as an HttpOnly cookie and returned in the body.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body loginRequest true "Credentials"
// @Success      200 {object} loginResponse "Logged in"
// @Failure      400 {object} map[string]interface{} "Malformed request"
// @Failure      401 {object} map[string]interface{} "Invalid credentials"
// @Router       /auth/login [post]
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	user, err := h.userRepository.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			json.WriteUnauthorizedError(w, "Invalid email or password")
			return
		}
		json.WriteInternalError(w, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		json.WriteUnauthorizedError(w, "Invalid email or password")
		return
	}

	token, err := utils.IssueToken(h.config.JWTSecret, h.config.TokenTTL, user)
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}

	utils.SetSessionCookie(w, token, h.config.TokenTTL, h.config.SecureCookies)

	h.logger.Info(logging.Auth, logging.Connection, "user logged in", map[logging.ExtraKey]any{
		logging.UserID: user.ID,
	})

	json.Write(w, http.StatusOK, loginResponse{
		Token: token,
		User:  toUserResponse(user),
	})
}

// LogoutHandler godoc
// @Summary      Log out
// @Description  Clears the session cookie and announces the user as offline.
// @Tags         auth
// @Produce      json
// @Success      204 "Logged out"
// @Security     SessionAuth
// @Router       /auth/logout [post]
func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if claims, ok := utils.ClaimsFromContext(r.Context()); ok {
		if err := h.userRepository.UpdateStatus(r.Context(), claims.Subject, domain.StatusOffline); err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			json.WriteInternalError(w, err)
			return
		}
		h.hub.Presence(claims.Subject, domain.StatusOffline)
	}

	utils.ClearSessionCookie(w, h.config.SecureCookies)
	w.WriteHeader(http.StatusNoContent)
}

// MeHandler godoc
// @Summary      Current user
// @Description  Returns the profile of the authenticated user.
// @Tags         auth
// @Produce      json
// @Success      200 {object} userResponse "Current user"
// @Failure      401 {object} map[string]interface{} "Not authenticated"
// @Security     SessionAuth
// @Router       /auth/me [get]
func (h *Handler) MeHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := utils.ClaimsFromContext(r.Context())
	if !ok {
		json.WriteUnauthorizedError(w, "Not authenticated")
		return
	}

	user, err := h.userRepository.GetByID(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			json.WriteUnauthorizedError(w, "Not authenticated")
			return
		}
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusOK, toUserResponse(user))
}

// RegisterHandler godoc
// @Summary      Register a user
// @Description  Creates a new user account. Only admins can register users; there is no open signup.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body registerRequest true "New user"
// @Success      201 {object} userResponse "User created"
// @Failure      400 {object} map[string]interface{} "Validation error"
// @Failure      403 {object} map[string]interface{} "Caller is not an admin"
// @Failure      409 {object} map[string]interface{} "Email already registered"
// @Security     SessionAuth
// @Router       /auth/register [post]
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := utils.ClaimsFromContext(r.Context())
	if !ok || claims.Role != domain.RoleAdmin {
		json.WriteError(w, http.StatusForbidden, errors.New("forbidden"), "Only admins can register users")
		return
	}

	var req registerRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if len(req.Password) < 8 {
		json.WriteBadRequestError(w, "Password must be at least 8 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}

	user, err := domain.NewUser(req.Name, req.Email, string(hash), req.Role)
	if err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if err := h.userRepository.Create(r.Context(), user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			json.WriteError(w, http.StatusConflict, err, "Email already registered")
			return
		}
		json.WriteInternalError(w, err)
		return
	}

	h.logger.Info(logging.Auth, logging.Connection, "user registered", map[logging.ExtraKey]any{
		logging.UserID: user.ID,
	})

	json.Write(w, http.StatusCreated, toUserResponse(user))
}
