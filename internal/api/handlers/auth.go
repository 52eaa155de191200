package handlers

import (
	"errors"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"avatarshop/internal/api/dto"
	"avatarshop/internal/api/services"
	r "avatarshop/internal/redis"
	"avatarshop/internal/repository"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(db *sqlx.DB, rdb *redis.Client, jwtKey string) *AuthHandler {
	userRepo := repository.NewUserRepository(db)
	return &AuthHandler{
		authService: services.NewAuthService(userRepo, r.BalanceCache(rdb), jwtKey),
	}
}

// Register godoc
// @Summary Register
// @Description Create a player account with the starting wallet
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Credentials"
// @Success 201 {object} dto.User
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return ErrBadRequest(c, "invalid request")
	}

	if err := c.Validate(&req); err != nil {
		return ErrBadRequest(c, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), services.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Gender:   req.Gender,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserAlreadyExists):
			return ErrConflict(c, "user already exists")
		case errors.Is(err, services.ErrInvalidInput):
			return ErrBadRequest(c, "username must be 3-32 characters and password 6-72")
		default:
			return ErrInternalServerError(c, err)
		}
	}

	return c.JSON(http.StatusCreated, dto.UserFromDomain(user))
}

// Login godoc
// @Summary Login
// @Description Exchange credentials for a JWT valid for one hour
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return ErrBadRequest(c, "invalid request")
	}

	if err := c.Validate(&req); err != nil {
		return ErrBadRequest(c, err.Error())
	}

	user, token, err := h.authService.Login(c.Request().Context(), services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return ErrUnauthorizedWithMessage(c, "invalid credentials")
		case errors.Is(err, services.ErrInvalidInput):
			return ErrBadRequest(c, "invalid input")
		default:
			return ErrInternalServerError(c, err)
		}
	}

	return c.JSON(http.StatusOK, dto.LoginResponse{
		Token: token,
		User:  dto.UserFromDomain(user),
	})
}

// GetBalance godoc
// @Summary Get balance
// @Description Current gold and tickets of a user
// @Tags auth
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} dto.Balance
// @Failure 404 {object} map[string]string
// @Router /api/auth/user/{username} [get]
func (h *AuthHandler) GetBalance(c echo.Context) error {
	username := c.Param("username")
	if username == "" {
		return ErrBadRequest(c, "username is required")
	}

	wallet, err := h.authService.Balance(c.Request().Context(), username)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return ErrNotFound(c, "user not found")
		}
		return ErrInternalServerError(c, err)
	}

	return c.JSON(http.StatusOK, dto.BalanceFromDomain(*wallet))
}
