// Package controllers handles HTTP request handling
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/fypdash/internal/app/models"
	"github.com/yigit/fypdash/internal/app/models/dto"
	"github.com/yigit/fypdash/internal/app/services"
	"github.com/yigit/fypdash/internal/app/views"
	"github.com/yigit/fypdash/internal/middleware"
	"github.com/yigit/fypdash/internal/pkg/apperrors"
	"github.com/yigit/fypdash/internal/session"
	"github.com/yigit/fypdash/internal/wizard"
)

// AuthController handles login, signup and logout
type AuthController struct {
	authService   *services.AuthService
	schoolService *services.SchoolService
	sessions      *session.Manager
	sessionMW     *middleware.SessionMiddleware
	wizard        *wizard.Service
	logger        zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(
	authService *services.AuthService,
	schoolService *services.SchoolService,
	sessions *session.Manager,
	sessionMW *middleware.SessionMiddleware,
	wizardService *wizard.Service,
	logger zerolog.Logger,
) *AuthController {
	return &AuthController{
		authService:   authService,
		schoolService: schoolService,
		sessions:      sessions,
		sessionMW:     sessionMW,
		wizard:        wizardService,
		logger:        logger,
	}
}

// LoginPage returns the login page
// @Summary Login page
// @Description Returns the login page model. Signed-in users are redirected to their school's colleges.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.AuthPageView} "Login page"
// @Success 302 "Already signed in"
// @Router /auth/login [get]
func (c *AuthController) LoginPage(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.AuthPageView{}))
}

// RegisterPage returns the signup page with the schools and roles to choose from
// @Summary Signup page
// @Description Returns the schools and roles offered on the signup form
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.AuthPageView} "Signup page"
// @Success 302 "Already signed in"
// @Failure 502 {object} dto.ErrorResponse "Backend unavailable"
// @Router /auth/register [get]
func (c *AuthController) RegisterPage(ctx *gin.Context) {
	schools, err := c.schoolService.GetAllSchools(ctx.Request.Context())
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to load schools for signup")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.AuthPageView{
		Schools: schools,
		Roles:   models.Roles,
	}))
}

// Login handles user login
// @Summary User login
// @Description Authenticates against the backend, starts a session and sets the session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResult} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		c.logger.Warn().Msg("Invalid login request payload")
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		c.respondAuthError(ctx, err)
		return
	}

	if err := c.startSession(ctx, resp); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("userId", resp.User.ID).Msg("User logged in successfully")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.AuthResult{
		User:     resp.User,
		Redirect: views.CollegesPath(resp.User.SchoolID),
	}))
}

// Register handles user signup
// @Summary Register a new user
// @Description Creates an account on the backend and keeps the returned token in a new session. The client is sent to the login page.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "User registration information"
// @Success 201 {object} dto.APIResponse{data=dto.AuthResult} "Account created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or invalid role"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if !middleware.BindJSON(ctx, &req) {
		c.logger.Warn().Msg("Invalid registration request payload")
		return
	}

	resp, err := c.authService.Register(ctx.Request.Context(), &req)
	if err != nil {
		c.respondAuthError(ctx, err)
		return
	}

	if resp.Token != "" {
		if err := c.startSession(ctx, resp); err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
	}

	c.logger.Info().Str("email", req.Email).Str("role", string(req.Role)).Msg("User registered")
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.AuthResult{
		User:     resp.User,
		Redirect: middleware.LoginPath,
	}))
}

// Logout clears the session
// @Summary Logout
// @Description Deletes the session, its wizard and the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.RedirectResponse} "Logged out"
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	if s := middleware.CurrentSession(ctx); s != nil {
		c.wizard.Forget(s.ID)
		c.logger.Info().Str("session_id", s.ID).Msg("User logged out")
	}
	c.sessionMW.End(ctx)

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.RedirectResponse{
		Message:  "Logged out",
		Redirect: middleware.LoginPath,
	}))
}

// startSession reuses the request's session when there is one, stores the user and token, and sets the cookie
func (c *AuthController) startSession(ctx *gin.Context, resp *dto.AuthResponse) error {
	reqCtx := ctx.Request.Context()

	s := middleware.CurrentSession(ctx)
	if s == nil {
		var err error
		if s, err = c.sessions.Create(reqCtx); err != nil {
			c.logger.Error().Err(err).Msg("Failed to create session")
			return err
		}
	}

	user := resp.User
	s, err := c.sessions.SetUser(reqCtx, s.ID, &user, resp.Token)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to store user in session")
		return err
	}
	return c.sessionMW.Issue(ctx, s)
}

// respondAuthError shows rejected credentials inline instead of treating them as a lost session
func (c *AuthController) respondAuthError(ctx *gin.Context, err error) {
	if apperrors.Is(err, apperrors.ErrUnauthorized, apperrors.ErrTokenInvalid) {
		c.logger.Warn().Err(err).Msg("Authentication rejected")
		detail := dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, err.Error())
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
		return
	}

	var apiErr *apperrors.APIError
	if errors.As(err, &apiErr) {
		c.logger.Warn().Err(err).Int("status", apiErr.Status).Msg("Backend rejected authentication request")
	}
	middleware.HandleAPIError(ctx, err)
}
