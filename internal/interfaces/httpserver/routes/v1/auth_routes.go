package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/dm-server/internal/domain/session"
	"github.com/janhq/dm-server/internal/interfaces/httpserver/handlers"
	"github.com/janhq/dm-server/internal/interfaces/httpserver/middlewares"
	"github.com/janhq/dm-server/internal/interfaces/httpserver/requests"
	"github.com/janhq/dm-server/internal/interfaces/httpserver/responses"
	"github.com/janhq/dm-server/internal/utils/platformerrors"
)

// RegisterAuthRoutes registers account and session routes.
func RegisterAuthRoutes(router gin.IRouter, handler *handlers.AuthHandler, opts Options, log zerolog.Logger, gate, optional gin.HandlerFunc) {
	router.POST("/register", register(handler))

	login := []gin.HandlerFunc{}
	if opts.LoginLimiter != nil {
		login = append(login, middlewares.RateLimit(opts.LoginLimiter, log))
	}
	router.POST("/login", append(login, loginHandler(handler, opts))...)
	router.POST("/logout", logout(opts))

	router.GET("/me", gate, me(handler))
	router.GET("/users", optional, searchUsers(handler))
}

// register godoc
// @Summary      Register a user
// @Description  Creates an account. The confirmation may be sent as cpassword or confirmPassword.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body requests.RegisterRequest true "Registration form"
// @Success      201 {object} responses.AuthResponse
// @Failure      400 {object} responses.ErrorResponse
// @Failure      500 {object} responses.ErrorResponse
// @Router       /register [post]
func register(handler *handlers.AuthHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req requests.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid registration form", err, "9d2c5e18-register-bind")
			return
		}

		u, err := handler.Register(c.Request.Context(), &req)
		if err != nil {
			responses.HandleError(c, err)
			return
		}

		c.JSON(http.StatusCreated, responses.AuthResponse{
			Message: "User created successfully",
			User:    responses.NewUserResponse(u),
		})
	}
}

// loginHandler godoc
// @Summary      Log in
// @Description  Verifies credentials and sets the session_token cookie.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body requests.LoginRequest true "Credentials"
// @Success      200 {object} responses.AuthResponse
// @Failure      400 {object} responses.ErrorResponse
// @Failure      401 {object} responses.ErrorResponse
// @Failure      404 {object} responses.ErrorResponse
// @Failure      429 {object} responses.ErrorResponse
// @Router       /login [post]
func loginHandler(handler *handlers.AuthHandler, opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req requests.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "email and password are required", err, "41f7b0a3-login-bind")
			return
		}

		u, token, err := handler.Login(c.Request.Context(), &req)
		if err != nil {
			responses.HandleError(c, err)
			return
		}

		responses.SetSessionCookie(c, token, opts.SessionTTL, opts.CookieSecure)
		c.JSON(http.StatusOK, responses.AuthResponse{
			Message: "Login successful",
			User:    responses.NewUserResponse(u),
		})
	}
}

// logout godoc
// @Summary      Log out
// @Description  Expires the session_token cookie. Always succeeds.
// @Tags         Auth
// @Produce      json
// @Success      200 {object} responses.StatusResponse
// @Router       /logout [post]
func logout(opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		responses.ClearSessionCookie(c, opts.SecureLogout)
		c.JSON(http.StatusOK, responses.StatusResponse{Message: "Logged out successfully"})
	}
}

// me godoc
// @Summary      Current user
// @Tags         Auth
// @Produce      json
// @Success      200 {object} responses.UserResponse
// @Failure      401 {object} responses.ErrorResponse
// @Failure      404 {object} responses.ErrorResponse
// @Router       /me [get]
func me(handler *handlers.AuthHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := handler.Me(c.Request.Context(), session.UserID(c.Request.Context()))
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, responses.NewUserResponse(u))
	}
}

// searchUsers godoc
// @Summary      Search users
// @Description  Case-insensitive substring match on name or email. The caller is excluded when logged in.
// @Tags         Users
// @Produce      json
// @Param        search query string false "Search term"
// @Success      200 {array} responses.UserResponse
// @Failure      500 {object} responses.ErrorResponse
// @Router       /users [get]
func searchUsers(handler *handlers.AuthHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		users, err := handler.SearchUsers(ctx, c.Query("search"), session.UserID(ctx))
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, responses.NewUserListResponse(users))
	}
}
