package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oneview/server/internal/shared/middleware"
	"github.com/oneview/server/internal/shared/response"
)

// Handler handles HTTP requests for login and profiles.
type Handler struct {
	service *Service
}

// NewHandler creates a new user handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the public user routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/login", h.Login)
}

// RegisterProtectedRoutes registers routes that require authentication.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.GET("/user/profile", h.GetProfile)
}

var errorMappings = []response.ErrorMapping{
	{Err: ErrCredentialsRequired, Status: http.StatusBadRequest, Message: "Email and password are required"},
	{Err: ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "Invalid email or password"},
	{Err: ErrAccountDeactivated, Status: http.StatusUnauthorized, Message: "Account is deactivated"},
	{Err: ErrUserNotFound, Status: http.StatusNotFound, Message: "User not found"},
}

// Login handles user authentication.
//
//	@Summary		Login
//	@Description	Authenticate with email and password and receive a JWT access token
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Login credentials"
//	@Success		200		{object}	LoginResponse
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		401		{object}	response.ErrorResponse
//	@Router			/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Email and password are required")
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		response.HandleErrorWithDefault(c, err, errorMappings)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetProfile returns the current user's profile.
//
//	@Summary		Get profile
//	@Description	Get the authenticated user's profile
//	@Tags			User
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	ProfileResponse
//	@Failure		401	{object}	map[string]interface{}
//	@Failure		404	{object}	response.ErrorResponse
//	@Router			/user/profile [get]
func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.service.GetUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.HandleErrorWithDefault(c, err, errorMappings)
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{Success: true, User: user.ToResponse()})
}
