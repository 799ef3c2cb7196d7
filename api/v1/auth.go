package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskboard-api/dto"
	"github.com/taskboard-api/services"
)

// AuthController handles registration and token endpoints
type AuthController struct {
	authService *services.AuthService
}

// NewAuthController creates a new auth controller
func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{authService: auth}
}

// RegisterRoutes registers the public auth routes
func (a *AuthController) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/register/", a.Register)
	router.POST("/token/", a.Login)
	router.POST("/token/refresh/", a.Refresh)
}

// Register handles user registration
func (a *AuthController) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := a.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewUserSummary(user))
}

// Login exchanges credentials for an access/refresh token pair
func (a *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := a.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Refresh exchanges a refresh token for a new access token
func (a *AuthController) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	access, err := a.authService.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, access)
}
