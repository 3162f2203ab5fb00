package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gamerx/internal/middleware"
	"gamerx/internal/model"
	"gamerx/internal/service"
	"gamerx/pkg/response"

	"github.com/gin-gonic/gin"
)

var imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

// UploadConfig says where profile pictures are stored and how large they may be
type UploadConfig struct {
	Dir      string
	MaxBytes int64
}

type UserHandler struct {
	userService service.UserService
	uploads     UploadConfig
}

// NewUserHandler sets up the routing dependencies for account endpoints
func NewUserHandler(userService service.UserService, uploads UploadConfig) *UserHandler {
	return &UserHandler{userService: userService, uploads: uploads}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.Authenticator) {
	group := router.Group("/api/auth")
	{
		group.POST("/register", h.Register)
		group.POST("/login", h.Login)
		group.GET("/verify", h.Verify)

		group.GET("/me", auth.Authenticate(), auth.Authorize(model.RoleUser, model.RoleAdmin), h.GetMe)
		group.POST("/upload-profile", auth.Authenticate(), auth.Authorize(model.RoleUser, model.RoleAdmin), h.UploadProfile)
		group.PUT("/change-password", auth.Authenticate(), auth.Authorize(model.RoleUser, model.RoleAdmin), h.ChangePassword)
	}
}

// Register creates a buyer or store admin account
// @Summary      Register account
// @Description  Registers a user (verification token mailed and returned) or, with the admin secret, a verified store admin
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RegisterRequest  true  "Registration payload"
// @Success      201      {object}  response.Response{data=service.RegisterResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	out := response.Success(http.StatusCreated, res)
	if res.Token != "" {
		out.Message = "User registered and verified"
	} else {
		out.Message = "Registration successful. Please verify your email using the provided token."
	}
	c.JSON(http.StatusCreated, out)
}

// Login handles POST /login to authenticate and return a JWT token
// @Summary      Login user
// @Description  Authenticates a verified account by email and password, returning a 7-day JWT
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "Login Credentials"
// @Success      200      {object}  response.Response{data=service.LoginResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// Verify consumes an email verification token
// @Summary      Verify email
// @Tags         auth
// @Produce      json
// @Param        token  query     string  true  "Verification token"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Router       /api/auth/verify [get]
func (h *UserHandler) Verify(c *gin.Context) {
	if err := h.userService.Verify(c.Request.Context(), c.Query("token")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Email verified successfully"))
}

// GetMe handles GET /me to return current authenticated user based on JWT
// @Summary      Get current user
// @Description  Get the currently authenticated user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200      {object}  response.Response{data=service.UserResponse}
// @Failure      401      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/auth/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := h.userService.Me(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// ChangePassword replaces the caller's password
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.ChangePasswordRequest  true  "Current and new password"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /api/auth/change-password [put]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req service.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), userID, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Password updated successfully"))
}

// UploadProfile stores a new profile picture for the caller
// @Summary      Upload profile picture
// @Description  Accepts an image (jpg, png, gif, webp) up to the configured size in the profilePicture field
// @Tags         auth
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        profilePicture  formData  file  true  "Image file"
// @Success      200             {object}  response.Response{data=service.UserResponse}
// @Failure      400             {object}  response.Response
// @Router       /api/auth/upload-profile [post]
func (h *UserHandler) UploadProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.uploads.MaxBytes+1<<20)
	file, err := c.FormFile("profilePicture")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "No file uploaded"))
		return
	}
	if file.Size > h.uploads.MaxBytes {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, fmt.Sprintf("File exceeds the %d MB limit", h.uploads.MaxBytes>>20)))
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExtensions[ext] {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Only image files are allowed"))
		return
	}

	if err := os.MkdirAll(h.uploads.Dir, 0o755); err != nil {
		respondError(c, fmt.Errorf("failed to create upload dir: %w", err))
		return
	}
	name := fmt.Sprintf("profile-%s-%d%s", userID, time.Now().UnixNano(), ext)
	if err := c.SaveUploadedFile(file, filepath.Join(h.uploads.Dir, name)); err != nil {
		respondError(c, fmt.Errorf("failed to save upload: %w", err))
		return
	}

	user, err := h.userService.SetProfilePicture(c.Request.Context(), userID, "/uploads/"+name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}
