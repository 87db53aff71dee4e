package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/application"
	"github.com/GarciaPiedraEdwinLeonardo/Nexum/pkg/response"
	"github.com/GarciaPiedraEdwinLeonardo/Nexum/pkg/validation"
)

// maxProfilePictureBytes caps uploads at 5 MiB.
const maxProfilePictureBytes = 5 << 20

var allowedPictureExts = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

type UserHandler struct {
	Users  *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(users *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Users: users, Logger: logger}
}

// GetProfile GET /api/users/me
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.Users.GetProfile(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		writeError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, user, "profile", nil)
	c.JSON(resp.Status, resp)
}

// UpdateProfile PUT /api/users/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required,min=2,max=100"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}

	user, err := h.Users.UpdateProfile(c.Request.Context(), c.GetString("userID"), application.UpdateProfileInput{Name: req.Name})
	if err != nil {
		writeError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, user, "profile updated", nil)
	c.JSON(resp.Status, resp)
}

// UploadProfilePicture POST /api/users/me/picture (multipart field "picture")
func (h *UserHandler) UploadProfilePicture(c *gin.Context) {
	fh, err := c.FormFile("picture")
	if err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "missing picture file", nil)
		c.JSON(resp.Status, resp)
		return
	}
	if fh.Size > maxProfilePictureBytes {
		resp := response.Error[any](c, http.StatusRequestEntityTooLarge, "picture too large", nil)
		c.JSON(resp.Status, resp)
		return
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	contentType, ok := allowedPictureExts[ext]
	if !ok {
		resp := response.Error[any](c, http.StatusBadRequest, "unsupported image format", nil)
		c.JSON(resp.Status, resp)
		return
	}

	f, err := fh.Open()
	if err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "unreadable picture file", nil)
		c.JSON(resp.Status, resp)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Users.UploadProfilePicture(c.Request.Context(), c.GetString("userID"), f, fh.Filename, contentType)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, gin.H{"profile_picture_url": url}, "picture uploaded", nil)
	c.JSON(resp.Status, resp)
}

// DeleteAccount DELETE /api/users/me
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	if err := h.Users.DeleteAccount(c.Request.Context(), c.GetString("userID")); err != nil {
		writeError(c, err)
		return
	}
	resp := response.Success[any](c, http.StatusOK, nil, "account deleted", nil)
	c.JSON(resp.Status, resp)
}

// Stats GET /api/admin/users/stats
func (h *UserHandler) Stats(c *gin.Context) {
	stats, err := h.Users.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, stats, "user stats", nil)
	c.JSON(resp.Status, resp)
}
