package main

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"kioskcal/internal/api"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (app *app) activateSneakyPhoto(c *gin.Context) {
	file, err := c.FormFile("photo")
	if err != nil {
		api.JSONError(c, http.StatusBadRequest, api.ErrorCodeValidation, "photo file is required")
		return
	}

	tmpPath := filepath.Join(app.config.Assets.UploadDir, uuid.NewString())
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		api.JSONError(c, http.StatusInternalServerError, api.ErrorCodeInternal, "failed to store photo")
		return
	}

	status, err := app.overlays.ActivatePhoto(tmpPath, c.PostForm("duration"))
	if err != nil {
		_ = os.Remove(tmpPath)
		api.JSONError(c, http.StatusInternalServerError, api.ErrorCodeInternal, "failed to activate photo")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"expiresAt": status.ExpiresAt.Format(time.RFC3339),
	})
}

func (app *app) sneakyPhotoStatus(c *gin.Context) {
	status := app.overlays.Photo()
	if !status.Active {
		c.JSON(http.StatusOK, gin.H{"active": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"active":     true,
		"uploadedAt": status.UploadedAt.Format(time.RFC3339),
		"expiresAt":  status.ExpiresAt.Format(time.RFC3339),
	})
}

func (app *app) sneakyPhotoImage(c *gin.Context) {
	if !app.overlays.Photo().Active {
		api.JSONError(c, http.StatusNotFound, api.ErrorCodeNotFound, "no active photo")
		return
	}
	c.File(app.overlays.PhotoPath())
}

func (app *app) deactivateSneakyPhoto(c *gin.Context) {
	if err := app.overlays.DeactivatePhoto(); err != nil {
		api.JSONError(c, http.StatusInternalServerError, api.ErrorCodeInternal, "failed to deactivate photo")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (app *app) activateSneakyMessage(c *gin.Context) {
	var req struct {
		Message  string `json:"message"`
		Duration string `json:"duration"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		api.JSONError(c, http.StatusBadRequest, api.ErrorCodeValidation, "message is required")
		return
	}

	status, err := app.overlays.ActivateMessage(strings.TrimSpace(req.Message), req.Duration)
	if err != nil {
		api.JSONError(c, http.StatusInternalServerError, api.ErrorCodeInternal, "failed to activate message")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"expiresAt": status.ExpiresAt.Format(time.RFC3339),
	})
}

func (app *app) sneakyMessageStatus(c *gin.Context) {
	status := app.overlays.Message()
	if !status.Active {
		c.JSON(http.StatusOK, gin.H{"active": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"active":    true,
		"message":   status.Message,
		"createdAt": status.CreatedAt.Format(time.RFC3339),
		"expiresAt": status.ExpiresAt.Format(time.RFC3339),
	})
}

func (app *app) deactivateSneakyMessage(c *gin.Context) {
	if err := app.overlays.DeactivateMessage(); err != nil {
		api.JSONError(c, http.StatusInternalServerError, api.ErrorCodeInternal, "failed to deactivate message")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
