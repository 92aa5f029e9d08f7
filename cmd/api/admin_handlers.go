package main

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"kioskcal/internal/api"
	"kioskcal/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var dayNames = []string{"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"}

// slotFor maps a wall-clock hour to the dashboard's greeting slots.
func slotFor(hour int) string {
	switch {
	case hour >= 6 && hour < 9:
		return "matin"
	case hour >= 9 && hour < 12:
		return "matinee"
	case hour >= 12 && hour < 14:
		return "midi"
	case hour >= 14 && hour < 18:
		return "apres_midi"
	default:
		return "soir"
	}
}

// currentWelcomeMessage picks the greeting for the current day and time
// slot. An active sneaky message overrides it.
func (app *app) currentWelcomeMessage(c *gin.Context) {
	if sneaky := app.overlays.Message(); sneaky.Active {
		c.JSON(http.StatusOK, gin.H{"message": sneaky.Message, "isSneaky": true})
		return
	}

	now := time.Now()
	day := dayNames[int(now.Weekday())]
	slot := slotFor(now.Hour())

	message, err := app.store.GetWelcomeMessage(c.Request.Context(), day, slot)
	if err != nil {
		message = "Bonne journée !"
	}

	c.JSON(http.StatusOK, gin.H{"message": message, "isSneaky": false})
}

func (app *app) listWelcomeMessages(c *gin.Context) {
	messages, err := app.store.ListWelcomeMessages(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"welcomeMessages": gin.H{}})
		return
	}

	nested := map[string]map[string]string{}
	for _, m := range messages {
		if nested[m.Day] == nil {
			nested[m.Day] = map[string]string{}
		}
		nested[m.Day][m.Slot] = m.Message
	}

	c.JSON(http.StatusOK, gin.H{"welcomeMessages": nested})
}

func (app *app) saveWelcomeMessages(c *gin.Context) {
	var req struct {
		WelcomeMessages map[string]map[string]string `json:"welcomeMessages"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.WelcomeMessages == nil {
		api.JSONError(c, http.StatusBadRequest, api.ErrorCodeValidation, "welcomeMessages is required")
		return
	}

	var messages []store.WelcomeMessage
	for day, slots := range req.WelcomeMessages {
		for slot, message := range slots {
			message = strings.TrimSpace(message)
			if message == "" {
				continue
			}
			messages = append(messages, store.WelcomeMessage{Day: day, Slot: slot, Message: message})
		}
	}

	if err := app.store.ReplaceWelcomeMessages(c.Request.Context(), messages); err != nil {
		api.JSONError(c, http.StatusInternalServerError, api.ErrorCodeInternal, "failed to save welcome messages")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (app *app) getTheme(c *gin.Context) {
	theme, err := app.store.GetTheme(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, theme)
}

func (app *app) saveTheme(c *gin.Context) {
	var theme store.Theme
	if err := c.ShouldBindJSON(&theme); err != nil {
		api.JSONError(c, http.StatusBadRequest, api.ErrorCodeValidation, "invalid theme payload")
		return
	}

	if err := app.store.SaveTheme(c.Request.Context(), &theme); err != nil {
		api.JSONError(c, http.StatusInternalServerError, api.ErrorCodeInternal, "failed to save theme")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (app *app) listColorRules(c *gin.Context) {
	rules, err := app.store.ListColorRules(c.Request.Context())
	if err != nil {
		api.JSONError(c, http.StatusInternalServerError, api.ErrorCodeInternal, "failed to list color rules")
		return
	}
	if rules == nil {
		rules = []store.ColorRule{}
	}

	rendered := make([]gin.H, 0, len(rules))
	for _, r := range rules {
		rendered = append(rendered, gin.H{
			"keyword":     r.Keyword,
			"color":       r.Color,
			"description": r.Description,
		})
	}
	c.JSON(http.StatusOK, gin.H{"rules": rendered})
}

func (app *app) saveColorRules(c *gin.Context) {
	var req struct {
		Rules []struct {
			Keyword     string `json:"keyword"`
			Color       string `json:"color"`
			Description string `json:"description"`
		} `json:"rules"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Rules == nil {
		api.JSONError(c, http.StatusBadRequest, api.ErrorCodeValidation, "rules is required")
		return
	}

	var rules []store.ColorRule
	for _, r := range req.Rules {
		if r.Keyword == "" || r.Color == "" {
			continue
		}
		rules = append(rules, store.ColorRule{
			Keyword:     strings.TrimSpace(r.Keyword),
			Color:       strings.TrimSpace(r.Color),
			Description: r.Description,
		})
	}

	if err := app.store.ReplaceColorRules(c.Request.Context(), rules); err != nil {
		api.JSONError(c, http.StatusInternalServerError, api.ErrorCodeInternal, "failed to save color rules")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// --- Logo ---

func (app *app) logoPath() string {
	return filepath.Join(app.config.Assets.UploadDir, "logo.png")
}

func (app *app) uploadLogo(c *gin.Context) {
	file, err := c.FormFile("logo")
	if err != nil {
		api.JSONError(c, http.StatusBadRequest, api.ErrorCodeValidation, "logo file is required")
		return
	}

	// Stage under a throwaway name, then swap into place.
	tmpPath := filepath.Join(app.config.Assets.UploadDir, uuid.NewString())
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		api.JSONError(c, http.StatusInternalServerError, api.ErrorCodeInternal, "failed to store logo")
		return
	}
	if err := os.Rename(tmpPath, app.logoPath()); err != nil {
		api.JSONError(c, http.StatusInternalServerError, api.ErrorCodeInternal, "failed to store logo")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (app *app) getLogo(c *gin.Context) {
	if _, err := os.Stat(app.logoPath()); err == nil {
		c.File(app.logoPath())
		return
	}
	fallback := filepath.Join(app.config.Assets.ClientDir, "assets", "logo.png")
	if _, err := os.Stat(fallback); err == nil {
		c.File(fallback)
		return
	}
	api.JSONError(c, http.StatusNotFound, api.ErrorCodeNotFound, "logo not found")
}

// --- Location icons (GIFs) ---

var gifNameSanitizer = regexp.MustCompile(`[^a-z0-9.-]`)

func (app *app) listLocationGifs(c *gin.Context) {
	entries, err := os.ReadDir(app.config.Assets.GifsDir)
	if err != nil {
		api.JSONError(c, http.StatusInternalServerError, api.ErrorCodeInternal, "failed to read gifs directory")
		return
	}

	gifs := make([]string, 0, len(entries))
	for _, e := range entries {
		name := strings.ToLower(e.Name())
		if strings.HasSuffix(name, ".gif") || strings.HasSuffix(name, ".png") {
			gifs = append(gifs, e.Name())
		}
	}
	c.JSON(http.StatusOK, gin.H{"gifs": gifs})
}

func (app *app) uploadLocationGif(c *gin.Context) {
	file, err := c.FormFile("gif")
	if err != nil {
		api.JSONError(c, http.StatusBadRequest, api.ErrorCodeValidation, "gif file is required")
		return
	}

	name := gifNameSanitizer.ReplaceAllString(strings.ToLower(file.Filename), "-")
	if !strings.HasSuffix(name, ".gif") && !strings.HasSuffix(name, ".png") {
		api.JSONError(c, http.StatusBadRequest, api.ErrorCodeValidation, "only GIF and PNG files are allowed")
		return
	}

	if err := c.SaveUploadedFile(file, filepath.Join(app.config.Assets.GifsDir, name)); err != nil {
		api.JSONError(c, http.StatusInternalServerError, api.ErrorCodeInternal, "failed to store gif")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "filename": name})
}

func (app *app) deleteLocationGif(c *gin.Context) {
	name := filepath.Base(c.Param("filename"))
	path := filepath.Join(app.config.Assets.GifsDir, name)

	if _, err := os.Stat(path); err != nil {
		api.JSONError(c, http.StatusNotFound, api.ErrorCodeNotFound, "file not found")
		return
	}
	if err := os.Remove(path); err != nil {
		api.JSONError(c, http.StatusInternalServerError, api.ErrorCodeInternal, "failed to delete gif")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (app *app) locationIconsPath() string {
	return filepath.Join(app.config.Assets.UploadDir, "location-icons.json")
}

func (app *app) getLocationIcons(c *gin.Context) {
	data, err := os.ReadFile(app.locationIconsPath())
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"rules": []gin.H{}})
		return
	}

	var saved struct {
		Rules json.RawMessage `json:"rules"`
	}
	if err := json.Unmarshal(data, &saved); err != nil || saved.Rules == nil {
		c.JSON(http.StatusOK, gin.H{"rules": []gin.H{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": saved.Rules})
}

func (app *app) saveLocationIcons(c *gin.Context) {
	var req struct {
		Rules []map[string]any `json:"rules"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Rules == nil {
		api.JSONError(c, http.StatusBadRequest, api.ErrorCodeValidation, "rules is required")
		return
	}

	data, err := json.MarshalIndent(gin.H{"rules": req.Rules}, "", "  ")
	if err != nil {
		api.JSONError(c, http.StatusInternalServerError, api.ErrorCodeInternal, "failed to encode rules")
		return
	}
	if err := os.WriteFile(app.locationIconsPath(), data, 0o644); err != nil {
		api.JSONError(c, http.StatusInternalServerError, api.ErrorCodeInternal, "failed to save rules")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
