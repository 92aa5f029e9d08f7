package main

import (
	"encoding/json"
	"net/http"

	"kioskcal/internal/api"

	"github.com/gin-gonic/gin"
)

// getWeather proxies OpenWeather, caching the rendered body so the kiosk's
// refresh loop does not hammer the upstream API.
func (app *app) getWeather(c *gin.Context) {
	if b, ok := app.weatherCache.Get(); ok {
		c.Data(http.StatusOK, "application/json", b)
		return
	}

	current, err := app.weather.Fetch(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":       "failed to fetch weather",
			"temperature": "--",
			"description": "Non disponible",
		})
		return
	}

	b, err := json.Marshal(current)
	if err != nil {
		api.JSONError(c, http.StatusInternalServerError, api.ErrorCodeInternal, "failed to encode weather")
		return
	}

	app.weatherCache.Set(b)
	c.Data(http.StatusOK, "application/json", b)
}

func (app *app) getSonosConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sonosIP": app.sonos.SpeakerIP()})
}

func (app *app) saveSonosConfig(c *gin.Context) {
	var req struct {
		SonosIP string `json:"sonosIP"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		api.JSONError(c, http.StatusBadRequest, api.ErrorCodeValidation, "sonosIP is required")
		return
	}

	app.sonos.SetSpeakerIP(req.SonosIP)
	c.JSON(http.StatusOK, gin.H{"success": true, "sonosIP": req.SonosIP})
}

// sonosNowPlaying never fails outward; a speaker problem reads as "nothing
// playing" on the dashboard.
func (app *app) sonosNowPlaying(c *gin.Context) {
	np, err := app.sonos.NowPlaying(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"playing":  false,
			"title":    "",
			"artist":   "",
			"album":    "",
			"albumArt": "",
		})
		return
	}
	c.JSON(http.StatusOK, np)
}
