package main

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

func (app *app) routes() http.Handler {
	g := gin.Default()
	g.Use(corsMiddleware())

	apiGroup := g.Group("/api")
	{
		apiGroup.POST("/sync", app.triggerSync)

		apiGroup.GET("/events", app.listTodayEvents)
		apiGroup.GET("/completed-events", app.listCompletedEvents)
		apiGroup.POST("/complete-event", app.completeEvent)
		apiGroup.POST("/uncomplete-event", app.uncompleteEvent)

		apiGroup.GET("/welcome-message", app.currentWelcomeMessage)
		apiGroup.GET("/welcome-messages", app.listWelcomeMessages)
		apiGroup.POST("/welcome-messages", app.saveWelcomeMessages)

		apiGroup.GET("/config", app.getTheme)
		apiGroup.POST("/config", app.saveTheme)

		apiGroup.GET("/event-color-rules", app.listColorRules)
		apiGroup.POST("/event-color-rules", app.saveColorRules)

		apiGroup.GET("/logo", app.getLogo)
		apiGroup.POST("/logo", app.uploadLogo)

		apiGroup.GET("/location-gifs", app.listLocationGifs)
		apiGroup.POST("/location-gifs", app.uploadLocationGif)
		apiGroup.DELETE("/location-gifs/:filename", app.deleteLocationGif)
		apiGroup.GET("/location-icons", app.getLocationIcons)
		apiGroup.POST("/location-icons", app.saveLocationIcons)

		apiGroup.POST("/sneaky-photo", app.activateSneakyPhoto)
		apiGroup.GET("/sneaky-photo/status", app.sneakyPhotoStatus)
		apiGroup.GET("/sneaky-photo/image", app.sneakyPhotoImage)
		apiGroup.DELETE("/sneaky-photo", app.deactivateSneakyPhoto)
		apiGroup.POST("/sneaky-message", app.activateSneakyMessage)
		apiGroup.GET("/sneaky-message/status", app.sneakyMessageStatus)
		apiGroup.DELETE("/sneaky-message", app.deactivateSneakyMessage)

		apiGroup.GET("/weather", app.getWeather)

		apiGroup.GET("/sonos-config", app.getSonosConfig)
		apiGroup.POST("/sonos-config", app.saveSonosConfig)
		apiGroup.GET("/sonos-now-playing", app.sonosNowPlaying)
	}

	g.StaticFS("/gifs", http.Dir(app.config.Assets.GifsDir))

	g.GET("/admin", app.serveAdmin)
	g.GET("/admin.html", app.serveAdmin)
	g.GET("/", func(c *gin.Context) {
		c.File(filepath.Join(app.config.Assets.ClientDir, "index.html"))
	})
	g.NoRoute(func(c *gin.Context) {
		c.File(filepath.Join(app.config.Assets.ClientDir, filepath.Clean(c.Request.URL.Path)))
	})

	return g
}

func (app *app) serveAdmin(c *gin.Context) {
	c.File(filepath.Join(app.config.Assets.ClientDir, "admin.html"))
}
