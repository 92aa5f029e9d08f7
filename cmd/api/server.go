package main

import (
	"fmt"
	"net/http"
	"time"
)

// serve blocks running the API, the kiosk frontend and the admin UI on the
// configured port.
func (app *app) serve() error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", app.config.Server.Port),
		Handler: app.routes(),
		// Clients are the kiosk display and the admin browser on the same
		// LAN; anything slower than this to send headers is wedged.
		ReadHeaderTimeout: 5 * time.Second,
	}
	return server.ListenAndServe()
}
