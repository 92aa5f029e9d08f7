package main

import (
	"context"
	"net/http"
	"time"

	"kioskcal/internal/api"
	"kioskcal/internal/store"

	"github.com/gin-gonic/gin"
)

// triggerSync runs an on-demand sync. The run is detached from the request
// context: a sync in progress always runs to completion, so a caller
// dropping the connection cannot abort it between delete and re-insert.
func (app *app) triggerSync(c *gin.Context) {
	count, err := app.syncService.Sync(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		api.JSONError(c, http.StatusInternalServerError, api.ErrorCodeUpstream, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"count":     count,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// listTodayEvents returns today's occurrences, split into one-off and
// recurring groups the way the dashboard lays them out.
func (app *app) listTodayEvents(c *gin.Context) {
	datePrefix := time.Now().Format("2006-01-02")

	events, err := app.store.ListEventsStartingWith(c.Request.Context(), datePrefix)
	if err != nil {
		api.JSONError(c, http.StatusInternalServerError, api.ErrorCodeInternal, "failed to list events")
		return
	}

	regular := make([]gin.H, 0)
	recurrent := make([]gin.H, 0)
	all := make([]gin.H, 0, len(events))
	for _, ev := range events {
		rendered := renderEvent(ev)
		all = append(all, rendered)
		if ev.IsRecurrent {
			recurrent = append(recurrent, rendered)
		} else {
			regular = append(regular, rendered)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"regular":   regular,
		"recurrent": recurrent,
		"all":       all,
	})
}

func renderEvent(ev store.Event) gin.H {
	return gin.H{
		"id":           ev.ID,
		"uid":          ev.UID,
		"summary":      ev.Summary,
		"start":        ev.Start,
		"location":     ev.Location,
		"description":  ev.Description,
		"is_recurrent": ev.IsRecurrent,
	}
}

func (app *app) listCompletedEvents(c *gin.Context) {
	date := time.Now().Format("2006-01-02")

	ids, err := app.store.GetCompletedIDs(c.Request.Context(), date)
	if err != nil {
		api.JSONError(c, http.StatusInternalServerError, api.ErrorCodeInternal, "failed to list completed events")
		return
	}
	if ids == nil {
		ids = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"completed": ids})
}

func (app *app) completeEvent(c *gin.Context) {
	var req struct {
		EventID string `json:"eventId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.EventID == "" {
		api.JSONError(c, http.StatusBadRequest, api.ErrorCodeValidation, "eventId is required")
		return
	}

	date := time.Now().Format("2006-01-02")
	if err := app.store.SetCompleted(c.Request.Context(), req.EventID, date); err != nil {
		api.JSONError(c, http.StatusInternalServerError, api.ErrorCodeInternal, "failed to mark event completed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "eventId": req.EventID})
}

func (app *app) uncompleteEvent(c *gin.Context) {
	var req struct {
		EventID string `json:"eventId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.EventID == "" {
		api.JSONError(c, http.StatusBadRequest, api.ErrorCodeValidation, "eventId is required")
		return
	}

	date := time.Now().Format("2006-01-02")
	if err := app.store.ClearCompleted(c.Request.Context(), req.EventID, date); err != nil {
		api.JSONError(c, http.StatusInternalServerError, api.ErrorCodeInternal, "failed to unmark event")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "eventId": req.EventID})
}
