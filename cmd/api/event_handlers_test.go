package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kioskcal/internal/calsync"
	"kioskcal/internal/store"
)

type recordingFetcher struct {
	body   string
	ctxErr error
}

func (f *recordingFetcher) Fetch(ctx context.Context, _ string) (string, error) {
	f.ctxErr = ctx.Err()
	return f.body, nil
}

// recordingWriter notes the context state seen by each store call so tests
// can tell whether a cancelled request leaked into the sync run.
type recordingWriter struct {
	inserted  []store.Event
	deleteCtx error
	insertCtx error
}

func (w *recordingWriter) DeleteAllEvents(ctx context.Context) error {
	w.deleteCtx = ctx.Err()
	return nil
}

func (w *recordingWriter) InsertEvents(ctx context.Context, events []store.Event) error {
	w.insertCtx = ctx.Err()
	w.inserted = events
	return nil
}

func TestTriggerSyncSurvivesClientDisconnect(t *testing.T) {
	gin.SetMode(gin.TestMode)

	fetcher := &recordingFetcher{
		body: "BEGIN:VEVENT\r\nSUMMARY:Dentist\r\nDTSTART:20250601T100000\r\nEND:VEVENT\r\n",
	}
	writer := &recordingWriter{}
	app := &app{
		syncService: calsync.New("https://calendar.example.com/ical", "cal", "key", fetcher, writer),
	}

	// The caller is already gone before the handler runs.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/sync", nil).WithContext(ctx)

	app.triggerSync(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, writer.inserted, 1)

	// Every step of the run must have seen a live context.
	assert.NoError(t, fetcher.ctxErr)
	assert.NoError(t, writer.deleteCtx)
	assert.NoError(t, writer.insertCtx)
}
