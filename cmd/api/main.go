package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"kioskcal/internal/api"
	"kioskcal/internal/calsync"
	"kioskcal/internal/config"
	"kioskcal/internal/ical"
	"kioskcal/internal/overlay"
	"kioskcal/internal/sonos"
	"kioskcal/internal/store"
	"kioskcal/internal/weather"

	"github.com/robfig/cron/v3"
)

type app struct {
	config       *config.Config
	store        store.Store
	syncService  *calsync.Service
	weather      *weather.Client
	weatherCache *api.Cache
	sonos        *sonos.Client
	overlays     *overlay.Store
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	s, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer s.Close()

	syncService := calsync.New(
		cfg.Calendar.FeedHost,
		cfg.Calendar.CalendarID,
		cfg.Calendar.APIKey,
		ical.NewFetcher(),
		s,
	)

	if err := os.MkdirAll(cfg.Assets.UploadDir, 0o755); err != nil {
		log.Fatalf("failed to create upload dir: %v", err)
	}
	if err := os.MkdirAll(cfg.Assets.GifsDir, 0o755); err != nil {
		log.Fatalf("failed to create gifs dir: %v", err)
	}

	app := &app{
		config:       cfg,
		store:        s,
		syncService:  syncService,
		weather:      weather.New(cfg.Weather.APIKey, cfg.Weather.City),
		weatherCache: api.NewCache(cfg.Weather.CacheTTL),
		sonos:        sonos.New(cfg.Sonos.SpeakerIP),
		overlays:     overlay.NewStore(cfg.Assets.UploadDir),
	}

	// Startup sync, then the recurring schedule. Both funnel through the
	// service's internal lock together with the on-demand trigger.
	go runSync(syncService, "startup")

	c := cron.New()
	schedule := fmt.Sprintf("@every %s", cfg.Calendar.SyncInterval)
	if _, err := c.AddFunc(schedule, func() { runSync(syncService, "scheduled") }); err != nil {
		log.Fatalf("failed to schedule sync: %v", err)
	}
	c.Start()
	defer c.Stop()

	log.Printf("listening on :%d (calendar=%s)", cfg.Server.Port, cfg.Calendar.CalendarID)

	log.Fatal(app.serve())
}

func runSync(svc *calsync.Service, trigger string) {
	count, err := svc.Sync(context.Background())
	if err != nil {
		log.Printf("%s sync failed: %v", trigger, err)
		return
	}
	log.Printf("%s sync done: %d event(s)", trigger, count)
}
