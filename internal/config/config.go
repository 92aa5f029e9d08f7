package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Calendar CalendarConfig
	Weather  WeatherConfig
	Sonos    SonosConfig
	Assets   AssetsConfig
}

type ServerConfig struct {
	Port int
}

type DatabaseConfig struct {
	URL string
}

type CalendarConfig struct {
	// FeedHost is the base of the public iCal feed; the full URL is
	// <FeedHost>/<CalendarID>/public/basic.ics.
	FeedHost   string
	CalendarID string
	APIKey     string
	// SyncInterval drives the recurring sync schedule.
	SyncInterval time.Duration
}

type WeatherConfig struct {
	APIKey   string
	City     string
	CacheTTL time.Duration
}

type SonosConfig struct {
	SpeakerIP string
}

type AssetsConfig struct {
	ClientDir string
	UploadDir string
	GifsDir   string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: GetEnv("PORT", 3001).(int),
		},
		Database: DatabaseConfig{
			URL: GetEnv("DATABASE_URL", "file:./calendar.db").(string),
		},
		Calendar: CalendarConfig{
			FeedHost:     GetEnv("ICAL_FEED_HOST", "https://calendar.google.com/calendar/ical").(string),
			CalendarID:   GetEnv("CALENDAR_ID", "").(string),
			APIKey:       GetEnv("GOOGLE_API_KEY", "").(string),
			SyncInterval: GetEnv("SYNC_INTERVAL", time.Minute).(time.Duration),
		},
		Weather: WeatherConfig{
			APIKey:   GetEnv("OPENWEATHER_API_KEY", "").(string),
			City:     GetEnv("WEATHER_CITY", "Saint-Denis,RE,FR").(string),
			CacheTTL: GetEnv("WEATHER_CACHE_TTL", 5*time.Minute).(time.Duration),
		},
		Sonos: SonosConfig{
			SpeakerIP: GetEnv("SONOS_IP", "").(string),
		},
		Assets: AssetsConfig{
			ClientDir: GetEnv("CLIENT_DIR", "./client").(string),
			UploadDir: GetEnv("UPLOAD_DIR", "./uploads").(string),
			GifsDir:   GetEnv("GIFS_DIR", "./gifs").(string),
		},
	}

	return cfg, nil
}

func GetEnv(key string, defaultValue any) any {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	switch def := defaultValue.(type) {
	case string:
		return value
	case int:
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		return def
	case bool:
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
		return def
	case time.Duration:
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
		return def
	default:
		panic(fmt.Sprintf("unsupported type %T", defaultValue))
	}
}
