package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
)

const defaultEndpoint = "https://api.openweathermap.org/data/2.5/weather"

// Current is the trimmed-down conditions payload the dashboard renders.
type Current struct {
	Temperature int    `json:"temperature"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Humidity    int    `json:"humidity"`
	WindSpeed   int    `json:"windSpeed"` // km/h
	City        string `json:"city"`
}

type apiResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Name string `json:"name"`
}

type Client struct {
	Endpoint string
	APIKey   string
	City     string
	Client   *http.Client
}

func New(apiKey, city string) *Client {
	return &Client{
		Endpoint: defaultEndpoint,
		APIKey:   apiKey,
		City:     city,
		Client:   http.DefaultClient,
	}
}

// Fetch returns the current conditions for the configured city, metric
// units, French descriptions.
func (c *Client) Fetch(ctx context.Context) (*Current, error) {
	q := url.Values{}
	q.Set("q", c.City)
	q.Set("appid", c.APIKey)
	q.Set("units", "metric")
	q.Set("lang", "fr")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("openweather http %d: %s", resp.StatusCode, raw)
	}

	var data apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode weather response: %w", err)
	}
	if len(data.Weather) == 0 {
		return nil, fmt.Errorf("weather response missing conditions")
	}

	return &Current{
		Temperature: int(math.Round(data.Main.Temp)),
		Description: data.Weather[0].Description,
		Icon:        data.Weather[0].Icon,
		Humidity:    data.Main.Humidity,
		WindSpeed:   int(math.Round(data.Wind.Speed * 3.6)),
		City:        data.Name,
	}, nil
}
