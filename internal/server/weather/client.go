// Package weather fetches current conditions from the OpenWeather API.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/cloudygo/internal/common"
)

// Report is the subset of a provider response the server uses.
type Report struct {
	City        string  `json:"city"`
	Country     string  `json:"country,omitempty"`
	Lon         float64 `json:"lon"`
	Lat         float64 `json:"lat"`
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feelsLike"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
	Condition   string  `json:"condition,omitempty"`
	Description string  `json:"description,omitempty"`
	Icon        string  `json:"icon,omitempty"`
}

type currentResponse struct {
	Name  string `json:"name"`
	Coord struct {
		Lon float64 `json:"lon"`
		Lat float64 `json:"lat"`
	} `json:"coord"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// Current returns conditions in metric units for city. An unknown city is
// common.ErrorNotFound; a missing or rejected API key is common.ErrConfiguration.
func (c *Client) Current(ctx context.Context, city string) (*Report, error) {
	const op = "weather.Current"

	city = strings.TrimSpace(city)
	if city == "" {
		return nil, fmt.Errorf("%s: city is required: %w", op, common.ErrInvalidInput)
	}
	if c.apiKey == "" {
		return nil, fmt.Errorf("%s: OpenWeather API key is not set: %w", op, common.ErrConfiguration)
	}

	q := url.Values{}
	q.Set("q", city)
	q.Set("units", "metric")
	q.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/data/2.5/weather?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, common.ErrorNotFound
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("%s: provider rejected API key: %w", op, common.ErrConfiguration)
	case resp.StatusCode != http.StatusOK:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%s: provider error %s: %s", op, resp.Status, string(b))
	}

	var body currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", op, err)
	}

	r := &Report{
		City:        body.Name,
		Country:     body.Sys.Country,
		Lon:         body.Coord.Lon,
		Lat:         body.Coord.Lat,
		Temperature: body.Main.Temp,
		FeelsLike:   body.Main.FeelsLike,
		Humidity:    body.Main.Humidity,
		WindSpeed:   body.Wind.Speed,
	}
	if len(body.Weather) > 0 {
		r.Condition = body.Weather[0].Main
		r.Description = body.Weather[0].Description
		r.Icon = body.Weather[0].Icon
	}

	return r, nil
}
