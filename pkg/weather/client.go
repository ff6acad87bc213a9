// Package weather fetches forecasts from the government open-data endpoint
// and flattens them into one record per location.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/chris/loyalty-points/pkg/models"
)

// heavyRainThreshold is the precipitation probability (percent) above which
// a heavy rain advisory is raised.
const heavyRainThreshold = 70

// HeavyRainAdvisory is the alert value set on reports above the threshold.
const HeavyRainAdvisory = "heavy rain advisory"

// Client calls the weather open-data API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a weather client for the given endpoint and API key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// forecastResponse mirrors the open-data payload: locations carry named
// elements, each with a list of timed parameter values.
type forecastResponse struct {
	Records struct {
		Location []location `json:"location"`
	} `json:"records"`
}

type location struct {
	LocationName   string    `json:"locationName"`
	WeatherElement []element `json:"weatherElement"`
}

type element struct {
	ElementName string `json:"elementName"`
	Time        []struct {
		Parameter struct {
			ParameterName string `json:"parameterName"`
			ParameterUnit string `json:"parameterUnit,omitempty"`
		} `json:"parameter"`
	} `json:"time"`
}

// Forecast fetches and flattens the forecast for one city.
func (c *Client) Forecast(ctx context.Context, city string) (*models.WeatherReport, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid weather base URL: %w", err)
	}
	q := u.Query()
	q.Set("Authorization", c.apiKey)
	q.Set("locationName", city)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	var payload forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}

	if len(payload.Records.Location) == 0 {
		return nil, fmt.Errorf("no forecast data for %s", city)
	}

	report := flattenLocation(payload.Records.Location[0])
	return &report, nil
}

// flattenLocation maps the element/time/parameter triples into one record.
// A precipitation probability above the threshold raises the advisory flag.
func flattenLocation(loc location) models.WeatherReport {
	report := models.WeatherReport{City: loc.LocationName}

	var minT, maxT float64
	var haveMin, haveMax bool

	for _, el := range loc.WeatherElement {
		if len(el.Time) == 0 {
			continue
		}
		value := el.Time[0].Parameter.ParameterName

		switch el.ElementName {
		case "Wx":
			report.Condition = value
		case "PoP":
			if pop, err := strconv.Atoi(value); err == nil && pop > heavyRainThreshold {
				report.Alert = HeavyRainAdvisory
			}
		case "MinT":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				minT, haveMin = v, true
			}
		case "MaxT":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				maxT, haveMax = v, true
			}
		case "RH":
			if v, err := strconv.Atoi(value); err == nil {
				report.Humidity = v
			}
		case "WS":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				report.WindSpeed = v
			}
		}
	}

	switch {
	case haveMin && haveMax:
		report.Temperature = (minT + maxT) / 2
	case haveMin:
		report.Temperature = minT
	case haveMax:
		report.Temperature = maxT
	}

	return report
}
