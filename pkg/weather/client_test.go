package weather

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func forecastJSON(city, pop string) string {
	return fmt.Sprintf(`{
		"records": {
			"location": [{
				"locationName": %q,
				"weatherElement": [
					{"elementName": "Wx", "time": [{"parameter": {"parameterName": "Cloudy"}}]},
					{"elementName": "PoP", "time": [{"parameter": {"parameterName": %q}}]},
					{"elementName": "MinT", "time": [{"parameter": {"parameterName": "20"}}]},
					{"elementName": "MaxT", "time": [{"parameter": {"parameterName": "30"}}]},
					{"elementName": "RH", "time": [{"parameter": {"parameterName": "75"}}]},
					{"elementName": "WS", "time": [{"parameter": {"parameterName": "3.5"}}]}
				]
			}]
		}
	}`, city, pop)
}

func TestForecast(t *testing.T) {
	t.Run("Flattens Elements", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "test-key", r.URL.Query().Get("Authorization"))
			assert.Equal(t, "Taipei", r.URL.Query().Get("locationName"))
			fmt.Fprint(w, forecastJSON("Taipei", "30"))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "test-key")
		report, err := c.Forecast(context.Background(), "Taipei")

		assert.NoError(t, err)
		assert.Equal(t, "Taipei", report.City)
		assert.Equal(t, "Cloudy", report.Condition)
		assert.Equal(t, 25.0, report.Temperature)
		assert.Equal(t, 75, report.Humidity)
		assert.Equal(t, 3.5, report.WindSpeed)
		assert.Empty(t, report.Alert)
	})

	t.Run("Heavy Rain Advisory", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, forecastJSON("Taipei", "80"))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "test-key")
		report, err := c.Forecast(context.Background(), "Taipei")

		assert.NoError(t, err)
		assert.Equal(t, HeavyRainAdvisory, report.Alert)
	})

	t.Run("Threshold Is Exclusive", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, forecastJSON("Taipei", "70"))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "test-key")
		report, err := c.Forecast(context.Background(), "Taipei")

		assert.NoError(t, err)
		assert.Empty(t, report.Alert)
	})

	t.Run("No Data For City", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"records": {"location": []}}`)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "test-key")
		_, err := c.Forecast(context.Background(), "Atlantis")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no forecast data")
	})

	t.Run("Upstream Error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "test-key")
		_, err := c.Forecast(context.Background(), "Taipei")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "status 500")
	})
}
