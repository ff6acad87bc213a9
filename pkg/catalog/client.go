// Package catalog fetches book metadata from the public subject-listing API
// and maps it into the service's novel shape.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/chris/loyalty-points/pkg/models"
	"github.com/chris/loyalty-points/pkg/rewards"
)

// Client calls the book-metadata API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	rng        rewards.Source
}

// NewClient creates a catalog client. The rand source feeds the synthesized
// fields the upstream API does not provide.
func NewClient(baseURL string, rng rewards.Source) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		rng:        rng,
	}
}

// subjectResponse mirrors the subject-listing payload.
type subjectResponse struct {
	Name  string `json:"name"`
	Works []work `json:"works"`
}

type work struct {
	Title   string `json:"title"`
	CoverID int64  `json:"cover_id"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
	Subject []string `json:"subject"`
}

// ListBySubject fetches the catalog entries for one subject.
func (c *Client) ListBySubject(ctx context.Context, subject string) ([]models.Novel, error) {
	url := fmt.Sprintf("%s/subjects/%s.json", c.baseURL, subject)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog API returned status %d", resp.StatusCode)
	}

	var payload subjectResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	novels := make([]models.Novel, 0, len(payload.Works))
	for _, wk := range payload.Works {
		novels = append(novels, c.mapWork(wk, payload.Name))
	}
	return novels, nil
}

// mapWork converts one upstream work into a Novel. Rating, views, likes and
// chapter count do not exist upstream and are synthesized from the rand
// source.
func (c *Client) mapWork(wk work, subject string) models.Novel {
	n := models.Novel{
		Title:   wk.Title,
		Subject: subject,
	}
	if len(wk.Authors) > 0 {
		n.Author = wk.Authors[0].Name
	}
	if len(wk.Subject) > 0 {
		n.Subject = wk.Subject[0]
	}
	if wk.CoverID != 0 {
		n.CoverURL = fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-M.jpg", wk.CoverID)
	}

	// 3.0 to 5.0 in tenths.
	n.Rating = 3.0 + float64(c.rng.Int63n(21))/10
	n.Views = int(c.rng.Int63n(100000))
	n.Likes = int(c.rng.Int63n(10000))
	n.Chapters = int(10 + c.rng.Int63n(491))
	return n
}
