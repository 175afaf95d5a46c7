// Package pricing is the client for the credit-pricing gateway. Pricing is
// advisory: a failed or slow quote never blocks wizard navigation, it only
// hides the cost display. Quotes are cached briefly and rate limited so
// that re-pricing on every field change cannot stampede the backend, and
// every quote carries the key of the configuration it was computed for so
// callers can discard responses that arrive after the configuration moved
// on.
package pricing

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/shotwright/shotwright/internal/scene"
	"github.com/shotwright/shotwright/internal/session"
)

// ShotLine is one priced shot as the gateway expects it.
type ShotLine struct {
	Slot    int            `json:"shot_slot"`
	Credits int            `json:"credits"`
	Type    scene.ShotType `json:"type"`
}

// QuoteRequest carries every dimension the gateway prices on.
type QuoteRequest struct {
	ProjectID   string                          `json:"project_id"`
	Shots       []ShotLine                      `json:"shots"`
	Durations   map[int]scene.ShotDuration      `json:"durations,omitempty"`
	Models      map[int]scene.RefImageModel     `json:"models,omitempty"`
	Qualities   map[int]scene.DialogueQuality   `json:"qualities,omitempty"`
	Workflows   map[int]scene.WorkflowType      `json:"workflows,omitempty"`
	VideoOptIns map[int]bool                    `json:"video_opt_ins,omitempty"`
	VideoTypes  map[int]scene.VideoType         `json:"video_types,omitempty"`
}

// ShotPrice is the credit cost breakdown for one shot, in integer credits.
type ShotPrice struct {
	FirstFramePrice int `json:"first_frame_price"`
	HDPrice         int `json:"hd_price"`
	K4Price         int `json:"k4_price"`
}

// Quote is the gateway's answer. Key identifies the configuration the
// quote was computed for; apply a quote only while the key still matches.
type Quote struct {
	Key     string            `json:"-"`
	PerShot map[int]ShotPrice `json:"per_shot"`
	Total   ShotPrice         `json:"total"`
}

// BuildRequest assembles a quote request from the current session snapshot.
func BuildRequest(projectID string, s *session.Session) QuoteRequest {
	sc := s.Scene()
	req := QuoteRequest{
		ProjectID:   projectID,
		Durations:   map[int]scene.ShotDuration{},
		Models:      map[int]scene.RefImageModel{},
		Qualities:   map[int]scene.DialogueQuality{},
		Workflows:   map[int]scene.WorkflowType{},
		VideoOptIns: map[int]bool{},
		VideoTypes:  map[int]scene.VideoType{},
	}

	for _, shot := range sc.Shots {
		req.Shots = append(req.Shots, ShotLine{Slot: shot.Slot, Credits: shot.Credits, Type: shot.Type})
		req.Durations[shot.Slot] = s.Duration(shot.Slot)
		req.Models[shot.Slot] = s.RefModel(shot.Slot)
		if cfg, ok := s.Dialogue(shot.Slot); ok {
			req.Qualities[shot.Slot] = cfg.Quality
			req.Workflows[shot.Slot] = cfg.Workflow
		}
		if s.VideoOptIn(shot.Slot) {
			req.VideoOptIns[shot.Slot] = true
			if t, ok := s.VideoType(shot.Slot); ok {
				req.VideoTypes[shot.Slot] = t
			}
		}
	}

	return req
}

// Key returns a stable digest of the priced dimensions. Identical
// configurations produce identical keys regardless of map iteration order.
func (r QuoteRequest) Key() string {
	h := sha256.New()
	fmt.Fprintf(h, "project=%s;", r.ProjectID)

	lines := append([]ShotLine(nil), r.Shots...)
	sort.Slice(lines, func(i, j int) bool { return lines[i].Slot < lines[j].Slot })
	for _, l := range lines {
		fmt.Fprintf(h, "shot=%d:%d:%s;", l.Slot, l.Credits, l.Type)
		fmt.Fprintf(h, "dur=%s;model=%s;qual=%s;wf=%s;video=%t:%s;",
			r.Durations[l.Slot], r.Models[l.Slot], r.Qualities[l.Slot],
			r.Workflows[l.Slot], r.VideoOptIns[l.Slot], r.VideoTypes[l.Slot])
	}

	return hex.EncodeToString(h.Sum(nil))
}

// Client talks to the pricing gateway.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	cache      *gocache.Cache
	limiter    *rate.Limiter
}

// NewClient creates a pricing client. Quotes are cached for thirty seconds
// and outbound requests are limited to two per second with a small burst.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      gocache.New(30*time.Second, time.Minute),
		limiter:    rate.NewLimiter(rate.Limit(2), 4),
	}
}

// Quote fetches the credit cost for the given configuration, serving
// repeats from cache.
func (c *Client) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	key := req.Key()
	if cached, ok := c.cache.Get(key); ok {
		return cached.(*Quote), nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for pricing slot: %w", err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling quote request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/pricing/quote", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating quote request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("requesting quote: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading quote response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pricing gateway returned %s: %s", resp.Status, apiErrorMessage(respBody))
	}

	var quote Quote
	if err := json.Unmarshal(respBody, &quote); err != nil {
		return nil, fmt.Errorf("unmarshaling quote response: %w", err)
	}
	quote.Key = key

	c.cache.Set(key, &quote, gocache.DefaultExpiration)
	return &quote, nil
}

// apiErrorMessage extracts the gateway's error message, falling back to the
// raw body.
func apiErrorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return string(body)
}
