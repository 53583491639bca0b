// Package fetch is the thin collaborator that downloads each provider's
// feed and persists it as a raw snapshot. The normalization core never
// touches the network; it only reads what this package wrote.
package fetch

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/hill02252024/hk-7day-typhoon/internal/provider"
	"github.com/hill02252024/hk-7day-typhoon/internal/snapshot"
)

// Config bundles the fetcher's HTTP settings.
type Config struct {
	Client    *http.Client
	Backoff   BackoffConfig
	UserAgent string
}

// Fetcher downloads provider feeds into the snapshot store, one circuit
// breaker per provider.
type Fetcher struct {
	client    *http.Client
	backoff   BackoffConfig
	userAgent string
	store     *snapshot.Store
	breakers  map[string]*gobreaker.CircuitBreaker
	now       func() time.Time
}

// New creates a Fetcher writing into the given snapshot store.
func New(cfg Config, store *snapshot.Store) *Fetcher {
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	backoff := cfg.Backoff
	if backoff.InitialInterval <= 0 {
		backoff = BackoffConfig{
			MaxRetries:      2,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		}
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "hk-7day-typhoon/1.0 (+https://github.com/hill02252024/hk-7day-typhoon)"
	}
	return &Fetcher{
		client:    client,
		backoff:   backoff,
		userAgent: ua,
		store:     store,
		breakers:  make(map[string]*gobreaker.CircuitBreaker),
		now:       time.Now,
	}
}

func (f *Fetcher) breaker(providerID string) *gobreaker.CircuitBreaker {
	if cb, ok := f.breakers[providerID]; ok {
		return cb
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        providerID,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
	f.breakers[providerID] = cb
	return cb
}

// FetchAll fetches every listed provider, persisting one snapshot each.
// Individual failures are recorded in the snapshot and never abort the
// batch.
func (f *Fetcher) FetchAll(ctx context.Context, providers []string) {
	for _, p := range providers {
		raw := f.FetchOne(ctx, p)
		log.Printf("fetch: [%s] ok=%t http=%d url=%s",
			strings.ToUpper(p), raw.OK, raw.HTTPStatus, raw.RequestedURL)
	}
}

// FetchOne tries a provider's candidate URLs in order and persists the
// first success, or a failure snapshot when every candidate fails.
func (f *Fetcher) FetchOne(ctx context.Context, providerID string) *snapshot.Raw {
	cands := provider.URLCandidates(providerID)

	var (
		lastErr    string
		lastStatus int
	)
	for _, url := range cands {
		resp, err := f.getWithResilience(ctx, f.breaker(providerID), url)
		if err != nil {
			lastErr = err.Error()
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		contentType := resp.Header.Get("Content-Type")
		status := resp.StatusCode
		resp.Body.Close()
		lastStatus = status
		if readErr != nil {
			lastErr = readErr.Error()
			continue
		}

		raw := &snapshot.Raw{
			FetchedAt:    f.now().Unix(),
			Provider:     providerID,
			OK:           true,
			RequestedURL: url,
			HTTPStatus:   status,
		}
		raw.ContentType, raw.Data = classifyPayload(body, contentType)
		f.persist(raw)
		return raw
	}

	if lastErr == "" {
		lastErr = "no url / no response"
	}
	requested := ""
	if len(cands) > 0 {
		requested = cands[0]
	}
	raw := &snapshot.Raw{
		FetchedAt:    f.now().Unix(),
		Provider:     providerID,
		OK:           false,
		RequestedURL: requested,
		HTTPStatus:   lastStatus,
		Error:        lastErr,
	}
	f.persist(raw)
	return raw
}

func (f *Fetcher) persist(raw *snapshot.Raw) {
	if err := f.store.Save(raw); err != nil {
		log.Printf("fetch: persist snapshot for %s: %v", raw.Provider, err)
	}
}

// classifyPayload stores JSON bodies as parsed JSON values and
// everything else as a string, tagged json/xml/text the same way the
// snapshot consumers expect.
func classifyPayload(body []byte, headerType string) (string, json.RawMessage) {
	trimmed := strings.TrimSpace(string(body))
	if json.Valid([]byte(trimmed)) && trimmed != "" && (trimmed[0] == '{' || trimmed[0] == '[') {
		return "json", json.RawMessage(trimmed)
	}

	quoted, err := json.Marshal(string(body))
	if err != nil {
		quoted = []byte(`""`)
	}
	if strings.Contains(strings.ToLower(headerType), "xml") || strings.HasPrefix(trimmed, "<?xml") || strings.HasPrefix(trimmed, "<") {
		return "xml", quoted
	}
	return "text", quoted
}
