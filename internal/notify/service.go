// Package notify pings IndexNow search-engine endpoints about changed URLs.
//
// The service supports three submission paths:
//  1. Single URL: one page was published or viewed
//  2. URL list: one POST carrying every URL (same host)
//  3. Submit all: every indexable URL, split into paced batches
//
// Failures are logged and reported in the result, never retried.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-http-utils/headers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	DefaultKey           = "b786ce2423fa4a1182fa2c99ae947657"
	DefaultEndpoint      = "https://api.indexnow.org/indexnow"
	BingEndpoint         = "https://www.bing.com/indexnow"
	DefaultBatchSize     = 100
	DefaultBatchInterval = 100 * time.Millisecond
	DefaultTimeout       = 15 * time.Second
)

// ── Config ───────────────────────────────────────────────────

// Config controls the IndexNow client.
type Config struct {
	Enabled       bool
	Key           string
	Endpoint      string
	Timeout       time.Duration
	BatchSize     int
	BatchInterval time.Duration
}

// DefaultConfig returns the production IndexNow settings.
func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		Key:           DefaultKey,
		Endpoint:      DefaultEndpoint,
		Timeout:       DefaultTimeout,
		BatchSize:     DefaultBatchSize,
		BatchInterval: DefaultBatchInterval,
	}
}

// ── Wire types ───────────────────────────────────────────────

// Submission is the JSON body IndexNow expects.
type Submission struct {
	Host        string   `json:"host"`
	Key         string   `json:"key"`
	KeyLocation string   `json:"keyLocation,omitempty"`
	URLList     []string `json:"urlList"`
}

// Result describes one POST to the endpoint.
type Result struct {
	URLs       int       `json:"urls"`
	Success    bool      `json:"success"`
	StatusCode int       `json:"status_code,omitempty"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// BatchResult summarizes a submit-all run.
type BatchResult struct {
	Total     int      `json:"total"`
	Batches   int      `json:"batches"`
	Succeeded int      `json:"succeeded"`
	Results   []Result `json:"results"`
}

// Success reports whether at least one batch was accepted.
func (b BatchResult) Success() bool { return b.Succeeded > 0 }

// ── Service ──────────────────────────────────────────────────

// Service submits URLs to one IndexNow endpoint.
type Service struct {
	cfg      Config
	client   *http.Client
	limiter  *rate.Limiter
	outcomes *prometheus.CounterVec
}

// Option configures a Service.
type Option func(*Service)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Service) { s.client = c }
}

// WithOutcomeCounter counts submissions by outcome label
// (success, failure, skipped).
func WithOutcomeCounter(c *prometheus.CounterVec) Option {
	return func(s *Service) { s.outcomes = c }
}

// NewService creates an IndexNow client. Zero values in cfg fall back to
// the defaults.
func NewService(cfg Config, opts ...Option) *Service {
	def := DefaultConfig()
	if cfg.Key == "" {
		cfg.Key = def.Key
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = def.Endpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.BatchInterval <= 0 {
		cfg.BatchInterval = def.BatchInterval
	}

	s := &Service{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Every(cfg.BatchInterval), 1),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Key returns the IndexNow verification key.
func (s *Service) Key() string { return s.cfg.Key }

// Enabled reports whether submissions are sent.
func (s *Service) Enabled() bool { return s.cfg.Enabled }

// SubmitURL notifies the endpoint about one URL.
func (s *Service) SubmitURL(ctx context.Context, rawURL string) bool {
	return s.Submit(ctx, []string{rawURL}).Success
}

// SubmitURLs notifies the endpoint about urls in a single request. The host
// is taken from the first URL. An empty list is a failure.
func (s *Service) SubmitURLs(ctx context.Context, urls []string) bool {
	return s.Submit(ctx, urls).Success
}

// Submit is SubmitURLs with the full result.
func (s *Service) Submit(ctx context.Context, urls []string) Result {
	result := Result{URLs: len(urls), Timestamp: time.Now().UTC()}

	if !s.cfg.Enabled {
		result.Error = "indexnow is disabled"
		s.count("skipped")
		log.Debug().Int("urls", len(urls)).Msg("IndexNow disabled, submission skipped")
		return result
	}
	if len(urls) == 0 {
		result.Error = "no urls to submit"
		s.count("skipped")
		return result
	}

	status, err := s.post(ctx, urls)
	result.StatusCode = status
	if err != nil {
		result.Error = err.Error()
		s.count("failure")
		log.Warn().Err(err).Int("urls", len(urls)).Str("endpoint", s.cfg.Endpoint).Msg("IndexNow submission failed")
		return result
	}

	result.Success = true
	s.count("success")
	log.Info().Int("urls", len(urls)).Int("status", status).Msg("📡 IndexNow submission accepted")
	return result
}

// SubmitAll sends urls in batches, waiting on the rate limiter before each
// batch. Cancelling ctx stops before the next batch.
func (s *Service) SubmitAll(ctx context.Context, urls []string) BatchResult {
	out := BatchResult{Total: len(urls), Results: []Result{}}

	for start := 0; start < len(urls); start += s.cfg.BatchSize {
		if err := s.limiter.Wait(ctx); err != nil {
			log.Warn().Err(err).Int("sent_batches", out.Batches).Msg("IndexNow submit-all interrupted")
			break
		}
		end := min(start+s.cfg.BatchSize, len(urls))
		r := s.Submit(ctx, urls[start:end])
		out.Batches++
		if r.Success {
			out.Succeeded++
		}
		out.Results = append(out.Results, r)
	}

	log.Info().
		Int("total", out.Total).
		Int("batches", out.Batches).
		Int("succeeded", out.Succeeded).
		Msg("IndexNow submit-all finished")
	return out
}

// post sends one submission and returns the HTTP status.
func (s *Service) post(ctx context.Context, urls []string) (int, error) {
	u, err := url.Parse(urls[0])
	if err != nil || u.Hostname() == "" {
		return 0, fmt.Errorf("invalid url %q", urls[0])
	}
	host := u.Hostname()

	body, err := json.Marshal(Submission{
		Host:        host,
		Key:         s.cfg.Key,
		KeyLocation: KeyLocation(host, s.cfg.Key),
		URLList:     urls,
	})
	if err != nil {
		return 0, fmt.Errorf("marshal submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set(headers.ContentType, "application/json; charset=utf-8")
	req.Header.Set(headers.UserAgent, "ai-agents-directory/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("send: %w", err)
	}
	defer resp.Body.Close()

	// 200 = OK, 202 = accepted, key validation pending
	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusAccepted {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return resp.StatusCode, fmt.Errorf("HTTP %d from %s: %s", resp.StatusCode, s.cfg.Endpoint, bytes.TrimSpace(snippet))
}

func (s *Service) count(outcome string) {
	if s.outcomes != nil {
		s.outcomes.WithLabelValues(outcome).Inc()
	}
}

// KeyLocation is where the verification file for key is served on host.
func KeyLocation(host, key string) string {
	return "https://" + host + "/" + key + ".txt"
}
