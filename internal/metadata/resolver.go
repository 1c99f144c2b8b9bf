// Package metadata resolves content-addressed token metadata through
// an ordered list of interchangeable gateways, degrading gracefully
// when the network misbehaves.
package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/mintbay/marketgate/internal/domain"
)

// DefaultAttemptTimeout bounds each single gateway attempt.
const DefaultAttemptTimeout = 10 * time.Second

// Attempt records one failed gateway try, in order.
type Attempt struct {
	Gateway string
	Err     error
}

// Result is the outcome of a resolution: the metadata (possibly a
// degraded placeholder) plus every gateway attempt that failed along
// the way, in the order they were tried.
type Result struct {
	Metadata domain.Metadata
	Attempts []Attempt
}

// Degraded reports whether resolution fell through every gateway.
func (r Result) Degraded() bool {
	return r.Metadata.Degraded
}

// Resolver fetches and normalizes metadata documents. It never
// returns an error to its caller: total failure is a representable
// outcome, not an exception.
type Resolver struct {
	gateways       []string
	client         *http.Client
	attemptTimeout time.Duration
	cache          domain.MetadataCache
	logger         *slog.Logger
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithCache attaches a session cache keyed by token ID.
func WithCache(cache domain.MetadataCache) Option {
	return func(r *Resolver) { r.cache = cache }
}

// WithAttemptTimeout overrides the per-gateway timeout.
func WithAttemptTimeout(d time.Duration) Option {
	return func(r *Resolver) { r.attemptTimeout = d }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) { r.client = c }
}

// NewResolver creates a Resolver trying the given gateway base URLs in
// order.
func NewResolver(gateways []string, logger *slog.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		gateways:       gateways,
		client:         &http.Client{},
		attemptTimeout: DefaultAttemptTimeout,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve turns a token's URI into normalized metadata. Gateways are
// tried in order, each with its own timeout and no per-gateway retry.
// When every gateway fails the result is a placeholder document with
// Degraded set; placeholders are never cached.
func (r *Resolver) Resolve(ctx context.Context, tokenID uint64, uri string) Result {
	if r.cache != nil {
		if md, err := r.cache.Get(ctx, tokenID); err == nil {
			return Result{Metadata: md}
		}
	}

	ref, ok := NormalizeURI(uri)
	if !ok {
		return Result{Metadata: r.placeholder(tokenID, uri)}
	}

	var attempts []Attempt
	for _, gw := range r.gateways {
		md, err := r.fetchOnce(ctx, gw, ref)
		if err != nil {
			attempts = append(attempts, Attempt{Gateway: gw, Err: err})
			r.logger.DebugContext(ctx, "metadata: gateway attempt failed",
				slog.String("gateway", gw),
				slog.Uint64("token_id", tokenID),
				slog.String("error", err.Error()),
			)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		if r.cache != nil {
			if cacheErr := r.cache.Set(ctx, tokenID, md); cacheErr != nil {
				r.logger.WarnContext(ctx, "metadata: cache set failed",
					slog.Uint64("token_id", tokenID),
					slog.String("error", cacheErr.Error()),
				)
			}
		}
		return Result{Metadata: md, Attempts: attempts}
	}

	r.logger.WarnContext(ctx, "metadata: all gateways failed",
		slog.Uint64("token_id", tokenID),
		slog.Int("attempts", len(attempts)),
	)
	return Result{Metadata: r.placeholder(tokenID, uri), Attempts: attempts}
}

// fetchOnce performs a single gateway attempt under its own timeout.
func (r *Resolver) fetchOnce(ctx context.Context, gateway string, ref ContentRef) (domain.Metadata, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, r.attemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, ref.GatewayURL(gateway), nil)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.Metadata{}, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	// Gateways routinely mislabel Content-Type; parse the body as
	// JSON regardless and let the parse decide.
	var raw RawMetadata
	if err := json.Unmarshal(body, &raw); err != nil {
		return domain.Metadata{}, fmt.Errorf("parse body: %w", err)
	}

	return ValidateMetadata(raw), nil
}

// placeholder synthesizes the degraded document for a token whose
// metadata could not be resolved. The caller's token id is
// authoritative; the URI path is mined only when the id is the zero
// value and the path carries a better hint.
func (r *Resolver) placeholder(tokenID uint64, uri string) domain.Metadata {
	id := strconv.FormatUint(tokenID, 10)
	if tokenID == 0 {
		if mined, ok := numericID(uri); ok {
			id = mined
		}
	}
	return domain.Metadata{
		Name:       "NFT #" + id,
		Attributes: []domain.Attribute{},
		Degraded:   true,
	}
}

// RawMetadata is the wire shape of a metadata document before
// normalization. Attribute values arrive as strings or numbers.
type RawMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Attributes  []struct {
		TraitType string          `json:"trait_type"`
		Value     json.RawMessage `json:"value"`
	} `json:"attributes"`
	Collection string `json:"collection"`
}

// ValidateMetadata fills required-but-missing fields with
// deterministic placeholders and optional fields with empty defaults,
// so downstream code never needs nil checks.
func ValidateMetadata(raw RawMetadata) domain.Metadata {
	md := domain.Metadata{
		Name:        raw.Name,
		Description: raw.Description,
		Image:       raw.Image,
		Collection:  raw.Collection,
		Attributes:  make([]domain.Attribute, 0, len(raw.Attributes)),
	}
	if md.Name == "" {
		md.Name = "Untitled NFT"
	}
	for _, a := range raw.Attributes {
		md.Attributes = append(md.Attributes, domain.Attribute{
			TraitType: a.TraitType,
			Value:     rawValueString(a.Value),
		})
	}
	return md
}

// rawValueString renders a JSON attribute value (string, number, or
// bool) as its display string.
func rawValueString(v json.RawMessage) string {
	if len(v) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	var any interface{}
	if err := json.Unmarshal(v, &any); err == nil {
		return fmt.Sprint(any)
	}
	return string(v)
}

// errNoGateways guards misconfiguration at wire time.
var errNoGateways = errors.New("metadata: no gateways configured")

// Check validates the resolver configuration.
func (r *Resolver) Check() error {
	if len(r.gateways) == 0 {
		return errNoGateways
	}
	return nil
}
