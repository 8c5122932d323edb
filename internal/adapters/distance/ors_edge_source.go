package distance

import (
	"context"
	"errors"
	"fleet-charging-service/internal/domain"
	"fleet-charging-service/internal/platform/obs"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.openrouteservice.org"

// ORSEdgeSource implements EdgeSource using OpenRouteService.
//
// It coordinates:
//   - Geocode parsing, falling back to name search for districts without one
//   - One distance matrix request covering every district pair
//   - External API calls with throttling and retries that honor Retry-After
//
// The source is safe for concurrent use.
type ORSEdgeSource struct {
	session *http.Client
	apiKey  string
	baseURL string
	profile string
	country string
	limiter *rate.Limiter

	attempts int
	backoff  time.Duration
}

type Option func(*ORSEdgeSource)

// WithBaseURL points the source at another ORS deployment.
func WithBaseURL(u string) Option {
	return func(o *ORSEdgeSource) { o.baseURL = strings.TrimRight(u, "/") }
}

// WithCountry restricts name geocoding to an ISO country code.
func WithCountry(code string) Option {
	return func(o *ORSEdgeSource) { o.country = code }
}

func WithHTTPClient(c *http.Client) Option {
	return func(o *ORSEdgeSource) { o.session = c }
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(l *rate.Limiter) Option {
	return func(o *ORSEdgeSource) { o.limiter = l }
}

func NewORSEdgeSource(apiKey string, opts ...Option) (*ORSEdgeSource, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("ORS api key is empty")
	}

	source := &ORSEdgeSource{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		profile: "driving-car",
		// The public ORS plan allows 40 requests per minute.
		limiter: rate.NewLimiter(rate.Every(1500*time.Millisecond), 1),

		attempts: defaultAttempts,
		backoff:  defaultBackoff,
	}
	for _, opt := range opts {
		opt(source)
	}

	return source, nil
}

// Edges returns road distances in whole kilometres between every ordered pair of
// districts. Pairs without a route are left out, so the matrix keeps them infinite.
func (o *ORSEdgeSource) Edges(ctx context.Context, districts []domain.District) (_ []domain.Edge, err error) {
	defer obs.Time(ctx, "ors.Edges")(&err)

	if len(districts) < 2 {
		return []domain.Edge{}, nil
	}

	coords := make([]coordinates, len(districts))
	for i, d := range districts {
		c, err := o.resolve(ctx, d)
		if err != nil {
			return nil, fmt.Errorf("ors edges: district %d: %w", d.ID, err)
		}
		coords[i] = c
	}

	km, err := o.fetchMatrix(ctx, coords)
	if err != nil {
		return nil, fmt.Errorf("ors edges: %w", err)
	}

	edges := make([]domain.Edge, 0, len(districts)*(len(districts)-1))
	for i, from := range districts {
		for j, to := range districts {
			if i == j || km[i][j] == nil {
				continue
			}
			edges = append(edges, domain.Edge{
				OriginID:      from.ID,
				DestinationID: to.ID,
				Distance:      int(math.Round(*km[i][j])),
			})
		}
	}

	return edges, nil
}

// resolve prefers the stored geocode and only searches by name when it is empty.
func (o *ORSEdgeSource) resolve(ctx context.Context, d domain.District) (coordinates, error) {
	if strings.TrimSpace(d.Geocode) != "" {
		return parseGeocode(d.Geocode)
	}
	return o.geocode(ctx, d.Name)
}
