package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"foodiego/internal/backend"
	"foodiego/internal/domain"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	BaseURL string
	// BreakerFailures is the number of consecutive failures that opens the
	// breaker.
	BreakerFailures uint32
	// BreakerCooldown is how long the breaker stays open.
	BreakerCooldown time.Duration
}

// RemoteError is a non-2xx answer of the remote API. Its message is the
// response body, or a generic text when the body is empty.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// Unwrap lets a 404 match backend.ErrNotFound.
func (e *RemoteError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return backend.ErrNotFound
	}
	return nil
}

// RemoteBackend reads the catalog from the remote JSON API.
type RemoteBackend struct {
	config  Config
	client  HTTPClient
	breaker *gobreaker.CircuitBreaker[[]byte]
	group   singleflight.Group
	logger  *zap.Logger
}

var _ backend.Backend = (*RemoteBackend)(nil)

func NewRemoteBackend(config Config, client HTTPClient, logger *zap.Logger) *RemoteBackend {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.BreakerFailures == 0 {
		config.BreakerFailures = 5
	}
	if config.BreakerCooldown == 0 {
		config.BreakerCooldown = 30 * time.Second
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	g := &RemoteBackend{
		config: config,
		client: client,
		logger: logger.Named("remote"),
	}
	g.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "remote-backend",
		Timeout: config.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.BreakerFailures
		},
		IsSuccessful: isSuccessful,
		IsExcluded:   isCancellation,
		OnStateChange: func(name string, from, to gobreaker.State) {
			g.logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return g
}

// isSuccessful keeps client errors from tripping the breaker.
func isSuccessful(err error) bool {
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.StatusCode < http.StatusInternalServerError
	}
	return err == nil
}

// isCancellation keeps abandoned requests out of the breaker counts. Upstream
// timeouts from the HTTP client still count as failures.
func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled)
}

func (g *RemoteBackend) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	var restaurants []domain.Restaurant
	if err := g.getJSON(ctx, "/api/Restaurants", &restaurants); err != nil {
		return nil, err
	}
	return nonNil(restaurants), nil
}

func (g *RemoteBackend) GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error) {
	var restaurant domain.Restaurant
	if err := g.getJSON(ctx, "/api/Restaurants/"+url.PathEscape(id), &restaurant); err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (g *RemoteBackend) GetRestaurantMenu(ctx context.Context, id string) ([]domain.MenuItem, error) {
	var items []domain.MenuItem
	if err := g.getJSON(ctx, "/api/Restaurants/"+url.PathEscape(id)+"/menuitems", &items); err != nil {
		return nil, err
	}
	return nonNil(items), nil
}

func (g *RemoteBackend) ListMenuItems(ctx context.Context) ([]domain.MenuItem, error) {
	var items []domain.MenuItem
	if err := g.getJSON(ctx, "/api/MenuItems", &items); err != nil {
		return nil, err
	}
	return nonNil(items), nil
}

func (g *RemoteBackend) GetMenuItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	var item domain.MenuItem
	if err := g.getJSON(ctx, "/api/MenuItems/"+url.PathEscape(id), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (g *RemoteBackend) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	if err := g.getJSON(ctx, "/api/Orders/"+url.PathEscape(id), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// getJSON collapses concurrent GETs of the same path into one request. The
// shared request outlives any single caller, so it runs detached from ctx and
// is bounded by the client timeout; each caller still stops waiting when its
// own ctx ends.
func (g *RemoteBackend) getJSON(ctx context.Context, path string, dst any) error {
	shared := context.WithoutCancel(ctx)
	ch := g.group.DoChan(path, func() (any, error) {
		return g.breaker.Execute(func() ([]byte, error) {
			return g.fetch(shared, path)
		})
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res = <-ch:
	}

	if res.Err != nil {
		if errors.Is(res.Err, gobreaker.ErrOpenState) || errors.Is(res.Err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("remote backend unavailable: %w", res.Err)
		}
		return res.Err
	}
	if err := json.Unmarshal(res.Val.([]byte), dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (g *RemoteBackend) fetch(ctx context.Context, path string) ([]byte, error) {
	target := g.config.BaseURL + path
	g.logger.Debug("remote request", zap.String("url", target))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Error("remote request failed", zap.String("url", target), zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := string(body)
		if message == "" {
			message = fmt.Sprintf("Request failed with %d", resp.StatusCode)
		}
		return nil, &RemoteError{StatusCode: resp.StatusCode, Message: message}
	}
	return body, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
