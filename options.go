package saluran

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ambiyansyah-risyal/saluran/internal/singleflight"
)

// Defaults applied by New when the corresponding option is not supplied.
const (
	DefaultCacheTTL     = 5 * time.Minute
	DefaultCacheMaxSize = 1000
)

// WithTransport sets the function invoked at the bottom of the pipeline.
func WithTransport(fn TransportFunc) Option {
	return func(c *Client) { c.transport = fn }
}

// WithHTTPClient fronts a net/http client through NewHTTPTransport. Passing
// nil uses http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.transport = NewHTTPTransport(hc) }
}

// WithCache enables response caching for cacheable calls using the client
// defaults.
func WithCache() Option {
	return func(c *Client) { c.cacheEnabled = true }
}

// WithCacheTTL sets the default cache TTL. Implies WithCache.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.cacheEnabled = true
		c.cacheTTL = ttl
	}
}

// WithCacheMaxSize bounds the cache to maxSize entries, evicting the oldest
// insertion first. Zero means unbounded. Implies WithCache.
func WithCacheMaxSize(maxSize int) Option {
	return func(c *Client) {
		c.cacheEnabled = true
		c.cacheMaxSize = maxSize
	}
}

// WithRequestCache installs a pre-built cache, e.g. one shared across clients.
func WithRequestCache(cache *RequestCache) Option {
	return func(c *Client) {
		c.cacheEnabled = true
		c.cache = cache
	}
}

// WithRateLimiter admits at most maxRequests per trailing window before calls
// block in Acquire.
func WithRateLimiter(maxRequests int, window time.Duration) Option {
	return func(c *Client) { c.limiter = NewRateLimiter(maxRequests, window) }
}

// WithRetry appends the retry unit with the given policy to the middleware
// chain.
func WithRetry(config RetryConfig) Option {
	return func(c *Client) { c.chain.Add(NewRetryMiddleware(NewRetryHandler(config))) }
}

// WithDefaultRetry appends the retry unit with the stock policy.
func WithDefaultRetry() Option {
	return WithRetry(DefaultRetryConfig())
}

// WithMiddleware appends middleware units in request order.
func WithMiddleware(units ...Middleware) Option {
	return func(c *Client) {
		for _, unit := range units {
			c.chain.Add(unit)
		}
	}
}

// WithCircuitBreaker trips calls open after repeated consecutive failures.
func WithCircuitBreaker(config CircuitBreakerConfig) Option {
	return func(c *Client) { c.breaker = NewCircuitBreaker(config) }
}

// WithCoalescing collapses concurrent duplicate cacheable calls into a single
// transport execution; duplicates receive the owner's Result.
func WithCoalescing() Option {
	return func(c *Client) { c.coalesce = singleflight.New[*Result]() }
}

// WithMetrics registers Prometheus metrics on the default registerer.
func WithMetrics() Option {
	return func(c *Client) { c.metrics = NewMetricsCollector() }
}

// WithMetricsRegistry registers Prometheus metrics on the given registerer.
func WithMetricsRegistry(registry prometheus.Registerer) Option {
	return func(c *Client) { c.metrics = NewMetricsCollectorWithRegistry(registry) }
}

// WithLogger sets the logger used for the client's debug logging.
func WithLogger(logger Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithDebug enables debug logging, installing a console logger when none is
// configured.
func WithDebug() Option {
	return func(c *Client) {
		c.debug.Enabled = true
		if c.logger == nil {
			c.logger = NewSimpleLogger()
		}
	}
}

// WithDebugConfig installs a custom debug configuration.
func WithDebugConfig(config *DebugConfig) Option {
	return func(c *Client) {
		if config != nil {
			c.debug = config
		}
	}
}

// ValidateConfiguration checks the assembled configuration for invalid
// values. New records the first error; it never panics.
func (c *Client) ValidateConfiguration() error {
	if c.cacheEnabled && c.cacheTTL <= 0 {
		return fmt.Errorf("cache TTL must be positive, got %v", c.cacheTTL)
	}
	if c.cacheMaxSize < 0 {
		return fmt.Errorf("cache max size must not be negative, got %d", c.cacheMaxSize)
	}

	if c.limiter != nil {
		if c.limiter.maxRequests <= 0 {
			return fmt.Errorf("rate limiter max requests must be positive, got %d", c.limiter.maxRequests)
		}
		if c.limiter.window <= 0 {
			return fmt.Errorf("rate limiter window must be positive, got %v", c.limiter.window)
		}
	}

	for _, unit := range c.chain.units {
		rm, ok := unit.(*RetryMiddleware)
		if !ok {
			continue
		}
		cfg := rm.Handler().Config()
		if cfg.MaxAttempts < 1 {
			return fmt.Errorf("retry max attempts must be at least 1, got %d", cfg.MaxAttempts)
		}
		if cfg.InitialDelay < 0 {
			return fmt.Errorf("retry initial delay must not be negative, got %v", cfg.InitialDelay)
		}
		if cfg.BackoffMultiplier < 1 {
			return fmt.Errorf("retry backoff multiplier must be at least 1, got %v", cfg.BackoffMultiplier)
		}
		if cfg.MaxDelay > 0 && cfg.MaxDelay < cfg.InitialDelay {
			return fmt.Errorf("retry max delay %v is below initial delay %v", cfg.MaxDelay, cfg.InitialDelay)
		}
	}

	return nil
}
