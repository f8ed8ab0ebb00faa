package linekit

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/linekit-go/linekit/dto"
)

const (
	defaultEndpoint     = "https://api.line.me"
	defaultDataEndpoint = "https://api-data.line.me"
	defaultTimeout      = 5 * time.Second
)

// Option is a functional option for [New] and [NewAsync].
type Option func(*options) error

type options struct {
	endpoint     string
	dataEndpoint string
	httpClient   *http.Client
	rt           http.RoundTripper
	timeout      *time.Duration
	throttle     *throttleConfig
	logger       *slog.Logger
	tracer       trace.Tracer
	codec        dto.Codec
	cacheDir     string
	userAgent    string
}

type throttleConfig struct {
	rps   int
	burst int
}

// WithEndpoint overrides the default API endpoint.
func WithEndpoint(u string) Option {
	return func(o *options) error {
		if u == "" {
			return errors.New("endpoint must not be empty")
		}
		o.endpoint = u
		return nil
	}
}

// WithDataEndpoint overrides the default data endpoint used by content
// and media operations.
func WithDataEndpoint(u string) Option {
	return func(o *options) error {
		if u == "" {
			return errors.New("data endpoint must not be empty")
		}
		o.dataEndpoint = u
		return nil
	}
}

// WithHTTPClient replaces the default [http.Client].
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) error {
		if hc == nil {
			return errors.New("http client must not be nil")
		}
		o.httpClient = hc
		return nil
	}
}

// WithTransport sets a custom [http.RoundTripper] as the base transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) error {
		if rt == nil {
			return errors.New("transport must not be nil")
		}
		o.rt = rt
		return nil
	}
}

// WithTimeout sets the default per-call timeout. Individual calls can
// still be bounded tighter through their context deadline.
func WithTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		o.timeout = &d
		return nil
	}
}

// WithThrottle rate-limits outbound calls with a token bucket of rps
// requests per second and the given burst capacity.
func WithThrottle(rps, burst int) Option {
	return func(o *options) error {
		if rps <= 0 || burst <= 0 {
			return fmt.Errorf("rps[%d] and burst[%d] must be greater than zero", rps, burst)
		}
		o.throttle = &throttleConfig{rps: rps, burst: burst}
		return nil
	}
}

// WithLogger injects a custom [slog.Logger].
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// WithTracer records a span per dispatched request on the given tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) error {
		if tracer == nil {
			return errors.New("tracer must not be nil")
		}
		o.tracer = tracer
		return nil
	}
}

// WithCodec replaces the default JSON codec used to (de)serialize DTOs.
func WithCodec(c dto.Codec) Option {
	return func(o *options) error {
		if c == nil {
			return errors.New("codec must not be nil")
		}
		o.codec = c
		return nil
	}
}

// WithCacheDir enables the synthesis snapshot cache in the given
// directory, letting steady-state startup skip regeneration. Without it
// the surface is synthesized in memory on every startup and nothing is
// written to the filesystem.
func WithCacheDir(dir string) Option {
	return func(o *options) error {
		if dir == "" {
			return errors.New("cache dir must not be empty")
		}
		o.cacheDir = dir
		return nil
	}
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) error {
		if ua == "" {
			return errors.New("user agent must not be empty")
		}
		o.userAgent = ua
		return nil
	}
}
