package geo

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default bounds for the external lookup and the cache.
const (
	DefaultTimeout  = 5 * time.Second
	DefaultCacheTTL = 24 * time.Hour
)

var resolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "pricing",
		Name:      "geolocation_resolutions_total",
		Help:      "Geolocation resolutions by the source that produced the answer.",
	},
	[]string{"source"}, // cache_hit, lookup, lookup_error, header, default
)

// CurrencySupport reports whether a currency code can be priced.
type CurrencySupport interface {
	Supports(code string) bool
}

// Resolver turns an IP address plus request headers into a CountryInfo.
// Resolve never fails: each failure degrades to a less specific answer.
type Resolver struct {
	lookup     Lookup
	cache      *Cache
	currencies CurrencySupport
	timeout    time.Duration
	logger     *slog.Logger
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithTimeout bounds each external lookup.
func WithTimeout(d time.Duration) Option { return func(r *Resolver) { r.timeout = d } }

// WithCache replaces the default 24h cache.
func WithCache(c *Cache) Option { return func(r *Resolver) { r.cache = c } }

// WithCurrencies restricts header-derived currencies to priceable ones.
func WithCurrencies(cs CurrencySupport) Option { return func(r *Resolver) { r.currencies = cs } }

// WithLogger sets the logger used for degraded lookups.
func WithLogger(l *slog.Logger) Option { return func(r *Resolver) { r.logger = l } }

// NewResolver returns a Resolver backed by lookup. lookup may be nil, in
// which case only headers are used.
func NewResolver(lookup Lookup, opts ...Option) *Resolver {
	r := &Resolver{
		lookup:  lookup,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cache == nil {
		r.cache = NewCache(DefaultCacheTTL, nil)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	r.logger = r.logger.With("component", "geo_resolver")
	return r
}

// Cache exposes the resolver's cache, mainly to clear it.
func (r *Resolver) Cache() *Cache { return r.cache }

// Resolve locates a request. Public IPs are looked up (through the cache);
// anything else, or a failed lookup, falls back to headers and then to
// Default.
func (r *Resolver) Resolve(ctx context.Context, ip string, headers http.Header) CountryInfo {
	ip = strings.TrimSpace(ip)
	if r.lookup != nil && IsPublicIP(ip) {
		if info, ok := r.cache.Get(ip); ok {
			resolutionsTotal.WithLabelValues("cache_hit").Inc()
			return info
		}
		if info, ok := r.lookupIP(ctx, ip); ok {
			resolutionsTotal.WithLabelValues("lookup").Inc()
			return info
		}
		resolutionsTotal.WithLabelValues("lookup_error").Inc()
	}

	if info, ok := r.fromHeaders(headers); ok {
		resolutionsTotal.WithLabelValues("header").Inc()
		return info
	}
	resolutionsTotal.WithLabelValues("default").Inc()
	return Default
}

func (r *Resolver) lookupIP(ctx context.Context, ip string) (CountryInfo, bool) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	info, err := r.lookup.Lookup(ctx, ip)
	if err != nil {
		r.logger.WarnContext(ctx, "geolocation lookup failed, using headers", "ip", ip, "err", err)
		return CountryInfo{}, false
	}
	r.cache.Set(ip, info)
	return info, true
}

func (r *Resolver) supportsCurrency(code string) bool {
	if r.currencies == nil {
		return true
	}
	return r.currencies.Supports(code)
}

// IsPublicIP reports whether ip is a routable unicast address worth an
// external lookup. Loopback, private, link-local and malformed inputs are
// not.
func IsPublicIP(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	return !(parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified() ||
		parsed.IsLinkLocalUnicast() || parsed.IsLinkLocalMulticast() || parsed.IsMulticast())
}
