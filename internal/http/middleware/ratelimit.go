package middleware

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"jobconnect/internal/common"
	"jobconnect/internal/http/metrics"
	"jobconnect/internal/http/response"
)

type Limiter interface {
	Allow(key string, limit int, window time.Duration) bool
}

// RateLimiter keeps one token bucket per key in process memory.
type RateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*rateBucket
	now       func() time.Time
	lastPrune time.Time
}

type rateBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
	window   time.Duration
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{buckets: make(map[string]*rateBucket), now: time.Now}
}

func (r *RateLimiter) Allow(key string, limit int, window time.Duration) bool {
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	bucket, ok := r.buckets[key]
	if !ok {
		bucket = &rateBucket{limiter: rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit), window: window}
		r.buckets[key] = bucket
	}
	bucket.lastSeen = now
	r.pruneLocked(now)
	return bucket.limiter.AllowN(now, 1)
}

// pruneLocked drops buckets idle for longer than their window, at most once a minute.
func (r *RateLimiter) pruneLocked(now time.Time) {
	if now.Sub(r.lastPrune) < time.Minute {
		return
	}
	r.lastPrune = now
	for key, bucket := range r.buckets {
		if now.Sub(bucket.lastSeen) > bucket.window {
			delete(r.buckets, key)
		}
	}
}

func RateLimit(limiter Limiter, collector *metrics.Collector, keyFn func(*http.Request) string, limit int, window time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}
			key := keyFn(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			if !limiter.Allow(key, limit, window) {
				if collector != nil {
					collector.IncRateLimited()
				}
				response.Error(w, common.NewError(common.CodeRateLimited, "too many requests, please try again later", nil))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP is the direct peer address. Forwarding headers are ignored.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ClientIPResolver reads X-Forwarded-For only when the direct peer is a trusted proxy.
type ClientIPResolver struct {
	trusted []netip.Prefix
}

// NewClientIPResolver accepts single addresses or CIDR ranges.
func NewClientIPResolver(proxies []string) (*ClientIPResolver, error) {
	resolver := &ClientIPResolver{}
	for _, entry := range proxies {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
			}
			resolver.trusted = append(resolver.trusted, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		addr = addr.Unmap()
		resolver.trusted = append(resolver.trusted, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return resolver, nil
}

// ClientIP walks X-Forwarded-For from the right and returns the first hop that is not a trusted proxy.
func (c *ClientIPResolver) ClientIP(r *http.Request) string {
	peer := ClientIP(r)
	if c == nil || !c.isTrusted(peer) {
		return peer
	}
	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	client := peer
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		client = hop
		if !c.isTrusted(hop) {
			return hop
		}
	}
	return client
}

func (c *ClientIPResolver) isTrusted(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range c.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}
