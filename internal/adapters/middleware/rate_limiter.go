package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/hostelmess/mess-service/internal/config"
)

// ThrottleStore is the part of *redis.Client the login throttle needs.
type ThrottleStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// LoginThrottle counts failed logins per scheme and client IP. Once
// maxAttempts failures land inside window, further attempts get 429 until
// the window expires. Redis outages fail open.
type LoginThrottle struct {
	store       ThrottleStore
	maxAttempts int64
	window      time.Duration
	trusted     []*net.IPNet
	cb          *gobreaker.CircuitBreaker
	log         *zap.Logger
}

// NewLoginThrottle builds a throttle over store. trustedProxies holds IPs or
// CIDRs of reverse proxies whose X-Forwarded-For header may name the client;
// requests from any other peer are keyed on their socket address.
func NewLoginThrottle(store ThrottleStore, maxAttempts int, window time.Duration, trustedProxies []string, log *zap.Logger) *LoginThrottle {
	return &LoginThrottle{
		store:       store,
		maxAttempts: int64(maxAttempts),
		window:      window,
		trusted:     parseTrustedProxies(trustedProxies, log),
		cb:          config.NewCircuitBreaker(config.BreakerLoginThrottle, log),
		log:         log,
	}
}

func parseTrustedProxies(entries []string, log *zap.Logger) []*net.IPNet {
	var nets []*net.IPNet
	for _, entry := range entries {
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				log.Warn("ignoring invalid trusted proxy", zap.String("entry", entry))
				continue
			}
			bits := 8 * net.IPv4len
			if ip.To4() == nil {
				bits = 8 * net.IPv6len
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, ipNet, err := net.ParseCIDR(entry)
		if err != nil {
			log.Warn("ignoring invalid trusted proxy", zap.String("entry", entry), zap.Error(err))
			continue
		}
		nets = append(nets, ipNet)
	}
	return nets
}

func (t *LoginThrottle) isTrusted(host string) bool {
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	for _, n := range t.trusted {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// remoteHost is the peer address of the connection without its port.
func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// clientIP resolves the address a request is throttled under. X-Forwarded-For
// is only read when the peer is a trusted proxy, and then the rightmost hop
// that is not itself trusted wins.
func (t *LoginThrottle) clientIP(r *http.Request) string {
	peer := remoteHost(r)
	if !t.isTrusted(peer) {
		return peer
	}
	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if !t.isTrusted(hop) {
			return hop
		}
		peer = hop
	}
	return peer
}

func (t *LoginThrottle) key(scheme string, r *http.Request) string {
	return "mess:login-failures:" + scheme + ":" + t.clientIP(r)
}

// blocked returns the remaining lockout when the key is over the limit. A
// counter that lost its expiry is given a fresh window.
func (t *LoginThrottle) blocked(ctx context.Context, key string) (time.Duration, bool) {
	res, err := t.cb.Execute(func() (interface{}, error) {
		n, err := t.store.Get(ctx, key).Int64()
		if err == redis.Nil {
			return time.Duration(0), nil
		}
		if err != nil {
			return nil, err
		}
		if n < t.maxAttempts {
			return time.Duration(0), nil
		}
		ttl, err := t.store.TTL(ctx, key).Result()
		if err != nil {
			return nil, err
		}
		if ttl < 0 {
			if err := t.store.Expire(ctx, key, t.window).Err(); err != nil {
				return nil, err
			}
			return t.window, nil
		}
		return ttl, nil
	})
	if err != nil {
		t.log.Warn("login throttle unavailable", zap.Error(err))
		return 0, false
	}
	ttl := res.(time.Duration)
	if ttl <= 0 {
		return 0, false
	}
	return ttl, true
}

// recordFailure bumps the counter and makes sure it carries an expiry, so a
// failed Expire on the first hit is retried on the next one.
func (t *LoginThrottle) recordFailure(ctx context.Context, key string) {
	_, err := t.cb.Execute(func() (interface{}, error) {
		n, err := t.store.Incr(ctx, key).Result()
		if err != nil {
			return nil, err
		}
		if n > 1 {
			ttl, err := t.store.TTL(ctx, key).Result()
			if err != nil {
				return nil, err
			}
			if ttl >= 0 {
				return nil, nil
			}
		}
		return nil, t.store.Expire(ctx, key, t.window).Err()
	})
	if err != nil {
		t.log.Warn("login throttle record failed", zap.Error(err))
	}
}

func (t *LoginThrottle) reset(ctx context.Context, key string) {
	_, err := t.cb.Execute(func() (interface{}, error) {
		return nil, t.store.Del(ctx, key).Err()
	})
	if err != nil {
		t.log.Warn("login throttle reset failed", zap.Error(err))
	}
}

// Guard wraps a login handler: 401 answers count as failures, 2xx answers clear the counter.
func (t *LoginThrottle) Guard(scheme string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := t.key(scheme, r)
		if ttl, ok := t.blocked(r.Context(), key); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", strconv.Itoa(int(ttl.Round(time.Second).Seconds())))
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"message": "Too many failed login attempts. Try again later.",
			})
			return
		}

		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		switch status := rec.Status(); {
		case status == http.StatusUnauthorized:
			t.recordFailure(r.Context(), key)
		case status >= 200 && status < 300:
			t.reset(r.Context(), key)
		}
	})
}
