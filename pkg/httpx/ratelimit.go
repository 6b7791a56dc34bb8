package httpx

import (
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/workintel/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig is a token bucket: RequestsPerWindow refill over Window,
// with up to Burst requests allowed back to back.
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	Burst             int
}

// Profiles, overridable with RATELIMIT_{STRICT|MODERATE|LENIENT|PUBLIC}_{REQUESTS|WINDOW_SEC|BURST}.
var (
	// StrictLimit guards login/signup and brief generation (which fans out to
	// every provider and the LLM).
	StrictLimit = RateLimitConfig{RequestsPerWindow: 5, Window: time.Minute, Burst: 5}

	// ModerateLimit covers writes: teams, invites, integrations, reports.
	ModerateLimit = RateLimitConfig{RequestsPerWindow: 20, Window: time.Minute, Burst: 20}

	// LenientLimit covers authenticated reads and pages.
	LenientLimit = RateLimitConfig{RequestsPerWindow: 100, Window: time.Minute, Burst: 100}

	// PublicLimit covers health checks and docs.
	PublicLimit = RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000}
)

func init() {
	StrictLimit = ParseRateLimitFromEnv("STRICT", StrictLimit)
	ModerateLimit = ParseRateLimitFromEnv("MODERATE", ModerateLimit)
	LenientLimit = ParseRateLimitFromEnv("LENIENT", LenientLimit)
	PublicLimit = ParseRateLimitFromEnv("PUBLIC", PublicLimit)
}

// ParseRateLimitFromEnv overlays RATELIMIT_{prefix}_* variables on def.
// Non-positive or unparsable values are ignored.
func ParseRateLimitFromEnv(prefix string, def RateLimitConfig) RateLimitConfig {
	cfg := def
	if n, ok := positiveEnvInt("RATELIMIT_" + prefix + "_REQUESTS"); ok {
		cfg.RequestsPerWindow = n
	}
	if n, ok := positiveEnvInt("RATELIMIT_" + prefix + "_WINDOW_SEC"); ok {
		cfg.Window = time.Duration(n) * time.Second
	}
	if n, ok := positiveEnvInt("RATELIMIT_" + prefix + "_BURST"); ok {
		cfg.Burst = n
	}
	return cfg
}

func positiveEnvInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Limiter is an in-process, best-effort rate limiter keyed by arbitrary
// strings. Buckets are created on first use and swept lazily; nothing is
// shared between processes.
type Limiter struct {
	cfg   RateLimitConfig
	limit rate.Limit

	buckets sync.Map // map[string]*rate.Limiter

	mu         sync.Mutex
	lastSweep  time.Time
	sweepEvery time.Duration
	nowFunc    func() time.Time
}

// NewLimiter builds a Limiter for cfg.
func NewLimiter(cfg RateLimitConfig) *Limiter {
	return &Limiter{
		cfg:        cfg,
		limit:      rate.Limit(float64(cfg.RequestsPerWindow) / cfg.Window.Seconds()),
		lastSweep:  time.Now(),
		sweepEvery: 5 * time.Minute,
		nowFunc:    time.Now,
	}
}

// Allow consumes one token for key. When denied it also returns how long
// until the next token is available (at least one second).
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	b := l.bucket(key)
	now := l.nowFunc()
	if b.AllowN(now, 1) {
		return true, 0
	}

	res := b.ReserveN(now, 1)
	delay := res.DelayFrom(now)
	res.CancelAt(now)

	return false, max(delay.Round(time.Second), time.Second)
}

// Len reports how many keys currently hold a bucket.
func (l *Limiter) Len() int {
	n := 0
	l.buckets.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (l *Limiter) bucket(key string) *rate.Limiter {
	if b, ok := l.buckets.Load(key); ok {
		return b.(*rate.Limiter)
	}
	l.maybeSweep()
	b, _ := l.buckets.LoadOrStore(key, rate.NewLimiter(l.limit, l.cfg.Burst))
	return b.(*rate.Limiter)
}

// maybeSweep drops buckets that have refilled completely, i.e. keys that
// have been idle long enough to be indistinguishable from new ones.
func (l *Limiter) maybeSweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFunc()
	if now.Sub(l.lastSweep) < l.sweepEvery {
		return
	}
	l.lastSweep = now

	l.buckets.Range(func(key, value any) bool {
		if value.(*rate.Limiter).TokensAt(now) >= float64(l.cfg.Burst) {
			l.buckets.Delete(key)
		}
		return true
	})
}

// KeyExtractor derives the rate limit key from a request.
type KeyExtractor func(*http.Request) string

// ClientIP returns the caller's address, honouring X-Forwarded-For and
// X-Real-IP from a fronting proxy.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// IPKeyExtractor keys on the client IP.
func IPKeyExtractor(r *http.Request) string { return ClientIP(r) }

// UserIDKeyExtractor keys on the session user, or "" when anonymous.
func UserIDKeyExtractor(r *http.Request) string { return UserIDFromContext(r.Context()) }

// FirstKeyExtractor returns the key of the first extractor that yields one.
func FirstKeyExtractor(extractors ...KeyExtractor) KeyExtractor {
	return func(r *http.Request) string {
		for _, ex := range extractors {
			if k := ex(r); k != "" {
				return k
			}
		}
		return ""
	}
}

// CompositeKeyExtractor joins the non-empty keys of extractors with sep.
func CompositeKeyExtractor(sep string, extractors ...KeyExtractor) KeyExtractor {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(extractors))
		for _, ex := range extractors {
			if k := ex(r); k != "" {
				parts = append(parts, k)
			}
		}
		return strings.Join(parts, sep)
	}
}

// FormFieldKeyExtractor keys on a form or query value, e.g. the login email.
func FormFieldKeyExtractor(field string) KeyExtractor {
	return func(r *http.Request) string {
		if err := r.ParseForm(); err != nil {
			return ""
		}
		return strings.ToLower(strings.TrimSpace(r.FormValue(field)))
	}
}

// RateLimitMiddleware rejects requests over cfg with 429 and a Retry-After
// header. Requests whose key cannot be derived pass through.
func RateLimitMiddleware(cfg RateLimitConfig, keyFn KeyExtractor) Middleware {
	lim := NewLimiter(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			key := keyFn(r)
			if key == "" {
				log.Warn("rate limit: no key for request, allowing")
				next.ServeHTTP(w, r)
				return
			}

			ok, retry := lim.Allow(key)
			if !ok {
				secs := int(retry / time.Second)
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerWindow))
				w.Header().Set("X-RateLimit-Window", cfg.Window.String())

				log.Warn("rate limit exceeded", "path", r.URL.Path, "retry_after", secs)

				WriteJSON(w, http.StatusTooManyRequests, map[string]string{
					"error":             "rate_limit_exceeded",
					"error_description": "Too many requests. Please try again later.",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByIP limits per client IP.
func RateLimitByIP(cfg RateLimitConfig) Middleware {
	return RateLimitMiddleware(cfg, IPKeyExtractor)
}

// RateLimitByUser limits per signed-in user alone, so rotating the client
// address does not buy a fresh bucket. Anonymous requests fall back to IP.
// Must run after SessionMiddleware to see the user.
func RateLimitByUser(cfg RateLimitConfig) Middleware {
	return RateLimitMiddleware(cfg, FirstKeyExtractor(UserIDKeyExtractor, IPKeyExtractor))
}

// RateLimitByIPAndFormField limits per IP plus a form field.
func RateLimitByIPAndFormField(cfg RateLimitConfig, field string) Middleware {
	return RateLimitMiddleware(cfg, CompositeKeyExtractor(":", IPKeyExtractor, FormFieldKeyExtractor(field)))
}
