package rate_limiter

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	DefaultCleanupInterval = time.Minute
	visitorTTL             = 5 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter keeps one token bucket per client IP. The client IP is the connection's
// remote address; X-Forwarded-For is read only when that address is a trusted proxy.
type Limiter struct {
	rps     rate.Limit
	burst   int
	log     logrus.FieldLogger
	now     func() time.Time
	trusted []netip.Prefix

	mu       sync.Mutex
	visitors map[string]*clientLimiter
}

// New builds a limiter. trustedProxies holds IPs or CIDR ranges of reverse proxies
// whose X-Forwarded-For header may be believed; unparsable entries are logged and skipped.
func New(rps float64, burst int, logger logrus.FieldLogger, trustedProxies ...string) *Limiter {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 3
	}
	l := &Limiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		log:      logger,
		now:      time.Now,
		visitors: make(map[string]*clientLimiter),
	}
	for _, entry := range trustedProxies {
		prefix, err := parsePrefix(entry)
		if err != nil {
			logger.WithError(err).Warnf("ignoring trusted proxy %q", entry)
			continue
		}
		l.trusted = append(l.trusted, prefix)
	}
	return l
}

func parsePrefix(entry string) (netip.Prefix, error) {
	entry = strings.TrimSpace(entry)
	if strings.Contains(entry, "/") {
		p, err := netip.ParsePrefix(entry)
		return p.Masked(), err
	}
	addr, err := netip.ParseAddr(entry)
	if err != nil {
		return netip.Prefix{}, err
	}
	addr = addr.Unmap()
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}

func (l *Limiter) GetVisitor(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, exists := l.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(l.rps, l.burst)
		l.visitors[ip] = &clientLimiter{limiter, l.now()}
		return limiter
	}

	v.lastSeen = l.now()
	return v.limiter
}

// StartVisitorCleanupLoop evicts idle visitors until ctx is done.
func (l *Limiter) StartVisitorCleanupLoop(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			l.cleanup()
		}
	}
}

func (l *Limiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, v := range l.visitors {
		if l.now().Sub(v.lastSeen) > visitorTTL {
			delete(l.visitors, ip)
		}
	}
}

func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// Middleware answers 429 once a client exceeds its budget. Only unsafe methods are
// counted, so rendering the login form stays free.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}
		ip := l.clientIP(r)
		if !l.GetVisitor(ip).Allow() {
			l.log.WithField("ip", ip).Warnf("rate limit exceeded on %s", r.URL.Path)
			w.Header().Set("Retry-After", "1")
			http.Error(w, "Demasiados intentos. Espera un momento.", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP returns the RemoteAddr host. Behind a trusted proxy it walks X-Forwarded-For
// from the right and returns the first hop that is not itself a trusted proxy.
func (l *Limiter) clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if !l.isTrusted(host) {
		return host
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if _, err := netip.ParseAddr(hop); err != nil {
			return host
		}
		if !l.isTrusted(hop) {
			return hop
		}
	}
	return host
}

func (l *Limiter) isTrusted(ip string) bool {
	if len(l.trusted) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range l.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
