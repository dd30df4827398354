package http

import (
	"context"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/skillswap/skillswap-hub/internal/domain/shared"
	"github.com/skillswap/skillswap-hub/pkg/logger"
)

type contextKey string

const (
	contextKeyUserID contextKey = "user_id"
	contextKeyToken  contextKey = "session_token"
)

// UserIDFrom returns the authenticated user ID, or "".
func UserIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(contextKeyUserID).(string)
	return id
}

func tokenFrom(ctx context.Context) string {
	t, _ := ctx.Value(contextKeyToken).(string)
	return t
}

// loggingMiddleware logs every request once and puts a request-scoped
// logger into the context.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := middleware.GetReqID(r.Context())
		if reqID != "" {
			w.Header().Set("X-Request-ID", reqID)
		}

		reqLog := s.logger.WithRequestID(reqID)
		ctx := logger.WithContext(r.Context(), reqLog)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		fields := []logger.Field{
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Int("status", status),
			logger.Latency(time.Since(start)),
			logger.String("ip", r.RemoteAddr),
		}
		if status >= http.StatusInternalServerError {
			reqLog.Warn("http request", fields...)
			return
		}
		reqLog.Info("http request", fields...)
	})
}

// recoveryMiddleware turns panics into 500 responses.
func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.FromContext(r.Context()).Error("panic recovered",
					logger.Any("panic", rec),
					logger.String("stack", string(debug.Stack())),
					logger.String("path", r.URL.Path),
				)
				writeError(w, http.StatusInternalServerError, "INTERNAL", "An unexpected error occurred")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// rateLimitMiddleware throttles per client IP. Limiter errors fail open.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.deps.RateLimiter == nil || (s.deps.RateLimitEnabled != nil && !s.deps.RateLimitEnabled()) {
			next.ServeHTTP(w, r)
			return
		}

		ok, err := s.deps.RateLimiter.Allow(r.Context(), clientIP(r))
		if err != nil {
			logger.FromContext(r.Context()).Warn("rate limiter unavailable", logger.Err(err))
		} else if !ok {
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, please try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bodyLimitMiddleware caps request bodies.
func (s *Server) bodyLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.config.MaxBodyBytes > 0 && r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}

// authMiddleware resolves "Authorization: Bearer <token>" to a user ID.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			s.writeDomainError(w, r, shared.NotAuthenticated("http", "Authenticate", "authorization token required"))
			return
		}

		userID, err := s.deps.Sessions.Resolve(r.Context(), token)
		if err != nil {
			s.writeDomainError(w, r, shared.AsUpstream("http", "Authenticate", err))
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyUserID, userID)
		ctx = context.WithValue(ctx, contextKeyToken, token)
		ctx = logger.WithContext(ctx, logger.FromContext(ctx).With(logger.UserID(userID)))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// securityHeaders adds the usual hardening headers to API responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return strings.TrimSpace(auth[len(prefix):])
	}
	return ""
}

// clientIP relies on middleware.RealIP having rewritten RemoteAddr.
func clientIP(r *http.Request) string {
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 && !strings.HasSuffix(ip, "]") {
		ip = ip[:idx]
	}
	return ip
}
