package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/athletedex/internal/domain"
	"github.com/kailas-cloud/athletedex/internal/domain/athlete/criteria"
	"github.com/kailas-cloud/athletedex/internal/logger"
	athleteuc "github.com/kailas-cloud/athletedex/internal/usecase/athlete"
	healthuc "github.com/kailas-cloud/athletedex/internal/usecase/health"
)

// Client-facing error messages.
const (
	msgFetchAthletes   = "Failed to fetch athletes"
	msgFetchFilters    = "Failed to fetch filter options"
	msgFetchStats      = "Failed to fetch stats"
	msgInvalidateCache = "Failed to invalidate cache"
)

// AthleteService is the athlete use case consumed by the HTTP handlers.
type AthleteService interface {
	List(ctx context.Context, c criteria.Criteria) (athleteuc.ListResult, bool, error)
	FilterOptions(ctx context.Context) (athleteuc.FilterOptionsView, bool, error)
	Stats(ctx context.Context) (athleteuc.StatsView, bool, error)
	InvalidateCache(ctx context.Context, pattern string) (string, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the athlete discovery API.
type Server struct {
	athletes      AthleteService
	health        HealthChecker
	cacheMaxAge   time.Duration
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. cacheMaxAge is advertised in Cache-Control.
func NewServer(athletes AthleteService, health HealthChecker, cacheMaxAge time.Duration, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		athletes:    athletes,
		health:      health,
		cacheMaxAge: cacheMaxAge,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		validationHandler,
		sentinelHandler(domain.ErrInvalidPattern, http.StatusBadRequest, "Invalid cache pattern"),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, "Rate limit exceeded"),
	}
	return s
}

// ListAthletes handles GET /athletes.
func (s *Server) ListAthletes(w http.ResponseWriter, r *http.Request) {
	c, err := criteria.Parse(r.URL.Query())
	if err != nil {
		s.handleDomainError(w, r, err, msgFetchAthletes)
		return
	}

	res, hit, err := s.athletes.List(r.Context(), c)
	if err != nil {
		s.handleDomainError(w, r, err, msgFetchAthletes)
		return
	}

	s.setCacheHeaders(w, hit)
	writeJSON(w, http.StatusOK, res)
}

// FilterOptions handles GET /filters.
func (s *Server) FilterOptions(w http.ResponseWriter, r *http.Request) {
	out, hit, err := s.athletes.FilterOptions(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err, msgFetchFilters)
		return
	}

	s.setCacheHeaders(w, hit)
	writeJSON(w, http.StatusOK, out)
}

// Stats handles GET /stats.
func (s *Server) Stats(w http.ResponseWriter, r *http.Request) {
	out, hit, err := s.athletes.Stats(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err, msgFetchStats)
		return
	}

	s.setCacheHeaders(w, hit)
	writeJSON(w, http.StatusOK, out)
}

// InvalidateCache handles POST /cache/invalidate.
func (s *Server) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	pattern, err := s.athletes.InvalidateCache(r.Context(), r.URL.Query().Get("pattern"))
	if err != nil {
		s.handleDomainError(w, r, err, msgInvalidateCache)
		return
	}

	logger.FromContextOr(r.Context(), s.logger).Info("Cache invalidated", zap.String("pattern", pattern))
	writeJSON(w, http.StatusOK, InvalidateResponse{
		Success: true,
		Message: "Cache invalidated successfully",
		Pattern: pattern,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

func (s *Server) setCacheHeaders(w http.ResponseWriter, hit bool) {
	w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(int(s.cacheMaxAge.Seconds())))
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
}

// handleDomainError maps known errors through the handler table, anything else to a 500 with fallback.
func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	log := logger.FromContextOr(r.Context(), s.logger)
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Warn("request rejected", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: fallback})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, title, message string) {
	writeJSON(w, status, ErrorResponse{Error: title, Message: message})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, title string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, title, sentinel.Error())
		return true
	}
}

// validationHandler answers 400 with the per-field reasons.
func validationHandler(w http.ResponseWriter, err error) bool {
	if !errors.Is(err, domain.ErrValidation) {
		return false
	}
	details := map[string][]string{}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		details = ve.Details
	}
	writeJSON(w, http.StatusBadRequest, ValidationErrorResponse{
		Error:   "Validation failed",
		Message: "Invalid request parameters",
		Details: details,
	})
	return true
}
