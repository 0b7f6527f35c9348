package dashboard

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vilaca/activity-feed/internal/domain"
)

const (
	maxRequestLimit = 1000
	// maxRequestUsers caps ?users= since each name costs one upstream fetch.
	maxRequestUsers = 50
)

// Handler handles HTTP requests for the dashboard.
// Each handler method has a Single Responsibility (SRP).
type Handler struct {
	renderer       Renderer
	logger         Logger
	feedService    FeedService
	usernames      []string
	limit          int
	requestTimeout time.Duration
}

// Logger interface for logging operations (Interface Segregation Principle).
type Logger interface {
	Printf(format string, v ...interface{})
}

// FeedService interface for feed operations (Dependency Inversion Principle).
type FeedService interface {
	GetFeed(ctx context.Context, usernames []string, limit int) (domain.Feed, error)
}

// HandlerConfig holds configuration for creating a new Handler
type HandlerConfig struct {
	Renderer       Renderer
	Logger         Logger
	FeedService    FeedService
	Usernames      []string // default users when the request names none
	Limit          int      // default event limit, 0 for unlimited
	RequestTimeout time.Duration
}

// NewHandler creates a new Handler with injected dependencies (Dependency Inversion Principle).
func NewHandler(cfg HandlerConfig) *Handler {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Handler{
		renderer:       cfg.Renderer,
		logger:         cfg.Logger,
		feedService:    cfg.FeedService,
		usernames:      cfg.Usernames,
		limit:          cfg.Limit,
		requestTimeout: timeout,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", h.handleFeed)
	mux.HandleFunc("/api/feed", h.handleFeedJSON)
	mux.HandleFunc("/api/health", h.handleHealth)
}

// handleHealth serves the health check endpoint.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := h.renderer.RenderHealth(w); err != nil {
		h.logger.Printf("failed to render health: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// handleFeed serves the merged feed page.
func (h *Handler) handleFeed(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	usernames, ok := h.usersFromRequest(w, r)
	if !ok {
		return
	}
	feed, ok := h.fetchFeed(w, r, usernames)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.RenderFeed(w, feed, usernames); err != nil {
		h.logger.Printf("failed to render feed: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// handleFeedJSON serves the merged feed as JSON.
func (h *Handler) handleFeedJSON(w http.ResponseWriter, r *http.Request) {
	usernames, ok := h.usersFromRequest(w, r)
	if !ok {
		return
	}
	feed, ok := h.fetchFeed(w, r, usernames)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	if err := h.renderer.RenderFeedJSON(w, feed); err != nil {
		h.logger.Printf("failed to encode feed: %v", err)
	}
}

// fetchFeed loads the feed and writes an error response on failure.
func (h *Handler) fetchFeed(w http.ResponseWriter, r *http.Request, usernames []string) (domain.Feed, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	feed, err := h.feedService.GetFeed(ctx, usernames, h.limitFromRequest(r))
	if err != nil {
		h.logger.Printf("[Feed] ERROR: %v", err)
		http.Error(w, "Gateway Timeout", http.StatusGatewayTimeout)
		return domain.Feed{}, false
	}
	return feed, true
}

// usersFromRequest returns ?users=a,b when present, else the configured users.
// It writes 400 and returns false when more than maxRequestUsers are named.
func (h *Handler) usersFromRequest(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	param := r.URL.Query().Get("users")
	if param == "" {
		return h.usernames, true
	}

	var users []string
	for _, u := range strings.Split(param, ",") {
		if u = strings.TrimSpace(u); u != "" {
			users = append(users, u)
		}
	}
	if len(users) > maxRequestUsers {
		http.Error(w, "too many users; at most "+strconv.Itoa(maxRequestUsers)+" per request", http.StatusBadRequest)
		return nil, false
	}
	return users, true
}

// limitFromRequest returns a valid ?limit=N, else the configured limit.
func (h *Handler) limitFromRequest(r *http.Request) int {
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		if l, err := strconv.Atoi(limitParam); err == nil && l > 0 && l <= maxRequestLimit {
			return l
		}
	}
	return h.limit
}

// StdLogger implements Logger using the standard log package.
type StdLogger struct{}

// NewStdLogger creates a new standard logger.
func NewStdLogger() *StdLogger {
	return &StdLogger{}
}

func (l *StdLogger) Printf(format string, v ...interface{}) {
	log.Printf(format, v...)
}
