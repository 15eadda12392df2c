package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/jobradar/telegram-keyword-bot/internal/biz/repo"
	"github.com/jobradar/telegram-keyword-bot/internal/biz/usecase"
	"github.com/jobradar/telegram-keyword-bot/internal/logging"
	"github.com/jobradar/telegram-keyword-bot/internal/service"
)

// Server provides a local ops HTTP API: health, stats and the monitored
// channel list. Bound to loopback only.
type Server struct {
	channelRepo repo.ChannelRepo
	forwardUC   *usecase.ForwardUsecase
	matchUC     *usecase.MatchUsecase
	health      *service.HealthMonitor
	forwarder   *service.ForwarderService

	server *http.Server
	port   int
	log    zerolog.Logger
}

// NewServer creates a new ops API server
func NewServer(
	channelRepo repo.ChannelRepo,
	forwardUC *usecase.ForwardUsecase,
	matchUC *usecase.MatchUsecase,
	health *service.HealthMonitor,
	forwarder *service.ForwarderService,
	port int,
) *Server {
	return &Server{
		channelRepo: channelRepo,
		forwardUC:   forwardUC,
		matchUC:     matchUC,
		health:      health,
		forwarder:   forwarder,
		port:        port,
		log:         logging.GetLogger("api"),
	}
}

// Start starts the HTTP server. Blocks until Stop is called.
func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/channels", s.handleChannels)

	s.server = &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", s.port),
		Handler: mux,
	}

	s.log.Info().Int("port", s.port).Msg("ops api listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop stops the HTTP server
func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	status := s.health.Status()
	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats, err := s.forwardUC.Stats(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load stats")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	processed, forwarded, filtered := s.forwarder.Counters()

	writeJSON(w, http.StatusOK, map[string]any{
		"forwards_total":  stats.TotalForwards,
		"forwards_today":  stats.ForwardsToday,
		"active_users":    stats.ActiveUsers,
		"posts_processed": processed,
		"posts_forwarded": forwarded,
		"posts_filtered":  filtered,
		"patterns_cached": s.matchUC.CachedPatterns(),
	})
}

func (s *Server) handleChannels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	channels, err := s.channelRepo.ListAll(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list channels")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	type channelView struct {
		ChannelID int64  `json:"channel_id"`
		Username  string `json:"username,omitempty"`
		Title     string `json:"title,omitempty"`
		Status    string `json:"status"`
	}
	views := make([]channelView, 0, len(channels))
	for _, ch := range channels {
		views = append(views, channelView{
			ChannelID: ch.ChannelID,
			Username:  ch.Username,
			Title:     ch.Title,
			Status:    string(ch.Status),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"channels": views})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
