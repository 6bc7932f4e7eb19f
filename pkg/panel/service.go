// Package panel runs the control-panel backend: both event streams plus a
// local HTTP endpoint exposing their projections and lifecycle states.
package panel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"pearpanel/pkg/config"
	"pearpanel/pkg/oauth"
	"pearpanel/pkg/projection"
	"pearpanel/pkg/stream"
)

const (
	defaultStatusHost = "127.0.0.1"
	defaultStatusPort = 18790

	defaultPlayerHost      = "localhost:26538"
	defaultIntegrationHost = "127.0.0.1:3999"
)

// Service owns the media and integration streams and the status server.
type Service struct {
	cfg         *config.Config
	log         *slog.Logger
	media       *stream.Channel[projection.Media]
	integration *stream.Channel[projection.Integration]

	mu        sync.RWMutex
	startedAt time.Time
	boundAddr string
}

type statusResponse struct {
	Status        string                  `json:"status"`
	UptimeSeconds int64                   `json:"uptime_seconds"`
	Streams       map[string]stream.State `json:"streams"`
	Player        projection.Media        `json:"player"`
	Twitch        projection.Integration  `json:"twitch"`
}

// NewService wires the two websocket streams from configuration.
func NewService(cfg *config.Config, log *slog.Logger) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	playerHost := hostOrDefault(cfg.Player.Host, defaultPlayerHost)
	integrationHost := hostOrDefault(cfg.Integration.Host, defaultIntegrationHost)

	return newService(cfg,
		stream.NewWebsocketDialer(playerHost),
		stream.NewWebsocketDialer(integrationHost),
		log,
	), nil
}

// newService is the injection point: tests pass fake dialers here.
func newService(cfg *config.Config, playerDialer, integrationDialer stream.Dialer, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}

	retryDelay := time.Duration(cfg.Stream.RetryDelaySeconds) * time.Second

	return &Service{
		cfg:         cfg,
		log:         log.With("component", "panel.service"),
		media:       stream.New[projection.Media]("media", playerDialer, retryDelay, log),
		integration: stream.New[projection.Integration]("integration", integrationDialer, retryDelay, log),
	}
}

// Media returns the media stream channel.
func (s *Service) Media() *stream.Channel[projection.Media] {
	return s.media
}

// Integration returns the integration stream channel.
func (s *Service) Integration() *stream.Channel[projection.Integration] {
	return s.integration
}

// Run starts both streams and the status server, and blocks until ctx is
// canceled or the status server fails. Stream failures never surface here;
// the channels recover on their own.
func (s *Service) Run(ctx context.Context) error {
	s.mu.Lock()
	s.startedAt = time.Now().UTC()
	s.mu.Unlock()

	serverErrors := make(chan error, 1)
	go s.runStatusServer(ctx, serverErrors)

	go func() { _ = s.media.Run(ctx) }()
	go func() { _ = s.integration.Run(ctx) }()

	select {
	case <-ctx.Done():
		s.media.Close()
		s.integration.Close()
		return nil
	case err := <-serverErrors:
		s.media.Close()
		s.integration.Close()
		return err
	}
}

func (s *Service) runStatusServer(ctx context.Context, errCh chan<- error) {
	host := hostOrDefault(s.cfg.Panel.Host, defaultStatusHost)
	port := s.cfg.Panel.Port
	if port < 0 {
		port = defaultStatusPort
	}
	if port == 0 && s.cfg.Panel.Host == "" {
		port = defaultStatusPort
	}

	addr := host + ":" + strconv.Itoa(port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		errCh <- fmt.Errorf("bind status server: %w", err)
		return
	}

	s.mu.Lock()
	s.boundAddr = listener.Addr().String()
	s.mu.Unlock()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/statusz", s.handleStatus)
	mux.HandleFunc("/oauth/redirect", s.handleOAuthRedirect)

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.log.Info("Status server started", "address", s.Addr())
	if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		errCh <- fmt.Errorf("serve status server: %w", err)
	}
}

// Addr returns the bound status server address, empty before Run.
func (s *Service) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.boundAddr
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondStatus(w, http.StatusOK, "ok")
}

func (s *Service) handleReady(w http.ResponseWriter, _ *http.Request) {
	statusCode := http.StatusOK
	status := "ready"
	if !s.isReady() {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	s.respondStatus(w, statusCode, status)
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.respondStatus(w, http.StatusOK, "ok")
}

// handleOAuthRedirect receives the Twitch implicit-grant landing. The
// browser cannot send the URL fragment directly, so the landing page
// forwards it in a "fragment" query parameter.
func (s *Service) handleOAuthRedirect(w http.ResponseWriter, r *http.Request) {
	result := oauth.ParseRedirect(r.URL.RawQuery, r.URL.Query().Get("fragment"))

	switch res := result.(type) {
	case oauth.ProviderError:
		s.log.Warn("Twitch authorization rejected", "code", res.Code, "description", res.Description)
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"status": "provider_error",
			"code":   res.Code,
		}, s.log)
	case oauth.Credential:
		if err := res.Validate(); err != nil {
			s.log.Warn("Twitch credential rejected", "error", err)
			respondJSON(w, http.StatusBadRequest, map[string]string{
				"status": "invalid_credential",
			}, s.log)
			return
		}

		identity := "main"
		if res.ForBot() {
			identity = "bot"
		}
		s.log.Info("Twitch credential received", "identity", identity, "scope", res.Scope)
		respondJSON(w, http.StatusOK, map[string]string{
			"status":   "accepted",
			"identity": identity,
		}, s.log)
	case oauth.Absent:
		respondJSON(w, http.StatusOK, map[string]string{
			"status": "no_credential",
		}, s.log)
	}
}

func respondJSON(w http.ResponseWriter, statusCode int, payload any, log *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

func (s *Service) respondStatus(w http.ResponseWriter, statusCode int, status string) {
	respondJSON(w, statusCode, s.currentStatus(status), s.log)
}

func (s *Service) currentStatus(status string) statusResponse {
	s.mu.RLock()
	startedAt := s.startedAt
	s.mu.RUnlock()

	uptime := int64(0)
	if !startedAt.IsZero() {
		uptime = int64(time.Since(startedAt).Seconds())
	}

	return statusResponse{
		Status:        status,
		UptimeSeconds: uptime,
		Streams: map[string]stream.State{
			s.media.Name():       s.media.State(),
			s.integration.Name(): s.integration.State(),
		},
		Player: s.media.Snapshot(),
		Twitch: s.integration.Snapshot(),
	}
}

// isReady holds once the player stream is receiving; the panel is usable
// without the integration stream.
func (s *Service) isReady() bool {
	return s.media.State() == stream.StateOpen
}

func hostOrDefault(host, fallback string) string {
	host = strings.TrimSpace(host)
	if host == "" {
		return fallback
	}
	return host
}
