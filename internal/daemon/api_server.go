package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"studypulse/internal/api"
	"studypulse/internal/config"
	"studypulse/internal/logging"
	"studypulse/internal/voice"
)

const (
	multipartMemory = 8 << 20
	jsonBodySlack   = 64 << 10
)

type apiServer struct {
	bind          string
	logger        *slog.Logger
	daemon        *Daemon
	maxJSONBytes  int64
	maxAudioBytes int64

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) *apiServer {
	srv := &apiServer{
		bind:          strings.TrimSpace(cfg.Paths.APIBind),
		logger:        logger,
		daemon:        d,
		maxJSONBytes:  maxJSONBody(cfg),
		maxAudioBytes: int64(cfg.Transcription.MaxAudioBytes),
	}
	srv.server = &http.Server{
		Handler:           srv.routes(cfg.Paths.APIToken),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

func (s *apiServer) routes(token string) http.Handler {
	mux := http.NewServeMux()
	handle := func(route string, h http.HandlerFunc) {
		mux.Handle(route, requestIDMiddleware(metricsMiddleware(route, authMiddleware(token, h))))
	}

	handle("/api/analyze/emotion", s.handleEmotion)
	handle("/api/analyze/voice", s.handleVoice)
	handle("/api/recommendations", s.handleRecommendations)
	handle("/api/sessions", s.handleSessions)
	handle("/api/status", s.handleStatus)
	mux.Handle("/api/sessions/stream", requestIDMiddleware(streamAuthMiddleware(token, s.daemon.feed.ServeHTTP)))
	mux.Handle("/metrics", authMiddleware(token, promhttp.Handler().ServeHTTP))
	return mux
}

func (s *apiServer) start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
}

// Addr returns the bound listener address, or the configured bind before start.
func (s *apiServer) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.bind
}

func (s *apiServer) handleEmotion(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	var req api.EmotionRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.daemon.assistant.AnalyzeEmotion(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *apiServer) handleVoice(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}

	var (
		result api.VoiceResult
		err    error
	)
	if isMultipart(r) {
		result, err = s.analyzeUpload(w, r)
	} else {
		var req api.VoiceRequest
		if err = s.decodeJSON(w, r, &req); err == nil {
			result, err = s.daemon.assistant.AnalyzeTranscript(r.Context(), req)
		}
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *apiServer) analyzeUpload(w http.ResponseWriter, r *http.Request) (api.VoiceResult, error) {
	if s.maxAudioBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxAudioBytes+jsonBodySlack)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return api.VoiceResult{}, bodyError(err)
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	// A transcript field alongside the upload skips transcription.
	if transcript := strings.TrimSpace(r.FormValue("transcript")); transcript != "" {
		return s.daemon.assistant.AnalyzeTranscript(r.Context(), api.NewVoiceRequest(transcript))
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return api.VoiceResult{}, fmt.Errorf("%w: no audio provided", api.ErrInvalidInput)
		}
		return api.VoiceResult{}, bodyError(err)
	}
	defer file.Close()

	return s.daemon.assistant.AnalyzeAudio(r.Context(), voice.Audio{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	})
}

func (s *apiServer) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	var req api.RecommendationRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.daemon.assistant.Recommend(r.Context(), req))
}

func (s *apiServer) handleSessions(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodGet) {
		return
	}
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, r, fmt.Errorf("%w: limit must be an integer", api.ErrInvalidInput))
			return
		}
		limit = parsed
	}
	records, err := s.daemon.assistant.History(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.SessionsResponse{Success: true, Sessions: records})
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodGet) {
		return
	}
	status := s.daemon.Status(r.Context())
	payload := api.StatusResponse{
		Success:       true,
		Running:       status.Running,
		PID:           status.PID,
		Backend:       status.Backend,
		SessionCount:  status.SessionCount,
		Classifier:    status.Classifier,
		Transcription: status.Transcription,
		FeedClients:   status.FeedClients,
		Checks:        status.Checks,
	}
	if !status.StartedAt.IsZero() {
		payload.StartedAt = status.StartedAt.Format(time.RFC3339)
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *apiServer) requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	s.writeJSON(w, http.StatusMethodNotAllowed, api.ErrorResponse{Success: false, Error: "method not allowed"})
	return false
}

func (s *apiServer) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxJSONBytes)
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", api.ErrInvalidInput)
		}
		return bodyError(err)
	}
	return nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: request body exceeds %d bytes", api.ErrInvalidInput, tooLarge.Limit)
	}
	var syntax *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntax) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: malformed JSON body", api.ErrInvalidInput)
	}
	return fmt.Errorf("%w: %w", api.ErrInvalidInput, err)
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// maxJSONBody sizes JSON request bodies for a full burst of base64 frames.
func maxJSONBody(cfg *config.Config) int64 {
	frames := max(cfg.Classifier.MaxFrames, 1)
	perFrame := max(cfg.Classifier.MaxImageBytes, 1<<20)
	return int64(frames)*int64(perFrame/3*4+4) + jsonBodySlack
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := api.StatusFor(err)
	logger := logging.WithContext(r.Context(), s.log())
	if status >= http.StatusInternalServerError && status != http.StatusNotImplemented {
		logger.Error("request failed", logging.String("path", r.URL.Path), logging.Error(err))
	} else {
		logger.Debug("request rejected", logging.String("path", r.URL.Path), logging.Int("status", status), logging.Error(err))
	}
	s.writeJSON(w, status, api.NewErrorResponse(err))
}

func (s *apiServer) log() *slog.Logger {
	return logging.NewComponentLogger(s.logger, "api-server")
}
