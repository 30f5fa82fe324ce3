package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/g0083/QRreaders/internal/application"
	"github.com/g0083/QRreaders/internal/domain"
	"github.com/g0083/QRreaders/internal/infrastructure/streaming"
)

// Scanner команды сессии, доступные из веб-интерфейса
type Scanner interface {
	ID() string
	Start() error
	Stop()
	Rescan() error
	State() domain.ScanState
	Result() (string, bool)
}

// Server веб-интерфейс: страница предпросмотра, WebSocket и API
type Server struct {
	scanner   Scanner
	generator *application.Generator
	hub       *streaming.PreviewHub
	notifier  *Notifier
	defaults  application.EncodeOptions
	logger    application.Logger
}

// NewServer создает веб-интерфейс
func NewServer(scanner Scanner, generator *application.Generator, hub *streaming.PreviewHub, notifier *Notifier, defaults application.EncodeOptions, logger application.Logger) *Server {
	return &Server{
		scanner:   scanner,
		generator: generator,
		hub:       hub,
		notifier:  notifier,
		defaults:  defaults,
		logger:    logger,
	}
}

// Routes возвращает обработчик со всеми маршрутами
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Handle("/ws", s.hub)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))
		r.Get("/state", s.handleState)
		r.Post("/start", s.handleCommand(s.scanner.Start))
		r.Post("/rescan", s.handleCommand(s.scanner.Rescan))
		r.Post("/stop", s.handleCommand(func() error {
			s.scanner.Stop()
			return nil
		}))
		r.Post("/generate", s.handleGenerate)
	})

	return r
}

// Run запускает HTTP-сервер и планировщик тиков до отмены контекста
func (s *Server) Run(ctx context.Context, addr string, ticker *application.Ticker) error {
	srv := &http.Server{
		Addr:        addr,
		Handler:     s.Routes(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go ticker.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Запуск сервера на %s", addr)
		s.logger.Info("Предпросмотр доступен по адресу http://%s/", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Остановка сервера...")
	s.hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type stateResponse struct {
	Session string `json:"session"`
	State   string `json:"state"`
	Result  string `json:"result,omitempty"`
}

func (s *Server) currentState() stateResponse {
	resp := stateResponse{
		Session: s.scanner.ID(),
		State:   s.scanner.State().String(),
	}
	if text, ok := s.scanner.Result(); ok {
		resp.Result = text
	}
	return resp
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.currentState())
}

// handleCommand выполняет команду сессии и возвращает новое состояние
func (s *Server) handleCommand(cmd func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := cmd()
		state := s.scanner.State()
		s.notifier.OnState(state)

		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, domain.ErrDeviceUnavailable) {
				status = http.StatusServiceUnavailable
			}
			writeJSON(w, status, map[string]string{
				"state": state.String(),
				"kind":  domain.KindOf(err).String(),
				"error": err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, s.currentState())
	}
}

type generateRequest struct {
	Text    string `json:"text"`
	BoxSize int    `json:"boxSize"`
	Border  *int   `json:"border"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	opts := s.defaults
	if req.BoxSize > 0 {
		opts.BoxSize = req.BoxSize
	}
	if req.Border != nil {
		opts.Border = *req.Border
	}

	png, err := s.generator.Generate(req.Text, opts)
	if err != nil {
		if errors.Is(err, domain.ErrEncoding) {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"kind":  domain.KindEncoding.String(),
				"error": err.Error(),
			})
			return
		}
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `inline; filename="qrcode.png"`)
	w.Write(png)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexPage))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
