// Package httpapi exposes the analysis engine over HTTP. Endpoints mirror
// the scanner frontends: /analyze for messages, /vault-analyze for
// entropy-only file checks, /scan-file for signature scans.
package httpapi

import (
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ishusharma9096/Suraksha-AI/internal/core"
)

// Server serves the scanning API over HTTP
type Server struct {
	app        *fiber.App
	service    *core.AnalysisService
	logger     *zap.Logger
	listenAddr string
}

// analyzeRequest is the JSON body accepted by POST /analyze
type analyzeRequest struct {
	Message  string `json:"message"`
	Language string `json:"language"`
}

// NewServer creates the HTTP transport around the analysis service
func NewServer(service *core.AnalysisService, logger *zap.Logger, listenAddr string, maxUploadSize int) *Server {
	app := fiber.New(fiber.Config{
		AppName:   "Suraksha-AI",
		BodyLimit: maxUploadSize,
	})

	s := &Server{
		app:        app,
		service:    service,
		logger:     logger,
		listenAddr: listenAddr,
	}

	app.Use(s.requestLogger)

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Suraksha-AI backend is running")
	})

	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Post("/analyze", s.handleAnalyze)
	app.Post("/vault-analyze", s.handleVaultAnalyze)
	app.Post("/scan-file", s.handleScanFile)

	return s
}

// Start starts the HTTP listener
func (s *Server) Start() error {
	s.logger.Info("HTTP server starting", zap.String("address", s.listenAddr))

	go func() {
		if err := s.app.Listen(s.listenAddr); err != nil {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop shuts the HTTP listener down
func (s *Server) Stop() error {
	return s.app.Shutdown()
}

// requestLogger tags every request with an id and logs the outcome
func (s *Server) requestLogger(c fiber.Ctx) error {
	requestID := uuid.NewString()
	c.Locals("request_id", requestID)

	start := time.Now()
	err := c.Next()

	s.logger.Info("Handled request",
		zap.String("request_id", requestID),
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Duration("duration", time.Since(start)),
		zap.Error(err))

	return err
}

func (s *Server) handleAnalyze(c fiber.Ctx) error {
	var req analyzeRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	result, err := s.service.AnalyzeMessage(c.Context(), core.Message{
		Body:     req.Message,
		Language: req.Language,
	})
	if err != nil {
		if errors.Is(err, core.ErrEmptyMessage) {
			return c.Status(400).JSON(fiber.Map{"error": "Message is required"})
		}
		s.logger.Error("Message analysis failed",
			zap.String("request_id", requestID(c)),
			zap.Error(err))
		return c.Status(502).JSON(fiber.Map{"error": "analysis failed"})
	}

	return c.JSON(result)
}

func (s *Server) handleVaultAnalyze(c fiber.Ctx) error {
	filename, data, err := s.uploadedFile(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "No file received"})
	}

	result, err := s.service.AnalyzeVaultFile(c.Context(), filename, data, c.FormValue("language"))
	if err != nil {
		if errors.Is(err, core.ErrNoFile) {
			return c.Status(400).JSON(fiber.Map{"error": "No file received"})
		}
		s.logger.Error("Vault analysis failed",
			zap.String("request_id", requestID(c)),
			zap.Error(err))
		return c.Status(502).JSON(fiber.Map{"error": "analysis failed"})
	}

	return c.JSON(result)
}

func (s *Server) handleScanFile(c fiber.Ctx) error {
	filename, data, err := s.uploadedFile(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "No file uploaded"})
	}

	result, err := s.service.ScanFile(c.Context(), filename, data, c.FormValue("language"))
	if err != nil {
		if errors.Is(err, core.ErrNoFile) {
			return c.Status(400).JSON(fiber.Map{"error": "No file uploaded"})
		}
		s.logger.Error("File scan failed",
			zap.String("request_id", requestID(c)),
			zap.Error(err))
		return c.Status(502).JSON(fiber.Map{"error": "analysis failed"})
	}

	return c.JSON(result)
}

// uploadedFile reads the multipart "file" field into memory. Uploads are
// already bounded by the server body limit.
func (s *Server) uploadedFile(c fiber.Ctx) (string, []byte, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return "", nil, err
	}

	f, err := fh.Open()
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, err
	}

	return fh.Filename, data, nil
}

func requestID(c fiber.Ctx) string {
	if id, ok := c.Locals("request_id").(string); ok {
		return id
	}
	return ""
}
