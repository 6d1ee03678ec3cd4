package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/skillmatch/core"
	"github.com/poiesic/skillmatch/index"
	"github.com/poiesic/skillmatch/indexer"
	"github.com/poiesic/skillmatch/ingestion"
)

const (
	// DefaultTopK is the result count used when a search has no top_k.
	DefaultTopK = 10

	// DefaultMaxUploadSize bounds the size of an uploaded resume.
	DefaultMaxUploadSize = 1 << 20
)

// Service is the matching service the handlers drive.
type Service interface {
	Ingest(ctx context.Context, content string) (*ingestion.IngestResult, error)
	ExtractFields(ctx context.Context) (*ingestion.Result, error)
	ExtractKeySkills(ctx context.Context) (*ingestion.Result, error)
	BuildIndex(ctx context.Context) (*indexer.Result, error)
	FindMatches(ctx context.Context, query string, topK int) ([]core.Match, error)
	IndexStats() index.Stats
}

// Server serves Service over HTTP.
type Server struct {
	service       Service
	router        *gin.Engine
	defaultTopK   int
	maxUploadSize int64
	logger        *slog.Logger
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithDefaultTopK sets the result count used when a search has no top_k.
func WithDefaultTopK(topK int) Option {
	return func(s *Server) error {
		if topK < 1 {
			return ErrInvalidTopK
		}
		s.defaultTopK = topK
		return nil
	}
}

// WithMaxUploadSize bounds the size of an uploaded resume in bytes.
func WithMaxUploadSize(size int64) Option {
	return func(s *Server) error {
		if size < 1 {
			return fmt.Errorf("max upload size must be positive, got %d", size)
		}
		s.maxUploadSize = size
		return nil
	}
}

// New creates a server with its routes registered.
func New(service Service, opts ...Option) (*Server, error) {
	if service == nil {
		return nil, ErrServiceRequired
	}

	s := &Server{
		service:       service,
		defaultTopK:   DefaultTopK,
		maxUploadSize: DefaultMaxUploadSize,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "server")

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(s.logger))

	router.POST("/upload-resume", s.uploadResume)
	router.POST("/extract-fields", s.extractFields)
	router.POST("/extract-key-skills", s.extractKeySkills)
	router.POST("/build-index", s.buildIndex)
	router.GET("/search", s.search)
	router.GET("/index", s.indexStats)
	s.router = router

	return s, nil
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
		)
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Request.URL.Path, "err", err)
	}
	c.JSON(status, gin.H{"message": err.Error()})
}

func (s *Server) uploadResume(c *gin.Context) {
	content, err := s.readUpload(c)
	if err != nil {
		s.fail(c, err)
		return
	}

	res, err := s.service.Ingest(c.Request.Context(), content)
	if err != nil {
		s.fail(c, err)
		return
	}

	message := "Resume uploaded and processed"
	if res.Duplicate {
		message = "Resume already uploaded"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "id": res.Resume.Id, "duplicate": res.Duplicate})
}

// readUpload returns the resume text from a multipart "file" field, or from
// the raw body when the request is not multipart.
func (s *Server) readUpload(c *gin.Context) (string, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUploadSize)

	var r io.Reader = c.Request.Body
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile("file")
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrUnsupportedUpload, err)
		}
		switch strings.ToLower(filepath.Ext(header.Filename)) {
		case "", ".txt", ".text", ".md":
		default:
			return "", fmt.Errorf("%w: %s", ErrUnsupportedUpload, header.Filename)
		}
		f, err := header.Open()
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return "", fmt.Errorf("%w: larger than %d bytes", ErrUnsupportedUpload, tooBig.Limit)
		}
		return "", err
	}
	return string(data), nil
}

func (s *Server) extractFields(c *gin.Context) {
	result, err := s.service.ExtractFields(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Field extraction completed", "saved": result.Saved, "skipped": result.Skipped})
}

func (s *Server) extractKeySkills(c *gin.Context) {
	result, err := s.service.ExtractKeySkills(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Key skills extraction completed", "saved": result.Saved, "failed": result.Failed})
}

func (s *Server) buildIndex(c *gin.Context) {
	result, err := s.service.BuildIndex(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Index built with %d profiles", result.Indexed)})
}

func (s *Server) search(c *gin.Context) {
	topK := s.defaultTopK
	if raw := c.Query("top_k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.fail(c, ErrInvalidTopK)
			return
		}
		topK = n
	}

	matches, err := s.service.FindMatches(c.Request.Context(), c.Query("query"), topK)
	if err != nil {
		s.fail(c, err)
		return
	}
	if matches == nil {
		matches = []core.Match{}
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

func (s *Server) indexStats(c *gin.Context) {
	stats := s.service.IndexStats()
	body := gin.H{"built": stats.Built, "size": stats.Size, "dimension": stats.Dimension}
	if stats.Built {
		body["built_at"] = stats.BuiltAt
	}
	c.JSON(http.StatusOK, body)
}
