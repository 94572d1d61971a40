// Package httpapi serves the tools over HTTP.
package httpapi

import (
	"context"
	"io"
	"net/http"
	"time"

	size "github.com/gin-contrib/size"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/askiada/camp-builder/internal/tools"
)

// DefaultRequestSizeLimit bounds the body of a tool call.
const DefaultRequestSizeLimit int64 = 1 << 20

const shutdownTimeout = 5 * time.Second

// Server is the HTTP transport of the dispatcher.
type Server struct {
	dispatcher       *tools.Dispatcher
	logger           *zap.Logger
	addr             string
	requestSizeLimit int64
	router           *gin.Engine
}

// Option configures a Server.
type Option func(s *Server)

// WithAddress sets the listen address in host:port form.
func WithAddress(addr string) Option {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithRequestSizeLimit sets the maximum body size in bytes.
func WithRequestSizeLimit(limit int64) Option {
	return func(s *Server) {
		if limit > 0 {
			s.requestSizeLimit = limit
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates the server and its routes.
func New(dispatcher *tools.Dispatcher, opts ...Option) *Server {
	srv := &Server{
		dispatcher:       dispatcher,
		logger:           zap.NewNop(),
		requestSizeLimit: DefaultRequestSizeLimit,
	}

	for _, opt := range opts {
		opt(srv)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(srv.logger))
	router.Use(size.RequestSizeLimiter(srv.requestSizeLimit))

	router.GET("/healthz", srv.health)
	router.GET("/tools", srv.listTools)
	router.POST("/tools/:name", srv.callTool)
	router.GET("/metrics", gin.WrapH(dispatcher.Metrics().Handler()))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found: " + c.Request.Method + " " + c.Request.URL.Path})
	})

	srv.router = router

	return srv
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve listens until ctx is done, then shuts the server down.
func (s *Server) Serve(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving HTTP", zap.String("addr", s.addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "http server stopped")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := httpServer.Shutdown(shutdownCtx)
	if err != nil {
		return errors.Wrap(err, "unable to shut http server down")
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "http server stopped")
	}

	return nil
}

type toolItem struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

type listToolsResponse struct {
	Items []toolItem `json:"items"`
}

type callToolResponse struct {
	Text string `json:"text"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listTools(c *gin.Context) {
	res := listToolsResponse{Items: []toolItem{}}

	for _, tool := range s.dispatcher.Tools() {
		res.Items = append(res.Items, toolItem{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.InputSchema(),
		})
	}

	c.JSON(http.StatusOK, res)
}

func (s *Server) callTool(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if c.IsAborted() {
		return
	}

	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read body: " + err.Error()})

		return
	}

	text, err := s.dispatcher.Call(c.Request.Context(), c.Param("name"), body)
	if err != nil {
		c.JSON(statusOf(err), gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, callToolResponse{Text: text})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, tools.ErrUnknownTool):
		return http.StatusNotFound
	case tools.IsContractViolation(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
