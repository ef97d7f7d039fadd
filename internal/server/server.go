// Package server exposes the command dispatcher over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"jobber/internal/command"
	"jobber/internal/models"
	"jobber/internal/scraper"
	"jobber/internal/tailor"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Executor interface {
	Execute(ctx context.Context, name, arg string) (*command.Result, error)
	TailorRequest(ctx context.Context, req tailor.Request) (*command.Result, error)
}

type RunLister interface {
	ListRuns(ctx context.Context, limit int) ([]models.Run, error)
}

type Server struct {
	exec Executor
	runs RunLister
	log  *logrus.Entry
}

func New(exec Executor, runs RunLister, log *logrus.Entry) *Server {
	return &Server{exec: exec, runs: runs, log: log}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/", s.health)
	r.POST("/scrape", s.scrape)
	r.POST("/tailor", s.tailor)
	r.POST("/commands/:name", s.command)
	r.GET("/runs", s.listRuns)
	return r
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Router()}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("🌐 Server listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info("🛑 Shutting down server")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Debug("request")
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "jobber API is running!",
		"status":  "healthy",
	})
}

type scrapeRequest struct {
	URL string `json:"url" binding:"required"`
}

func (s *Server) scrape(c *gin.Context) {
	var req scrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := s.exec.Execute(c.Request.Context(), string(command.Scrape), req.URL)
	if err != nil {
		body := gin.H{"error": err.Error()}
		if res != nil && res.Posting != nil {
			body["posting"] = res.Posting
		}
		c.JSON(statusFor(err), body)
		return
	}
	c.JSON(http.StatusOK, res.Posting)
}

type tailorRequest struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

func (s *Server) tailor(c *gin.Context) {
	var req tailorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := s.exec.TailorRequest(c.Request.Context(), tailor.Request{URL: req.URL, Description: req.Description})
	if err != nil {
		body := gin.H{"error": err.Error()}
		if res != nil && res.Run != nil {
			body["run"] = res.Run
		}
		c.JSON(statusFor(err), body)
		return
	}
	c.JSON(http.StatusOK, res.Run)
}

type commandRequest struct {
	Arg string `json:"arg"`
}

func (s *Server) command(c *gin.Context) {
	var req commandRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	res, err := s.exec.Execute(c.Request.Context(), c.Param("name"), req.Arg)
	if err != nil {
		body := gin.H{"error": err.Error()}
		if res != nil {
			body["result"] = res
		}
		c.JSON(statusFor(err), body)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) listRuns(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	runs, err := s.runs.ListRuns(c.Request.Context(), limit)
	if err != nil {
		s.log.Errorf("❌ Failed to list runs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list runs"})
		return
	}
	if runs == nil {
		runs = []models.Run{}
	}
	c.JSON(http.StatusOK, runs)
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, command.ErrUnsupportedCommand),
		errors.Is(err, command.ErrMissingArgument),
		errors.Is(err, tailor.ErrNoInput):
		return http.StatusBadRequest
	case errors.Is(err, scraper.ErrRetriesExhausted),
		errors.Is(err, scraper.ErrNoSelectorSet):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}
