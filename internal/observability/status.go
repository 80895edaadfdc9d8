package observability

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const component = "cdrdecode-status"

// Progress tracks files through a run. It is safe for concurrent use.
type Progress struct {
	started time.Time
	total   atomic.Int64
	done    atomic.Int64
	failed  atomic.Int64
	records atomic.Int64
}

func NewProgress() *Progress {
	return &Progress{started: time.Now()}
}

func (p *Progress) SetTotal(n int) { p.total.Store(int64(n)) }

// FileDone marks one file finished with the number of records it produced.
func (p *Progress) FileDone(ok bool, records int) {
	p.done.Add(1)
	if !ok {
		p.failed.Add(1)
	}
	p.records.Add(int64(records))
}

type ProgressSnapshot struct {
	Total   int64  `json:"total"`
	Done    int64  `json:"done"`
	Failed  int64  `json:"failed"`
	Records int64  `json:"records"`
	Uptime  string `json:"uptime"`
}

func (p *Progress) Snapshot() ProgressSnapshot {
	return ProgressSnapshot{
		Total:   p.total.Load(),
		Done:    p.done.Load(),
		Failed:  p.failed.Load(),
		Records: p.records.Load(),
		Uptime:  time.Since(p.started).Truncate(time.Millisecond).String(),
	}
}

// StatusServer exposes health, progress and metrics while a run is going.
type StatusServer struct {
	Addr     string
	router   *gin.Engine
	progress *Progress
}

func NewStatusServer(addr string, corsOrigins []string, progress *Progress) *StatusServer {
	RegisterMetrics()
	if progress == nil {
		progress = NewProgress()
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log.Logger))
	r.Use(RequestMetricsMiddleware(component))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(corsOrigins),
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &StatusServer{Addr: addr, router: r, progress: progress}
	s.registerRoutes()
	return s
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}

func (s *StatusServer) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"uptime":    s.progress.Snapshot().Uptime,
			"component": component,
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/ready", func(c *gin.Context) {
		snap := s.progress.Snapshot()
		c.JSON(http.StatusOK, gin.H{
			"ready":     true,
			"component": component,
			"progress":  snap,
			"complete":  snap.Total > 0 && snap.Done >= snap.Total,
		})
	})
}

func (s *StatusServer) Handler() http.Handler { return s.router }

// Serve listens on Addr until ctx is cancelled.
func (s *StatusServer) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.Addr).Msg("observability.StatusServer listening")
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	}
}
