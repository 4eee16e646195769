package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	lg "github.com/Andrej220/go-utils/zlog"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	ff "github.com/Andrej220/go-utils/fastflow"
	"github.com/Andrej220/go-utils/fastflow/config"
	"github.com/Andrej220/go-utils/fastflow/metrics"
	"github.com/Andrej220/go-utils/fastflow/montecarlo"
	"github.com/Andrej220/go-utils/fastflow/retry"
	"github.com/Andrej220/go-utils/fastflow/sink"
	"github.com/Andrej220/go-utils/fastflow/wordcount"
)

const (
	defaultPiSamples         = 100_000
	defaultParallelPiSamples = 2_000_000
	maxPiWorkers             = 128
	piSeed                   = 42
	requestTimeout           = 30 * time.Second
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the job and metrics HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().String("addr", config.Default().Server.Addr, "Listen address")
	if err := config.BindFlag(a.v, "server.addr", cmd.Flags(), "addr"); err != nil {
		panic(err)
	}
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.cfg.Server.Addr, err)
	}
	return a.runServer(ctx, newSink(a.cfg.Sink), ln)
}

// runServer serves the API on ln until ctx ends. Teardown runs in the
// reverse order of setup: the HTTP server stops first, then the executor
// finishes its running jobs, and only then is the sink closed.
func (a *app) runServer(ctx context.Context, snk sink.Sink, ln net.Listener) error {
	logger := lg.FromContext(ctx)

	if err := snk.Connect(ctx); err != nil {
		ln.Close()
		return err
	}
	defer snk.Close()

	reg := prometheus.NewRegistry()
	pm := metrics.NewPoolMetrics(reg)
	reg.MustRegister(metrics.Default)

	e, err := a.executor(ctx, pm)
	if err != nil {
		ln.Close()
		return err
	}
	defer e.MustShutdown()

	srv := &http.Server{
		Handler:           newServer(e, snk, a.cfg, reg).routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", lg.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	logger.Info("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func newSink(c config.SinkConfig) sink.Sink {
	if c.Kind == config.SinkNATS {
		return sink.NewNATS(sink.NATSConfig{URL: c.URL, Name: "fastflow", Prefix: c.Prefix})
	}
	return sink.NewStub(c.URL)
}

type server struct {
	sub     ff.Submitter
	sink    sink.Sink
	cfg     config.Config
	reg     *prometheus.Registry
	started time.Time
}

func newServer(sub ff.Submitter, snk sink.Sink, cfg config.Config, reg *prometheus.Registry) *server {
	return &server{sub: sub, sink: snk, cfg: cfg, reg: reg, started: time.Now()}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", metrics.Handler(metrics.NewExporter(metrics.Default)))
	mux.Handle("GET /metrics/pool", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("POST /submit", s.handleSubmit)
	mux.HandleFunc("POST /wordcount", s.handleWordcount)
	mux.HandleFunc("GET /pi", s.handlePi)
	mux.HandleFunc("GET /pi/parallel", s.handlePiParallel)
	return mux
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"uptime_seconds": int(time.Since(s.started).Seconds()),
	})
}

type job struct {
	ID      string `json:"id"`
	Payload string `json:"payload"`
}

// handleSubmit queues a job whose body publishes the payload to the sink
// with retries, then counts it as completed.
func (s *server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var j job
	if err := json.NewDecoder(r.Body).Decode(&j); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode job: %w", err))
		return
	}
	if j.ID == "" {
		j.ID = uuid.NewString()
	}

	logger := lg.FromContext(r.Context()).With(lg.String("job", j.ID))
	dest := s.cfg.Sink.Destination
	s.sub.Submit(retry.Task(func() error {
		if err := s.sink.Publish(context.Background(), dest, j.Payload); err != nil {
			return err
		}
		metrics.IncTasks(1)
		return nil
	}, s.cfg.Retry.Attempts, s.cfg.Retry.Backoff, func(err error) {
		logger.Error("job failed", lg.Any("error", err))
	}))

	writeJSON(w, http.StatusAccepted, map[string]any{
		"accepted": true,
		"id":       j.ID,
		"message":  "Job " + j.ID + " queued",
	})
}

func (s *server) handleWordcount(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode body: %w", err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	counts, err := wordcount.CountParallel(ctx, s.sub, strings.Split(body.Text, "\n"), metrics.Default)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}

	top := wordcount.Top(counts, 10)
	pairs := make([][2]any, len(top))
	for i, wc := range top {
		pairs[i] = [2]any{wc.Word, wc.Count}
	}
	writeJSON(w, http.StatusOK, map[string]any{"unique": len(counts), "top": pairs})
}

// handlePi estimates pi on the request goroutine with a fixed seed.
func (s *server) handlePi(w http.ResponseWriter, r *http.Request) {
	n, err := queryInt(r, "n", defaultPiSamples)
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, errors.New("n must be a positive integer"))
		return
	}

	start := time.Now()
	res := montecarlo.Estimate(n, piSeed)
	writeJSON(w, http.StatusOK, map[string]any{
		"method":      "monte_carlo_single",
		"samples":     res.Samples,
		"pi_estimate": res.Estimate,
		"abs_error":   res.AbsError,
		"elapsed_sec": seconds(time.Since(start)),
	})
}

// handlePiParallel splits the samples into one task per worker and runs
// them on the pool.
func (s *server) handlePiParallel(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	n, err := queryInt(r, "n", defaultParallelPiSamples)
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, errors.New("n must be a positive integer"))
		return
	}
	workers, err := queryInt(r, "workers", min(runtime.NumCPU(), maxPiWorkers))
	if err != nil || workers < 1 || workers > maxPiWorkers {
		writeError(w, http.StatusBadRequest, fmt.Errorf("workers must be between 1 and %d", maxPiWorkers))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	computeStart := time.Now()
	res, err := montecarlo.EstimateParallel(ctx, s.sub, n, workers)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	compute := time.Since(computeStart)

	writeJSON(w, http.StatusOK, map[string]any{
		"method":              "monte_carlo_parallel",
		"samples":             res.Samples,
		"workers":             res.Parts,
		"pi_estimate":         res.Estimate,
		"abs_error":           res.AbsError,
		"elapsed_sec_total":   seconds(time.Since(start)),
		"elapsed_sec_compute": seconds(compute),
		"per_worker_samples":  res.PerPartSamples,
	})
}

// seconds rounds d to microseconds.
func seconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*1e6) / 1e6
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
