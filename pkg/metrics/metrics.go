package metrics

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// FilesConverted counts documents written to the output tree
	FilesConverted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "opencc_files_converted_total",
		Help: "Total number of documents converted, by preset",
	}, []string{"preset"})

	// FilesSkipped counts documents whose current content was already converted
	FilesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "opencc_files_skipped_total",
		Help: "Total number of documents skipped because they were already converted",
	})

	// Failures counts failed conversion jobs by stage
	Failures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "opencc_failures_total",
		Help: "Total number of failed conversion jobs by stage",
	}, []string{"stage"})

	// BytesConverted counts UTF-8 input bytes passed through the converter
	BytesConverted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "opencc_input_bytes_total",
		Help: "Total number of UTF-8 input bytes converted",
	})

	// ConvertDuration observes the time spent converting one document
	ConvertDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "opencc_convert_duration_seconds",
		Help:    "Time spent converting one document",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
	})

	// PendingJobs reports scheduled but not yet started jobs
	PendingJobs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "opencc_pending_jobs",
		Help: "Number of scheduled conversion jobs waiting to run",
	})
)

// Serve 在 addr 上暴露 /metrics，直到 ctx 结束
func Serve(ctx context.Context, addr string, logger *log.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Printf("Serving metrics on %s/metrics", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
