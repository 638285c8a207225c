package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rcb_uploads_total",
		Help: "Upload requests by outcome.",
	}, []string{"outcome"})

	uploadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rcb_upload_duration_seconds",
		Help:    "End-to-end upload pipeline duration.",
		Buckets: prometheus.DefBuckets,
	})

	transcodedBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rcb_transcoded_bytes_total",
		Help: "Total bytes of transcoded artifacts written to storage.",
	})
)

// Register attaches the Prometheus metrics endpoint to the router.
func Register(router *gin.Engine, path string) {
	router.GET(path, gin.WrapH(promhttp.Handler()))
}

// ObserveUpload records one finished upload attempt.
func ObserveUpload(outcome string, elapsed time.Duration, storedBytes int64) {
	uploadsTotal.WithLabelValues(outcome).Inc()
	uploadDuration.Observe(elapsed.Seconds())
	if storedBytes > 0 {
		transcodedBytes.Add(float64(storedBytes))
	}
}
