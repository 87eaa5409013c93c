// Package metrics exposes the Prometheus collectors of the server.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration observes request latencies per method, route and
	// status code.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "campushub_http_request_duration_seconds",
		Help:    "Duration of HTTP requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// RegistrationsTotal counts event registration attempts by outcome
	// (registered, unregistered, at_capacity, duplicate, not_found).
	RegistrationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campushub_registrations_total",
		Help: "Event registration attempts by outcome.",
	}, []string{"outcome"})

	// MailsTotal counts transactional mails by kind and result.
	MailsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campushub_mails_total",
		Help: "Transactional mails by kind and result.",
	}, []string{"kind", "result"})
)

// Middleware records the duration of every request. Unmatched routes are
// labelled as such to keep the cardinality bounded.
func Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}

		HTTPRequestDuration.WithLabelValues(
			ctx.Request.Method,
			route,
			strconv.Itoa(ctx.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}

// CountMail records a mail send attempt.
func CountMail(kind string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	MailsTotal.WithLabelValues(kind, result).Inc()
}
