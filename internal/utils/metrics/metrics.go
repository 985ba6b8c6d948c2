package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Auth-flow counters. Labels carry the outcome so dashboards can slice
// rejections by cause without a cardinality explosion.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "auth_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "path"},
	)

	OtpSendTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_otp_send_total",
			Help: "OTP send attempts by outcome",
		},
		[]string{"outcome"},
	)

	OtpVerifyTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_otp_verify_total",
			Help: "OTP verification attempts by outcome",
		},
		[]string{"outcome"},
	)

	TokenRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_token_refresh_total",
			Help: "Refresh token exchanges by outcome",
		},
		[]string{"outcome"},
	)

	SignoutTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_signout_total",
			Help: "Total number of signouts",
		},
	)
)
