package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	otpIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otp_codes_issued_total",
			Help: "One-time codes persisted, partitioned by purpose and whether the email went out",
		},
		[]string{"purpose", "email_sent"},
	)

	otpVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otp_verifications_total",
			Help: "One-time code verification attempts by purpose and outcome",
		},
		[]string{"purpose", "result"},
	)

	notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Outbound notifications by channel and outcome",
		},
		[]string{"channel", "result"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2, 5},
		},
		[]string{"method", "route", "status"},
	)
)

func OTPIssued(purpose string, emailSent bool) {
	otpIssued.WithLabelValues(purpose, strconv.FormatBool(emailSent)).Inc()
}

func OTPVerified(purpose string, ok bool) {
	result := "rejected"
	if ok {
		result = "accepted"
	}
	otpVerifications.WithLabelValues(purpose, result).Inc()
}

func Notification(channel string, err error) {
	result := "sent"
	if err != nil {
		result = "failed"
	}
	notifications.WithLabelValues(channel, result).Inc()
}

func ObserveHTTPRequest(method, route string, status int, seconds float64) {
	httpRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(seconds)
}
