// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	triggerCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "autodeploy_trigger_count_total",
		Help: "How many triggers were received, partitioned by source and outcome (accepted, rejected)",
	}, []string{"source", "outcome"})

	deploymentCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "autodeploy_deployment_count_total",
		Help: "How many deployment chains finished, partitioned by status (success, error)",
	}, []string{"status"})

	stepDuration = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name: "autodeploy_step_duration_seconds",
		Help: "Duration of clone, checkout, pull and deploy steps, partitioned by step and status",
	}, []string{"step", "status"})

	notificationDropCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "autodeploy_notification_drop_count_total",
		Help: "How many notifications were not delivered, partitioned by sink and reason",
	}, []string{"sink", "reason"})
)

func init() {
	prometheus.MustRegister(triggerCount)
	prometheus.MustRegister(deploymentCount)
	prometheus.MustRegister(stepDuration)
	prometheus.MustRegister(notificationDropCount)
}

// Trigger counts one inbound trigger
func Trigger(source, outcome string) {
	triggerCount.WithLabelValues(source, outcome).Inc()
}

// Deployment counts one finished deployment chain
func Deployment(err error) {
	deploymentCount.WithLabelValues(status(err)).Inc()
}

// ObserveStep records how long step took since start
func ObserveStep(step string, start time.Time, err error) {
	stepDuration.WithLabelValues(step, status(err)).Observe(time.Since(start).Seconds())
}

// NotificationDropped counts one message a sink could not deliver
func NotificationDropped(sink, reason string) {
	notificationDropCount.WithLabelValues(sink, reason).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
