package service

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var TaskOperations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "task_operations_total",
		Help: "Task operations by name and outcome",
	},
	[]string{"operation", "result"},
)

func init() {
	prometheus.MustRegister(TaskOperations)
}

func observe(op string, err error) {
	result := "ok"
	switch {
	case errors.Is(err, ErrTaskNotFound):
		result = "not_found"
	case err != nil:
		result = "error"
	}
	TaskOperations.WithLabelValues(op, result).Inc()
}
