package comments

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "socialite",
			Subsystem: "comments",
			Name:      "operations_total",
			Help:      "Comment operations by name and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	treeCorruptionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "socialite",
			Subsystem: "comments",
			Name:      "tree_corruption_total",
			Help:      "Comment tree nodes that could not be expanded while materializing.",
		},
		[]string{"reason"},
	)

	treeBuildSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "socialite",
			Subsystem: "comments",
			Name:      "tree_build_seconds",
			Help:      "Time to materialize a page of comment threads.",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

const (
	corruptionTooDeep       = "children_beyond_max_depth"
	corruptionDepthMismatch = "depth_mismatch"
	corruptionCycle         = "cycle"
)

func observe(operation string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case IsNotFound(err):
		outcome = "not_found"
	case IsValidationError(err), IsDepthExceeded(err):
		outcome = "invalid"
	case IsForbidden(err), errors.Is(err, ErrUnauthenticated):
		outcome = "forbidden"
	case IsTimeout(err):
		outcome = "timeout"
	default:
		outcome = "error"
	}
	operationsTotal.WithLabelValues(operation, outcome).Inc()
}
