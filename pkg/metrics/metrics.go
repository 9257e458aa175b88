package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shouni/gemini-brand-kit/pkg/generator"
)

const namespace = "brandkit"

// GenerationMetrics は生成呼び出しの件数と所要時間を Prometheus に記録します。
// generator.Recorder を満たします。
type GenerationMetrics struct {
	completed *prometheus.CounterVec
	failed    *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewGenerationMetrics はメトリクスを reg に登録して生成します。
// reg が nil の場合は prometheus.DefaultRegisterer を使います。
func NewGenerationMetrics(reg prometheus.Registerer) *GenerationMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &GenerationMetrics{
		completed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generations_completed_total",
				Help:      "Total number of successful generation calls",
			},
			[]string{"operation"},
		),
		failed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generations_failed_total",
				Help:      "Total number of failed generation calls by failure kind",
			},
			[]string{"operation", "kind"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "generation_duration_seconds",
				Help:      "Duration of generation calls in seconds, including retries",
				Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
			},
			[]string{"operation"},
		),
	}
}

// ObserveGeneration は 1 回の生成呼び出しの結果を記録します。
func (m *GenerationMetrics) ObserveGeneration(operation string, kind generator.FailureKind, elapsed time.Duration) {
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
	if kind == "" {
		m.completed.WithLabelValues(operation).Inc()
		return
	}
	m.failed.WithLabelValues(operation, string(kind)).Inc()
}

var _ generator.Recorder = (*GenerationMetrics)(nil)
