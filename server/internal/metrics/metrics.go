package metrics

import (
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"
)

const namespace = "housepredict_"

// Metric family names.
const (
	NameHTTPRequests       = namespace + "http_requests_total"
	NamePredictions        = namespace + "predictions_total"
	NamePredictionErrors   = namespace + "prediction_errors_total"
	NamePredictionDuration = namespace + "prediction_duration_seconds"
	NameArtifactChanges    = namespace + "artifact_changes_total"
	NameArtifactsLoaded    = namespace + "artifacts_loaded_timestamp_seconds"
)

// Outcome labels for NamePredictions.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics holds every counter the server exports.
type Metrics struct {
	mu              sync.Mutex
	httpRequests    map[[2]string]uint64 // route, code
	predictions     map[string]uint64    // outcome
	failures        map[string]uint64    // stage
	durationCount   uint64
	durationSum     float64
	artifactChanges map[[2]string]uint64 // artifact, valid
	loadedAt        time.Time
}

// New returns an empty Metrics.
func New() *Metrics {
	return &Metrics{
		httpRequests:    make(map[[2]string]uint64),
		predictions:     make(map[string]uint64),
		failures:        make(map[string]uint64),
		artifactChanges: make(map[[2]string]uint64),
	}
}

// ObserveRequest counts one HTTP request by route and status code.
func (m *Metrics) ObserveRequest(route string, code int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.httpRequests[[2]string{route, strconv.Itoa(code)}]++
}

// ObservePrediction records the outcome and duration of one prediction.
// stage is the failure stage and is ignored on success.
func (m *Metrics) ObservePrediction(ok bool, stage string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ok {
		m.predictions[OutcomeSuccess]++
	} else {
		m.predictions[OutcomeError]++
		if stage == "" {
			stage = "unknown"
		}
		m.failures[stage]++
	}
	m.durationCount++
	m.durationSum += d.Seconds()
}

// ObserveArtifactChange counts one on-disk change of an artifact file.
func (m *Metrics) ObserveArtifactChange(artifact string, valid bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.artifactChanges[[2]string{artifact, strconv.FormatBool(valid)}]++
}

// SetArtifactsLoaded records when the serving artifacts were loaded.
func (m *Metrics) SetArtifactsLoaded(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadedAt = t
}

// Gather returns all metric families sorted by name. Label sets within a
// family are sorted too, so the output is stable.
func (m *Metrics) Gather() []*dto.MetricFamily {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*dto.MetricFamily

	out = append(out, counterFamily(NameHTTPRequests,
		"HTTP requests by route and status code.",
		pairCounters(m.httpRequests, "route", "code")))

	out = append(out, counterFamily(NamePredictions,
		"Predictions by outcome.",
		singleCounters(m.predictions, "outcome")))

	out = append(out, counterFamily(NamePredictionErrors,
		"Failed predictions by failing stage.",
		singleCounters(m.failures, "stage")))

	out = append(out, &dto.MetricFamily{
		Name: proto.String(NamePredictionDuration),
		Help: proto.String("Time spent in the feature transform and model call."),
		Type: dto.MetricType_SUMMARY.Enum(),
		Metric: []*dto.Metric{{
			Summary: &dto.Summary{
				SampleCount: proto.Uint64(m.durationCount),
				SampleSum:   proto.Float64(m.durationSum),
			},
		}},
	})

	out = append(out, counterFamily(NameArtifactChanges,
		"On-disk changes to artifact files seen since start.",
		pairCounters(m.artifactChanges, "artifact", "valid")))

	var loaded float64
	if !m.loadedAt.IsZero() {
		loaded = float64(m.loadedAt.UnixNano()) / 1e9
	}
	out = append(out, &dto.MetricFamily{
		Name:   proto.String(NameArtifactsLoaded),
		Help:   proto.String("Unix time the serving artifacts were loaded."),
		Type:   dto.MetricType_GAUGE.Enum(),
		Metric: []*dto.Metric{{Gauge: &dto.Gauge{Value: proto.Float64(loaded)}}},
	})

	// The text encoder rejects families without samples.
	nonEmpty := out[:0]
	for _, mf := range out {
		if len(mf.GetMetric()) > 0 {
			nonEmpty = append(nonEmpty, mf)
		}
	}
	sort.Slice(nonEmpty, func(i, j int) bool { return nonEmpty[i].GetName() < nonEmpty[j].GetName() })
	return nonEmpty
}

// WriteText encodes all families to w in the text exposition format.
func (m *Metrics) WriteText(w io.Writer) error {
	enc := expfmt.NewEncoder(w, textFormat)
	for _, mf := range m.Gather() {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}

// ServeHTTP serves GET /metrics.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", string(textFormat))
	m.WriteText(w) //nolint:errcheck
}

var textFormat = expfmt.NewFormat(expfmt.TypeTextPlain)

type labelled struct {
	labels []*dto.LabelPair
	key    string
	value  uint64
}

func counterFamily(name, help string, series []labelled) *dto.MetricFamily {
	sort.Slice(series, func(i, j int) bool { return series[i].key < series[j].key })
	metrics := make([]*dto.Metric, 0, len(series))
	for _, s := range series {
		metrics = append(metrics, &dto.Metric{
			Label:   s.labels,
			Counter: &dto.Counter{Value: proto.Float64(float64(s.value))},
		})
	}
	return &dto.MetricFamily{
		Name:   proto.String(name),
		Help:   proto.String(help),
		Type:   dto.MetricType_COUNTER.Enum(),
		Metric: metrics,
	}
}

func singleCounters(src map[string]uint64, label string) []labelled {
	out := make([]labelled, 0, len(src))
	for v, n := range src {
		out = append(out, labelled{
			labels: []*dto.LabelPair{labelPair(label, v)},
			key:    v,
			value:  n,
		})
	}
	return out
}

func pairCounters(src map[[2]string]uint64, first, second string) []labelled {
	out := make([]labelled, 0, len(src))
	for k, n := range src {
		out = append(out, labelled{
			labels: []*dto.LabelPair{labelPair(first, k[0]), labelPair(second, k[1])},
			key:    strings.Join(k[:], "\x00"),
			value:  n,
		})
	}
	return out
}

func labelPair(name, value string) *dto.LabelPair {
	return &dto.LabelPair{Name: proto.String(name), Value: proto.String(value)}
}
