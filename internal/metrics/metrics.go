package metrics

// Aggregate statistics over a batch of decoded payloads

import (
	"math"
	"sort"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/tturner/meshdiag/internal/apdu"
)

// FieldStats summarises one field across every record that carried it.
// Percentiles are empirical: the smallest observed value at or above the
// requested rank.
type FieldStats struct {
	Count  int     `json:"count"`
	Min    uint64  `json:"min"`
	Max    uint64  `json:"max"`
	Avg    float64 `json:"avg"`
	StdDev float64 `json:"stddev"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
	P99    float64 `json:"p99"`
}

// Summary holds aggregated decode statistics.
type Summary struct {
	Total    int                    `json:"total"`
	Decoded  int                    `json:"decoded"`
	Failed   int                    `json:"failed"`
	ByKind   map[string]int         `json:"failures_by_kind,omitempty"`
	BySchema map[string]int         `json:"by_schema,omitempty"`
	Fields   map[string]*FieldStats `json:"fields,omitempty"`
	Order    []string               `json:"field_order,omitempty"`
}

// SuccessRate returns the decoded share in percent.
func (s *Summary) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Decoded) / float64(s.Total) * 100
}

// Sink collects decode outcomes and aggregates them. Safe for concurrent use.
type Sink struct {
	mu       sync.Mutex
	total    int
	failed   int
	byKind   map[string]int
	bySchema map[string]int
	values   map[string][]uint64
	order    []string
}

// NewSink creates a new sink
func NewSink() *Sink {
	return &Sink{
		byKind:   make(map[string]int),
		bySchema: make(map[string]int),
		values:   make(map[string][]uint64),
	}
}

// Record adds one decode outcome. rec is ignored when err is non-nil.
func (s *Sink) Record(rec *apdu.Record, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total++
	if err != nil || rec == nil {
		s.failed++
		s.byKind[apdu.Kind(err)]++
		return
	}
	if schema := rec.Schema(); schema != nil {
		s.bySchema[schema.Name]++
	}
	for _, f := range rec.Fields() {
		if _, seen := s.values[f.Name]; !seen {
			s.order = append(s.order, f.Name)
		}
		s.values[f.Name] = append(s.values[f.Name], f.Value)
	}
}

// GetSummary computes the summary of everything recorded so far.
func (s *Sink) GetSummary() *Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := &Summary{
		Total:   s.total,
		Decoded: s.total - s.failed,
		Failed:  s.failed,
		Order:   append([]string(nil), s.order...),
	}
	if len(s.byKind) > 0 {
		summary.ByKind = copyCounts(s.byKind)
	}
	if len(s.bySchema) > 0 {
		summary.BySchema = copyCounts(s.bySchema)
	}
	if len(s.values) > 0 {
		summary.Fields = make(map[string]*FieldStats, len(s.values))
		for name, vals := range s.values {
			summary.Fields[name] = computeFieldStats(vals)
		}
	}
	return summary
}

func copyCounts(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func computeFieldStats(values []uint64) *FieldStats {
	if len(values) == 0 {
		return &FieldStats{}
	}
	stats := &FieldStats{Count: len(values), Min: math.MaxUint64}
	sorted := make([]float64, len(values))
	for i, v := range values {
		if v < stats.Min {
			stats.Min = v
		}
		if v > stats.Max {
			stats.Max = v
		}
		sorted[i] = float64(v)
	}
	sort.Float64s(sorted)
	stats.Avg = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		stats.StdDev = stat.StdDev(sorted, nil)
	}
	stats.P50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	stats.P90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	stats.P99 = stat.Quantile(0.99, stat.Empirical, sorted, nil)
	return stats
}
