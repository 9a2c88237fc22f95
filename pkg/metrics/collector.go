package metrics

import (
	"sort"
	"sync"

	"github.com/dbehnke/linecode/pkg/analysis"
	"github.com/dbehnke/linecode/pkg/linecode"
)

// SchemeStats holds the counters kept for one line-coding scheme
type SchemeStats struct {
	Trials         uint64
	DecodeFailures uint64
	BitErrors      uint64
	FlippedSymbols uint64
	LastMean       float64
	LastBER        float64
}

// Collector collects simulation metrics. It satisfies the harness
// TrialObserver, SummaryObserver and SweepObserver interfaces.
type Collector struct {
	mu sync.RWMutex

	schemes map[linecode.Scheme]*SchemeStats

	simulations uint64
	sweepRows   uint64
	apiRequests uint64
}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	return &Collector{
		schemes: make(map[linecode.Scheme]*SchemeStats),
	}
}

func (c *Collector) stats(s linecode.Scheme) *SchemeStats {
	st, ok := c.schemes[s]
	if !ok {
		st = &SchemeStats{}
		c.schemes[s] = st
	}
	return st
}

// TrialCompleted records a single Monte-Carlo trial
func (c *Collector) TrialCompleted(scheme linecode.Scheme, t analysis.Trial) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.stats(scheme)
	st.Trials++
	st.BitErrors += uint64(t.Errors)
	st.FlippedSymbols += uint64(t.Flipped)
	if t.DecodeFailed {
		st.DecodeFailures++
	}
}

// SummaryCompleted records a finished simulation for one scheme
func (c *Collector) SummaryCompleted(s analysis.Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.simulations++
	st := c.stats(s.Scheme)
	st.LastMean = s.Mean
	st.LastBER = s.BER
}

// SweepRowCompleted records one BER level of a sensitivity sweep
func (c *Collector) SweepRowCompleted(row analysis.SweepRow) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sweepRows++
}

// APIRequest records a dashboard API request
func (c *Collector) APIRequest() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.apiRequests++
}

// Reset clears all metrics (useful for testing)
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.schemes = make(map[linecode.Scheme]*SchemeStats)
	c.simulations = 0
	c.sweepRows = 0
	c.apiRequests = 0
}

// GetScheme returns a snapshot of the counters for scheme
func (c *Collector) GetScheme(s linecode.Scheme) SchemeStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if st, ok := c.schemes[s]; ok {
		return *st
	}
	return SchemeStats{}
}

// GetSchemes returns the schemes that have recorded data, in scheme order
func (c *Collector) GetSchemes() []linecode.Scheme {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]linecode.Scheme, 0, len(c.schemes))
	for s := range c.schemes {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// GetTotalTrials returns the trial count across all schemes
func (c *Collector) GetTotalTrials() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var total uint64
	for _, st := range c.schemes {
		total += st.Trials
	}
	return total
}

// GetSimulations returns the number of completed per-scheme simulations
func (c *Collector) GetSimulations() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.simulations
}

// GetSweepRows returns the number of completed sweep rows
func (c *Collector) GetSweepRows() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sweepRows
}

// GetAPIRequests returns the number of dashboard API requests
func (c *Collector) GetAPIRequests() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiRequests
}
