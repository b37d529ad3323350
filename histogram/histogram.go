// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at VMware (https://www.vmware.com/).
// Copyright 2018 VMware, Inc.

// Package histogram accumulates values into minute-bucketed t-digests so
// they can be reported as Wavefront distributions. Updates are safe for
// concurrent use and contend only on a short minute-rollover critical
// section.
package histogram

import (
	"math"
	"sync"
	"time"

	"github.com/caio/go-tdigest/v4"
	"go.uber.org/atomic"
)

const (
	// compression is the t-digest compression (1/delta).
	compression = 100

	// maxBins bounds the number of unreported minutes kept around. When a
	// flush does not happen for longer than that, the oldest minute is
	// evicted first.
	maxBins = 10

	// numShards is the number of independent digests per minute bin.
	// Updates rotate through the shards so concurrent writers rarely
	// touch the same digest.
	numShards = 8
)

// Option configures a Histogram.
type Option func(*Histogram)

// ClockMillis replaces the wall clock with a function returning epoch
// milliseconds. Used in tests to control minute rollover.
func ClockMillis(clock func() int64) Option {
	return func(h *Histogram) {
		h.clockMillis = clock
	}
}

// Histogram is a minute-bucketed accumulator of values backed by one
// t-digest per shard per minute.
type Histogram struct {
	clockMillis func() int64

	cursor atomic.Uint32

	mu      sync.RWMutex // guards current and prior
	current *minuteBin
	prior   []*minuteBin
}

type minuteBin struct {
	minuteMillis int64
	shards       []digestShard
}

type digestShard struct {
	mu sync.Mutex
	td *tdigest.TDigest
}

func newMinuteBin(minuteMillis int64) *minuteBin {
	return &minuteBin{minuteMillis: minuteMillis, shards: make([]digestShard, numShards)}
}

// New returns an empty histogram.
func New(opts ...Option) *Histogram {
	h := &Histogram{
		clockMillis: func() int64 { return time.Now().UnixMilli() },
	}
	for _, opt := range opts {
		opt(h)
	}
	h.current = newMinuteBin(h.currentMinuteMillis())
	return h
}

func (h *Histogram) currentMinuteMillis() int64 {
	return (h.clockMillis() / 60000) * 60000
}

// Update adds one value to the distribution.
func (h *Histogram) Update(v float64) {
	s := h.shard()
	s.mu.Lock()
	_ = s.digest().Add(v)
	s.mu.Unlock()
}

// BulkUpdate adds a batch of centroids to the distribution. When means and
// counts differ in length the shorter one wins; non-positive counts are
// skipped.
func (h *Histogram) BulkUpdate(means []float64, counts []int) {
	n := len(means)
	if len(counts) < n {
		n = len(counts)
	}
	if n == 0 {
		return
	}
	s := h.shard()
	s.mu.Lock()
	td := s.digest()
	for i := 0; i < n; i++ {
		if counts[i] <= 0 {
			continue
		}
		_ = td.AddWeighted(means[i], uint64(counts[i]))
	}
	s.mu.Unlock()
}

// shard picks the next shard of the current minute bin, rolling the bin
// over first when the minute has passed.
func (h *Histogram) shard() *digestShard {
	b := h.currentBin()
	i := h.cursor.Inc() % numShards
	return &b.shards[i]
}

func (s *digestShard) digest() *tdigest.TDigest {
	if s.td == nil {
		s.td, _ = tdigest.New(tdigest.Compression(compression))
	}
	return s.td
}

func (h *Histogram) currentBin() *minuteBin {
	now := h.currentMinuteMillis()
	h.mu.RLock()
	b := h.current
	h.mu.RUnlock()
	if b.minuteMillis == now {
		return b
	}
	return h.rollover(now)
}

// rollover moves the current bin to the prior list and installs a fresh
// one. The double check keeps the first caller as the only one rolling.
func (h *Histogram) rollover(now int64) *minuteBin {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current.minuteMillis != now {
		if len(h.prior) >= maxBins {
			h.prior = h.prior[1:]
		}
		h.prior = append(h.prior, h.current)
		h.current = newMinuteBin(now)
	}
	return h.current
}

// FlushDistributions drains every minute prior to the current one and
// returns their distributions, one per non-empty shard digest per minute.
// The current minute keeps accumulating and is never drained.
func (h *Histogram) FlushDistributions() []Distribution {
	h.currentBin() // force rollover when the minute has passed
	h.mu.Lock()
	drained := h.prior
	h.prior = nil
	h.mu.Unlock()

	var distributions []Distribution
	for _, b := range drained {
		for i := range b.shards {
			s := &b.shards[i]
			s.mu.Lock()
			if s.td != nil && s.td.Count() > 0 {
				distributions = append(distributions, Distribution{
					Timestamp: b.minuteMillis,
					Centroids: centroids(s.td),
				})
			}
			s.mu.Unlock()
		}
	}
	return distributions
}

func centroids(td *tdigest.TDigest) []Centroid {
	var cs []Centroid
	td.ForEachCentroid(func(mean float64, count uint64) bool {
		cs = append(cs, Centroid{Value: mean, Count: int(count)})
		return true
	})
	return cs
}

// bins returns a stable view of all live bins, prior and current.
func (h *Histogram) bins() []*minuteBin {
	h.currentBin()
	h.mu.RLock()
	defer h.mu.RUnlock()
	all := make([]*minuteBin, 0, len(h.prior)+1)
	all = append(all, h.prior...)
	return append(all, h.current)
}

// Snapshot combines every live digest, prior minutes and the current one,
// into a single distribution for ad-hoc inspection.
func (h *Histogram) Snapshot() *Snapshot {
	combined, _ := tdigest.New(tdigest.Compression(compression))
	for _, b := range h.bins() {
		for i := range b.shards {
			s := &b.shards[i]
			s.mu.Lock()
			if s.td != nil && s.td.Count() > 0 {
				_ = combined.Merge(s.td)
			}
			s.mu.Unlock()
		}
	}
	return &Snapshot{dist: combined}
}

// StdDev returns the standard deviation of all live values, 0 when empty.
func (h *Histogram) StdDev() float64 {
	var sum, count float64
	var cs []Centroid
	for _, b := range h.bins() {
		for i := range b.shards {
			s := &b.shards[i]
			s.mu.Lock()
			if s.td != nil {
				cs = append(cs, centroids(s.td)...)
			}
			s.mu.Unlock()
		}
	}
	for _, c := range cs {
		sum += float64(c.Count) * c.Value
		count += float64(c.Count)
	}
	if count == 0 {
		return 0
	}
	mean := sum / count
	var varianceSum float64
	for _, c := range cs {
		varianceSum += float64(c.Count) * (c.Value - mean) * (c.Value - mean)
	}
	return math.Sqrt(varianceSum / count)
}

// Count returns the number of live values.
func (h *Histogram) Count() int64 { return h.Snapshot().Count() }

// Sum returns the sum of all live values.
func (h *Histogram) Sum() float64 { return h.Snapshot().Sum() }

// Max returns the largest live value, NaN when empty.
func (h *Histogram) Max() float64 { return h.Snapshot().Max() }

// Min returns the smallest live value, NaN when empty.
func (h *Histogram) Min() float64 { return h.Snapshot().Min() }

// Mean returns the mean of all live values, NaN when empty.
func (h *Histogram) Mean() float64 { return h.Snapshot().Mean() }

// Value returns the value at quantile q in [0, 1], NaN when empty.
func (h *Histogram) Value(q float64) float64 { return h.Snapshot().Value(q) }

// Snapshot is a point-in-time combination of every live digest of a
// histogram.
type Snapshot struct {
	dist *tdigest.TDigest
}

// Count returns the number of values in the snapshot.
func (s *Snapshot) Count() int64 { return int64(s.dist.Count()) }

// Sum returns the sum of the values in the snapshot.
func (s *Snapshot) Sum() float64 {
	var sum float64
	s.dist.ForEachCentroid(func(mean float64, count uint64) bool {
		sum += mean * float64(count)
		return true
	})
	return sum
}

// Mean returns the mean of the values in the snapshot, NaN when empty.
func (s *Snapshot) Mean() float64 {
	if s.dist.Count() == 0 {
		return math.NaN()
	}
	return s.Sum() / float64(s.dist.Count())
}

// Max returns the largest value in the snapshot, NaN when empty.
func (s *Snapshot) Max() float64 { return s.Value(1) }

// Min returns the smallest value in the snapshot, NaN when empty.
func (s *Snapshot) Min() float64 { return s.Value(0) }

// Value returns the value at quantile q in [0, 1], NaN when empty.
func (s *Snapshot) Value(q float64) float64 {
	if s.dist.Count() == 0 {
		return math.NaN()
	}
	return s.dist.Quantile(q)
}
