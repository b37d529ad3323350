// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at VMware (https://www.vmware.com/).
// Copyright 2018 VMware, Inc.

package sdkmetrics

import (
	"math"

	"go.uber.org/atomic"

	"github.com/wavefronthq/wavefront-sdk-go/internal/log"
)

// metric is anything the registry can report on its interval.
type metric interface {
	report(r *Registry, name string, now int64)
}

// Counter is a monotonic counter. A delta counter additionally subtracts
// every amount it reports, so only increments since the last report go out.
type Counter struct {
	value atomic.Int64
	delta bool
}

// Inc increments the counter by one.
func (c *Counter) Inc() {
	c.value.Inc()
}

// IncBy increments the counter by n.
func (c *Counter) IncBy(n int64) {
	c.value.Add(n)
}

// Count returns the current value of the counter.
func (c *Counter) Count() int64 {
	return c.value.Load()
}

func (c *Counter) report(r *Registry, name string, now int64) {
	v := c.Count()
	full := r.prefixed(name) + ".count"
	if c.delta {
		if err := r.sender.SendDeltaCounter(full, float64(v), r.source, r.tags); err != nil {
			log.Error("error reporting internal delta counter: %v", err)
			return
		}
		// Only the reported amount is subtracted, concurrent increments
		// survive for the next report.
		c.value.Sub(v)
		return
	}
	if err := r.sender.SendMetric(full, float64(v), now, r.source, r.tags); err != nil {
		log.Error("error reporting internal counter: %v", err)
	}
}

// Gauge reports whatever its supplier returns at report time. A NaN return
// value skips the report.
type Gauge struct {
	supplier func() float64
}

// Value returns the current value of the gauge.
func (g *Gauge) Value() float64 {
	return g.supplier()
}

func (g *Gauge) report(r *Registry, name string, now int64) {
	v := g.supplier()
	if math.IsNaN(v) {
		return
	}
	if err := r.sender.SendMetric(r.prefixed(name), v, now, r.source, r.tags); err != nil {
		log.Error("error reporting internal gauge: %v", err)
	}
}
