// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at VMware (https://www.vmware.com/).
// Copyright 2018 VMware, Inc.

// Package sdkmetrics reports metrics about the SDK itself, such as how many
// points were valid, invalid, or dropped. Internal metrics flow back through
// the same sender they describe, so reporting failures are logged and
// swallowed rather than propagated.
package sdkmetrics

import (
	"sync"
	"time"

	"github.com/wavefronthq/wavefront-sdk-go/internal/log"
)

// Sender is the subset of sender operations the registry needs to report.
type Sender interface {
	SendMetric(name string, value float64, ts int64, source string, tags map[string]string) error
	SendDeltaCounter(name string, value float64, source string, tags map[string]string) error
}

const defaultInterval = time.Minute

// Registry keeps named counters, delta counters and gauges and reports them
// on a fixed interval.
type Registry struct {
	sender   Sender
	prefix   string
	source   string
	tags     map[string]string
	interval time.Duration

	mu      sync.Mutex // guards metrics
	metrics map[string]metric

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// Prefix sets the prefix prepended to every reported metric name.
func Prefix(prefix string) RegistryOption {
	return func(r *Registry) {
		r.prefix = prefix
	}
}

// Source sets the source of every reported metric.
func Source(source string) RegistryOption {
	return func(r *Registry) {
		r.source = source
	}
}

// Tag adds a point tag to every reported metric.
func Tag(key, value string) RegistryOption {
	return func(r *Registry) {
		if r.tags == nil {
			r.tags = map[string]string{}
		}
		r.tags[key] = value
	}
}

// ReportInterval overrides the one minute reporting interval.
func ReportInterval(interval time.Duration) RegistryOption {
	return func(r *Registry) {
		r.interval = interval
	}
}

// New returns a registry reporting to sender and starts its report loop.
func New(sender Sender, opts ...RegistryOption) *Registry {
	r := &Registry{
		sender:   sender,
		interval: defaultInterval,
		metrics:  map[string]metric{},
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	go r.loop()
	return r
}

// Disabled returns a registry that accepts metrics but never reports them.
func Disabled() *Registry {
	return &Registry{metrics: map[string]metric{}}
}

// NewCounter returns the counter registered under name, creating it first
// when needed.
func (r *Registry) NewCounter(name string) *Counter {
	return r.counter(name, false)
}

// NewDeltaCounter returns the delta counter registered under name, creating
// it first when needed.
func (r *Registry) NewDeltaCounter(name string) *Counter {
	return r.counter(name, true)
}

func (r *Registry) counter(name string, delta bool) *Counter {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.metrics[name].(*Counter); ok && existing.delta == delta {
		return existing
	}
	c := &Counter{delta: delta}
	r.metrics[name] = c
	return c
}

// NewGauge registers a gauge under name whose value is read from supplier at
// report time. A NaN value skips that report.
func (r *Registry) NewGauge(name string, supplier func() float64) *Gauge {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.metrics[name].(*Gauge); ok {
		return existing
	}
	g := &Gauge{supplier: supplier}
	r.metrics[name] = g
	return g
}

func (r *Registry) prefixed(name string) string {
	if r.prefix == "" {
		return name
	}
	return r.prefix + "." + name
}

func (r *Registry) loop() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.report(time.Now().Unix())
		case <-r.stop:
			close(r.done)
			return
		}
	}
}

// report iterates a snapshot of the registered metrics so reporting never
// holds the insert lock while sending.
func (r *Registry) report(now int64) {
	if r.sender == nil {
		return
	}
	for name, m := range r.snapshot() {
		m.report(r, name, now)
	}
}

func (r *Registry) snapshot() map[string]metric {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := make(map[string]metric, len(r.metrics))
	for name, m := range r.metrics {
		copied[name] = m
	}
	return copied
}

// Close stops the report loop and reports one last time, giving up once
// timeout elapses.
func (r *Registry) Close(timeout time.Duration) {
	if r.sender == nil {
		return
	}
	r.stopOnce.Do(func() {
		close(r.stop)
	})
	<-r.done
	final := make(chan struct{})
	go func() {
		r.report(time.Now().Unix())
		close(final)
	}()
	select {
	case <-final:
	case <-time.After(timeout):
		log.Warn("timed out reporting internal metrics on close")
	}
}
