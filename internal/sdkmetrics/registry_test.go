// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at VMware (https://www.vmware.com/).
// Copyright 2018 VMware, Inc.

package sdkmetrics

import (
	"errors"
	"math"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedMetric struct {
	name   string
	value  float64
	ts     int64
	source string
	delta  bool
}

type fakeSender struct {
	mu      sync.Mutex
	metrics []recordedMetric
	err     error
}

func (f *fakeSender) SendMetric(name string, value float64, ts int64, source string, tags map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.metrics = append(f.metrics, recordedMetric{name, value, ts, source, false})
	return nil
}

func (f *fakeSender) SendDeltaCounter(name string, value float64, source string, tags map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.metrics = append(f.metrics, recordedMetric{name, value, 0, source, true})
	return nil
}

func (f *fakeSender) recorded() []recordedMetric {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedMetric(nil), f.metrics...)
}

func newStoppedRegistry(sender Sender, opts ...RegistryOption) *Registry {
	r := New(sender, append([]RegistryOption{ReportInterval(time.Hour)}, opts...)...)
	return r
}

func TestRegistryReportsCounters(t *testing.T) {
	sender := &fakeSender{}
	r := newStoppedRegistry(sender, Prefix("~sdk.python.core.sender.proxy"), Source("test"))
	defer r.Close(time.Second)

	r.NewCounter("points.valid").IncBy(3)
	r.report(1533529977)

	recorded := sender.recorded()
	require.Len(t, recorded, 1)
	assert.Equal(t, "~sdk.python.core.sender.proxy.points.valid.count", recorded[0].name)
	assert.Equal(t, 3.0, recorded[0].value)
	assert.Equal(t, int64(1533529977), recorded[0].ts)
	assert.Equal(t, "test", recorded[0].source)
	assert.False(t, recorded[0].delta)
}

func TestRegistryDeltaCounterDecrements(t *testing.T) {
	sender := &fakeSender{}
	r := newStoppedRegistry(sender, Prefix("p"))
	defer r.Close(time.Second)

	c := r.NewDeltaCounter("write.success")
	c.IncBy(5)
	r.report(1)

	recorded := sender.recorded()
	require.Len(t, recorded, 1)
	assert.Equal(t, "p.write.success.count", recorded[0].name)
	assert.Equal(t, 5.0, recorded[0].value)
	assert.True(t, recorded[0].delta)
	assert.Equal(t, int64(0), c.Count())

	// Nothing new, the next report sends zero and stays at zero.
	r.report(2)
	assert.Equal(t, int64(0), c.Count())
}

func TestRegistryDeltaCounterKeepsValueOnError(t *testing.T) {
	sender := &fakeSender{err: errors.New("queue full")}
	r := newStoppedRegistry(sender)
	defer r.Close(time.Second)

	c := r.NewDeltaCounter("write.errors")
	c.IncBy(4)
	r.report(1)
	assert.Equal(t, int64(4), c.Count())
}

func TestRegistryGauges(t *testing.T) {
	sender := &fakeSender{}
	r := newStoppedRegistry(sender, Prefix("p"))
	defer r.Close(time.Second)

	value := 17.0
	r.NewGauge("queue.size", func() float64 { return value })
	r.NewGauge("unavailable", func() float64 { return math.NaN() })
	r.report(1)

	recorded := sender.recorded()
	require.Len(t, recorded, 1)
	assert.Equal(t, "p.queue.size", recorded[0].name)
	assert.Equal(t, 17.0, recorded[0].value)
}

func TestRegistryGetOrAdd(t *testing.T) {
	r := Disabled()
	a := r.NewCounter("points.valid")
	b := r.NewCounter("points.valid")
	assert.Same(t, a, b)

	g := r.NewGauge("queue.size", func() float64 { return 1 })
	assert.Same(t, g, r.NewGauge("queue.size", func() float64 { return 2 }))
}

func TestRegistryReportsAllMetrics(t *testing.T) {
	sender := &fakeSender{}
	r := newStoppedRegistry(sender)
	defer r.Close(time.Second)

	r.NewCounter("a").Inc()
	r.NewCounter("b").Inc()
	r.NewDeltaCounter("c").Inc()
	r.report(1)

	var names []string
	for _, m := range sender.recorded() {
		names = append(names, m.name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"a.count", "b.count", "c.count"}, names)
}

func TestRegistryLoopReports(t *testing.T) {
	sender := &fakeSender{}
	r := New(sender, ReportInterval(10*time.Millisecond))
	r.NewCounter("points.valid").Inc()

	assert.Eventually(t, func() bool {
		return len(sender.recorded()) > 0
	}, time.Second, 5*time.Millisecond)
	r.Close(time.Second)
}

func TestRegistryCloseReportsOnce(t *testing.T) {
	sender := &fakeSender{}
	r := newStoppedRegistry(sender)
	r.NewCounter("points.valid").Inc()
	r.Close(time.Second)

	require.Len(t, sender.recorded(), 1)
}

func TestDisabledRegistryIsSilent(t *testing.T) {
	r := Disabled()
	r.NewCounter("points.valid").Inc()
	r.report(1)
	r.Close(time.Second)
}
