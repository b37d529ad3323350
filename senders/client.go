// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at VMware (https://www.vmware.com/).
// Copyright 2018 VMware, Inc.

package senders

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/wavefronthq/wavefront-sdk-go/histogram"
	"github.com/wavefronthq/wavefront-sdk-go/internal/lines"
	"github.com/wavefronthq/wavefront-sdk-go/internal/log"
	"github.com/wavefronthq/wavefront-sdk-go/internal/sdkmetrics"
	"github.com/wavefronthq/wavefront-sdk-go/internal/version"
)

// eventEncoder builds the queued form of an event: a JSON object for
// direct ingestion, an @Event line for the proxy.
type eventEncoder func(name string, startMillis, endMillis int64, source string,
	tags []string, annotations map[string]string, defaultSource string) (string, error)

// pipeline is the per-family half of a client: the bounded queue plus the
// counters describing its traffic.
type pipeline struct {
	family
	batchSize int
	queue     Queue

	valid        *sdkmetrics.Counter
	invalid      *sdkmetrics.Counter
	dropped      *sdkmetrics.Counter
	reportErrors *sdkmetrics.Counter
}

type client struct {
	defaultSource string
	transport     transport
	registry      *sdkmetrics.Registry
	encodeEvent   eventEncoder

	metrics    *pipeline
	histograms *pipeline
	spans      *pipeline
	spanLogs   *pipeline
	events     *pipeline
	pipelines  []*pipeline

	failures atomic.Int64

	flushRequests chan chan error
	stop          chan struct{}
	done          chan struct{}
	closeOnce     sync.Once
}

var (
	_ Sender            = (*client)(nil)
	_ sdkmetrics.Sender = (*client)(nil)
)

// setup builds the five family pipelines and their internal metrics.
// Called once, before the flusher starts.
func (c *client) setup(cfg *config) {
	c.metrics = c.newPipeline(metricsFamily, cfg)
	c.histograms = c.newPipeline(histogramFamily, cfg)
	c.spans = c.newPipeline(spansFamily, cfg)
	c.spanLogs = c.newPipeline(spanLogsFamily, cfg)
	c.events = c.newPipeline(eventsFamily, cfg)
	c.pipelines = []*pipeline{c.metrics, c.histograms, c.spans, c.spanLogs, c.events}
	c.registry.NewGauge("version", version.GaugeValue)
}

func (c *client) newPipeline(f family, cfg *config) *pipeline {
	batchSize := cfg.batchSize
	if f.batchOverride > 0 {
		batchSize = f.batchOverride
	}
	queue := cfg.queueFactory(cfg.maxBufferSize)
	p := &pipeline{
		family:       f,
		batchSize:    batchSize,
		queue:        queue,
		valid:        c.registry.NewDeltaCounter(f.prefix + ".valid"),
		invalid:      c.registry.NewDeltaCounter(f.prefix + ".invalid"),
		dropped:      c.registry.NewDeltaCounter(f.prefix + ".dropped"),
		reportErrors: c.registry.NewDeltaCounter(f.prefix + ".report.errors"),
	}
	c.registry.NewGauge(f.prefix+".queue.size", func() float64 {
		return float64(queue.Len())
	})
	c.registry.NewGauge(f.prefix+".queue.remaining_capacity", func() float64 {
		return float64(queue.Capacity() - queue.Len())
	})
	return p
}

// run starts the background flusher: a ticker-driven loop that also
// serves explicit flush requests and drains once more on stop.
func (c *client) run(cfg *config) {
	tickChan := cfg.tickChan
	var ticker *time.Ticker
	if tickChan == nil {
		ticker = time.NewTicker(cfg.flushInterval)
		tickChan = ticker.C
	}
	go func() {
		if ticker != nil {
			defer ticker.Stop()
		}
		for {
			select {
			case <-tickChan:
				if err := c.flushAll(); err != nil {
					log.Debug("flush: %v", err)
				}
			case result := <-c.flushRequests:
				result <- c.flushAll()
			case <-c.stop:
				close(c.done)
				return
			}
		}
	}()
}

func (c *client) SendMetric(name string, value float64, ts int64, source string, tags map[string]string) error {
	line, err := lines.MetricLine(name, value, ts, source, tags, c.defaultSource)
	if err != nil {
		c.metrics.invalid.Inc()
		return err
	}
	c.metrics.valid.Inc()
	return c.enqueue(c.metrics, line)
}

func (c *client) SendDeltaCounter(name string, value float64, source string, tags map[string]string) error {
	if value <= 0 {
		return nil
	}
	if !lines.HasDeltaPrefix(name) {
		name = lines.DeltaPrefix + name
	}
	return c.SendMetric(name, value, 0, source, tags)
}

func (c *client) SendDistribution(name string, centroids []histogram.Centroid,
	granularities map[histogram.Granularity]bool, ts int64,
	source string, tags map[string]string) error {
	line, err := lines.HistogramLine(name, centroids, granularities, ts, source, tags, c.defaultSource)
	if err != nil {
		c.histograms.invalid.Inc()
		return err
	}
	c.histograms.valid.Inc()
	return c.enqueue(c.histograms, line)
}

func (c *client) SendSpan(name string, startMillis, durationMillis int64, source string,
	traceID, spanID uuid.UUID, parents, followsFrom []uuid.UUID,
	tags []SpanTag, spanLogs []SpanLog) error {
	line, err := lines.SpanLine(name, startMillis, durationMillis, source,
		traceID, spanID, parents, followsFrom, tags, spanLogs, c.defaultSource)
	if err != nil {
		c.spans.invalid.Inc()
		return err
	}
	c.spans.valid.Inc()
	if err := c.enqueue(c.spans, line); err != nil {
		return err
	}
	if len(spanLogs) == 0 {
		return nil
	}
	logLine, err := lines.SpanLogJSON(traceID, spanID, spanLogs, line)
	if err != nil {
		c.spanLogs.invalid.Inc()
		return err
	}
	c.spanLogs.valid.Inc()
	return c.enqueue(c.spanLogs, logLine)
}

func (c *client) SendEvent(name string, startMillis, endMillis int64, source string,
	tags []string, annotations map[string]string) error {
	line, err := c.encodeEvent(name, startMillis, endMillis, source, tags, annotations, c.defaultSource)
	if err != nil {
		c.events.invalid.Inc()
		return err
	}
	c.events.valid.Inc()
	return c.enqueue(c.events, line)
}

func (c *client) SendFormattedMetric(point string) error {
	if strings.TrimSpace(point) == "" {
		c.metrics.invalid.Inc()
		return &InvalidArgumentError{Entity: "point", Reason: "is blank"}
	}
	if !strings.HasSuffix(point, "\n") {
		point += "\n"
	}
	c.metrics.valid.Inc()
	return c.enqueue(c.metrics, point)
}

func (c *client) enqueue(p *pipeline, line string) error {
	if err := p.queue.Push(line); err != nil {
		p.dropped.Inc()
		return fmt.Errorf("%s: %w", p.prefix, err)
	}
	return nil
}

func (c *client) SendMetricNow(lines []string) error {
	return c.sendNow(c.metrics, lines)
}

func (c *client) SendDistributionNow(lines []string) error {
	return c.sendNow(c.histograms, lines)
}

func (c *client) SendSpanNow(lines []string) error {
	return c.sendNow(c.spans, lines)
}

func (c *client) SendSpanLogNow(lines []string) error {
	return c.sendNow(c.spanLogs, lines)
}

func (c *client) SendEventNow(lines []string) error {
	return c.sendNow(c.events, lines)
}

// sendNow reports pre-encoded lines synchronously through the regular
// batch path.
func (c *client) sendNow(p *pipeline, batch []string) error {
	var errs []error
	for start := 0; start < len(batch); start += p.batchSize {
		end := min(start+p.batchSize, len(batch))
		if err := c.reportBatch(p, batch[start:end]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *client) FlushNow() error {
	result := make(chan error, 1)
	select {
	case c.flushRequests <- result:
		return <-result
	case <-c.stop:
		return c.flushAll()
	}
}

func (c *client) flushAll() error {
	var errs []error
	for _, p := range c.pipelines {
		if err := c.flushPipeline(p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// flushPipeline drains up to the queue size observed on entry, in batch
// sized chunks. A failed chunk stops this family for the round so
// requeued lines are not popped again immediately.
func (c *client) flushPipeline(p *pipeline) error {
	remaining := p.queue.Len()
	for remaining > 0 {
		batch := make([]string, 0, min(remaining, p.batchSize))
		for len(batch) < p.batchSize && remaining > 0 {
			line, ok := p.queue.Pop()
			if !ok {
				remaining = 0
				break
			}
			batch = append(batch, line)
			remaining--
		}
		if len(batch) == 0 {
			return nil
		}
		if err := c.reportBatch(p, batch); err != nil {
			return err
		}
	}
	return nil
}

// reportBatch sends one chunk and classifies the outcome: success,
// terminal drop (401/403 or unconfigured proxy port) or requeue.
func (c *client) reportBatch(p *pipeline, batch []string) error {
	if len(batch) == 0 {
		return nil
	}
	status, err := c.transport.report(p.format, batch)

	var notConfigured *portNotConfiguredError
	if errors.As(err, &notConfigured) {
		p.dropped.IncBy(int64(len(batch)))
		log.Warn("%v, dropped %d lines", notConfigured, len(batch))
		return nil
	}
	if status != noHTTPResponse {
		c.registry.NewDeltaCounter(p.prefix + ".report." + strconv.Itoa(status)).Inc()
	}
	if err == nil && status < http.StatusBadRequest {
		return nil
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		p.dropped.IncBy(int64(len(batch)))
		if status == http.StatusForbidden && p.format == formatWavefront {
			log.Error("error reporting points to Wavefront (HTTP 403), please verify that direct data ingestion is enabled for your account")
		} else {
			log.Error("error reporting %s data to Wavefront (HTTP %d), dropping batch", p.format, status)
		}
		return fmt.Errorf("error reporting %s data: server returned %d", p.format, status)
	}

	// Recoverable: the batch goes back on the queue for the next flush.
	c.failures.Inc()
	p.reportErrors.Inc()
	c.requeue(p, batch)
	if err != nil {
		return err
	}
	return fmt.Errorf("error reporting %s data: server returned %d", p.format, status)
}

func (c *client) requeue(p *pipeline, batch []string) {
	for _, line := range batch {
		if p.queue.Push(line) != nil {
			p.dropped.Inc()
		}
	}
}

func (c *client) GetFailureCount() int64 {
	return c.failures.Load()
}

func (c *client) Close() {
	c.closeOnce.Do(func() {
		if err := c.FlushNow(); err != nil {
			log.Warn("error flushing on close: %v", err)
		}
		close(c.stop)
		<-c.done
		c.registry.Close(time.Second)
		c.transport.close()
	})
}
