// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at VMware (https://www.vmware.com/).
// Copyright 2018 VMware, Inc.

// Package senders provides clients that send metrics, histogram
// distributions, tracing spans and events to Wavefront, either through a
// Wavefront proxy or by direct ingestion over HTTPS.
package senders

import (
	"github.com/google/uuid"

	"github.com/wavefronthq/wavefront-sdk-go/histogram"
	"github.com/wavefronthq/wavefront-sdk-go/internal/lines"
)

// SpanTag is a key-value annotation on a tracing span. Span tags keep the
// order the caller supplied them in.
type SpanTag = lines.SpanTag

// SpanLog is one log entry attached to a span. Timestamp is in epoch
// microseconds.
type SpanLog = lines.SpanLog

// Sender is implemented by everything that can ship telemetry to
// Wavefront: the proxy client, the direct ingestion client and the
// multi-sender composed by the client factory.
//
// The SendX operations encode and enqueue asynchronously: a returned error
// means the input was rejected or the bounded queue was full, never that
// the backend refused the data. Transport results are observable through
// GetFailureCount and the internal metrics.
type Sender interface {
	// SendMetric sends a single metric point. A ts of zero omits the
	// timestamp so the receiver assigns one.
	SendMetric(name string, value float64, ts int64, source string, tags map[string]string) error

	// SendDeltaCounter sends a delta counter increment. The delta prefix
	// (U+2206) is prepended unless already present; values that are not
	// positive are silently dropped.
	SendDeltaCounter(name string, value float64, source string, tags map[string]string) error

	// SendDistribution sends a histogram distribution for every granularity
	// set to true.
	SendDistribution(name string, centroids []histogram.Centroid,
		granularities map[histogram.Granularity]bool, ts int64,
		source string, tags map[string]string) error

	// SendSpan sends a tracing span, and its span logs when present.
	SendSpan(name string, startMillis, durationMillis int64, source string,
		traceID, spanID uuid.UUID, parents, followsFrom []uuid.UUID,
		tags []SpanTag, spanLogs []SpanLog) error

	// SendEvent sends an event. An endMillis of zero means startMillis+1.
	SendEvent(name string, startMillis, endMillis int64, source string,
		tags []string, annotations map[string]string) error

	// SendFormattedMetric enqueues an already-encoded metric line.
	SendFormattedMetric(point string) error

	// The SendXNow operations report already-encoded lines synchronously,
	// bypassing the queues.
	SendMetricNow(lines []string) error
	SendDistributionNow(lines []string) error
	SendSpanNow(lines []string) error
	SendSpanLogNow(lines []string) error
	SendEventNow(lines []string) error

	// FlushNow drains and reports every queue once.
	FlushNow() error

	// GetFailureCount returns how many report attempts failed at the
	// transport level since the sender was created.
	GetFailureCount() int64

	// Close flushes once, stops the background flusher and releases the
	// transport. Close is idempotent.
	Close()
}
