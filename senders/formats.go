// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at VMware (https://www.vmware.com/).
// Copyright 2018 VMware, Inc.

package senders

// Ingestion formats, the f= parameter of the direct ingestion endpoint.
const (
	formatWavefront = "wavefront"
	formatHistogram = "histogram"
	formatTrace     = "trace"
	formatSpanLogs  = "spanLogs"
	formatEvent     = "event"
)

// family describes one telemetry data family: its ingestion format, the
// entity prefix its internal metrics are reported under, and an optional
// batch size override.
type family struct {
	format string
	prefix string
	// batchOverride forces the report batch size regardless of
	// configuration. Zero means use the configured batch size.
	batchOverride int
}

var (
	metricsFamily   = family{format: formatWavefront, prefix: "points"}
	histogramFamily = family{format: formatHistogram, prefix: "histograms"}
	spansFamily     = family{format: formatTrace, prefix: "spans"}
	spanLogsFamily  = family{format: formatSpanLogs, prefix: "span_logs"}
	// The direct event endpoint takes one JSON object per request.
	eventsFamily = family{format: formatEvent, prefix: "events", batchOverride: 1}
)
