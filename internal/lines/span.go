// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at VMware (https://www.vmware.com/).
// Copyright 2018 VMware, Inc.

package lines

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// SpanLogTagKey is appended as a span tag whenever a span carries logs, so
// the backend knows to look for the matching span log payload.
const SpanLogTagKey = "_spanLogs"

// SpanTag is a key/value annotation on a span. Unlike point tags, span tags
// keep the caller's ordering and may repeat keys with distinct values.
type SpanTag struct {
	Key   string
	Value string
}

// SpanLog is one timestamped set of log fields attached to a span. The
// timestamp is in microseconds since the epoch.
type SpanLog struct {
	Timestamp int64             `json:"timestamp"`
	Fields    map[string]string `json:"fields"`
}

// SpanLine encodes one tracing span:
//
//	<name> source=<source> traceId=<uuid> spanId=<uuid> [parent=<uuid> ...]
//	[followsFrom=<uuid> ...] [<key>=<value> ...] <startMillis> <durationMillis>
//
// Duplicate tag pairs collapse to their first occurrence. When spanLogs is
// non-empty a "_spanLogs"="true" tag is appended before de-duplication.
func SpanLine(name string, startMillis, durationMillis int64, source string, traceID, spanID uuid.UUID, parents, followsFrom []uuid.UUID, tags []SpanTag, spanLogs []SpanLog, defaultSource string) (string, error) {
	if isBlank(name) {
		return "", invalidArg("span", "name cannot be blank")
	}
	if isBlank(source) {
		source = defaultSource
	}
	var sb strings.Builder
	sb.WriteString(SanitizeValue(name))
	sb.WriteString(" source=")
	sb.WriteString(SanitizeValue(source))
	sb.WriteString(" traceId=")
	sb.WriteString(traceID.String())
	sb.WriteString(" spanId=")
	sb.WriteString(spanID.String())
	for _, p := range parents {
		sb.WriteString(" parent=")
		sb.WriteString(p.String())
	}
	for _, f := range followsFrom {
		sb.WriteString(" followsFrom=")
		sb.WriteString(f.String())
	}
	if len(spanLogs) > 0 {
		tags = append(append(make([]SpanTag, 0, len(tags)+1), tags...), SpanTag{SpanLogTagKey, "true"})
	}
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if isBlank(tag.Key) {
			return "", invalidArg("span", "tag key cannot be blank")
		}
		if isBlank(tag.Value) {
			return "", invalidArg("span", "tag value cannot be blank for key: "+tag.Key)
		}
		rendered := Sanitize(tag.Key) + "=" + SanitizeValue(tag.Value)
		if _, ok := seen[rendered]; ok {
			continue
		}
		seen[rendered] = struct{}{}
		sb.WriteByte(' ')
		sb.WriteString(rendered)
	}
	sb.WriteByte(' ')
	sb.WriteString(strconv.FormatInt(startMillis, 10))
	sb.WriteByte(' ')
	sb.WriteString(strconv.FormatInt(durationMillis, 10))
	sb.WriteByte('\n')
	return sb.String(), nil
}

type spanLogEnvelope struct {
	TraceID   string    `json:"traceId"`
	SpanID    string    `json:"spanId"`
	Logs      []SpanLog `json:"logs"`
	Span      string    `json:"span"`
	Scrambler string    `json:"_scrambler,omitempty"`
}

// SpanLogJSON encodes the span log envelope for one span. The span
// parameter is the already-encoded span line, trailing newline included, so
// the receiver can correlate logs with the span. The result is one JSON
// object terminated by a newline.
func SpanLogJSON(traceID, spanID uuid.UUID, spanLogs []SpanLog, span string) (string, error) {
	env := spanLogEnvelope{
		TraceID: traceID.String(),
		SpanID:  spanID.String(),
		Logs:    spanLogs,
		Span:    span,
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(env); err != nil {
		return "", invalidArg("span log", err.Error())
	}
	return buf.String(), nil
}
