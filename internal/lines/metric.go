// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at VMware (https://www.vmware.com/).
// Copyright 2018 VMware, Inc.

// Package lines encodes telemetry into the Wavefront ingestion formats:
// line protocol for metrics, distributions, spans and proxy events, JSON
// for span logs and direct events. Encoders are pure functions; any
// rejected input surfaces as an InvalidArgumentError.
package lines

import (
	"sort"
	"strconv"
	"strings"
)

// MetricLine encodes one metric point:
//
//	<name> <value> [<timestamp>] source=<source> [<key>=<value> ...]
//
// A zero ts omits the timestamp. A blank source is replaced with
// defaultSource.
func MetricLine(name string, value float64, ts int64, source string, tags map[string]string, defaultSource string) (string, error) {
	if isBlank(name) {
		return "", invalidArg("metric", "name cannot be blank")
	}
	if isBlank(source) {
		source = defaultSource
	}
	var sb strings.Builder
	sb.WriteString(Sanitize(name))
	sb.WriteByte(' ')
	sb.WriteString(formatValue(value))
	if ts != 0 {
		sb.WriteByte(' ')
		sb.WriteString(strconv.FormatInt(ts, 10))
	}
	sb.WriteString(" source=")
	sb.WriteString(SanitizeValue(source))
	if err := writeTags(&sb, "metric point", tags); err != nil {
		return "", err
	}
	sb.WriteByte('\n')
	return sb.String(), nil
}

// writeTags renders a tag map in sorted key order so the output is
// deterministic.
func writeTags(sb *strings.Builder, entity string, tags map[string]string) error {
	if len(tags) == 0 {
		return nil
	}
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if isBlank(k) {
			return invalidArg(entity, "tag key cannot be blank")
		}
		if isBlank(tags[k]) {
			return invalidArg(entity, "tag value cannot be blank for key: "+k)
		}
		sb.WriteByte(' ')
		sb.WriteString(Sanitize(k))
		sb.WriteByte('=')
		sb.WriteString(SanitizeValue(tags[k]))
	}
	return nil
}
