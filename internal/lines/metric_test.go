// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at VMware (https://www.vmware.com/).
// Copyright 2018 VMware, Inc.

package lines

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	assert.Equal(t, `"hello"`, Sanitize("hello"))
	assert.Equal(t, `"hello-world"`, Sanitize("hello world"))
	assert.Equal(t, `"hello.world"`, Sanitize("hello.world"))
	assert.Equal(t, `"request/latency"`, Sanitize("request/latency"))
	assert.Equal(t, `"hello-world-"`, Sanitize(`hello"world"`))
	assert.Equal(t, `"hello-world"`, Sanitize("hello'world"))
	assert.Equal(t, `"~internal.metric"`, Sanitize("~internal.metric"))
	assert.Equal(t, `"∆delta.metric"`, Sanitize("∆delta.metric"))
	assert.Equal(t, `"Δdelta.metric"`, Sanitize("Δdelta.metric"))
	assert.Equal(t, `"∆~delta.metric"`, Sanitize("∆~delta.metric"))
	// '~' is only legal at the front, and only after a delta marker at
	// position one.
	assert.Equal(t, `"internal-metric"`, Sanitize("internal~metric"))
	assert.Equal(t, `"-~internal.metric"`, Sanitize("~~internal.metric"))
}

func TestSanitizeIdempotent(t *testing.T) {
	// Sanitizing an already-sanitized payload yields the same payload.
	once := Sanitize("new-york.power usage")
	inner := strings.Trim(once, `"`)
	assert.Equal(t, once, Sanitize(inner))
}

func TestSanitizeValue(t *testing.T) {
	assert.Equal(t, `"hello"`, SanitizeValue("hello"))
	assert.Equal(t, `"hello world"`, SanitizeValue(" hello world "))
	assert.Equal(t, `"hello\"world\""`, SanitizeValue(`hello"world"`))
	assert.Equal(t, `"hello\nworld"`, SanitizeValue("hello\nworld"))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "42422.0", formatValue(42422))
	assert.Equal(t, "42422.5", formatValue(42422.5))
	assert.Equal(t, "0.0", formatValue(0))
	assert.Equal(t, "-1.5", formatValue(-1.5))
	assert.Equal(t, "0.0001", formatValue(0.0001))
	assert.Equal(t, "1e-05", formatValue(0.00001))
	assert.Equal(t, "1e+16", formatValue(1e16))
}

func TestMetricLine(t *testing.T) {
	line, err := MetricLine("new-york.power.usage", 42422, 1493773500,
		"localhost", map[string]string{"datacenter": "dc1"}, "defaultSource")
	require.NoError(t, err)
	assert.Equal(t, "\"new-york.power.usage\" 42422.0 1493773500 source=\"localhost\" \"datacenter\"=\"dc1\"\n", line)
}

func TestMetricLineNoTimestamp(t *testing.T) {
	line, err := MetricLine("new-york.power.usage", 42422, 0,
		"localhost", map[string]string{"datacenter": "dc1"}, "defaultSource")
	require.NoError(t, err)
	assert.Equal(t, "\"new-york.power.usage\" 42422.0 source=\"localhost\" \"datacenter\"=\"dc1\"\n", line)
}

func TestMetricLineNoTags(t *testing.T) {
	line, err := MetricLine("new-york.power.usage", 42422, 1493773500,
		"localhost", nil, "defaultSource")
	require.NoError(t, err)
	assert.Equal(t, "\"new-york.power.usage\" 42422.0 1493773500 source=\"localhost\"\n", line)
}

func TestMetricLineDefaultSource(t *testing.T) {
	line, err := MetricLine("cpu.load", 1, 0, " ", nil, "defaultSource")
	require.NoError(t, err)
	assert.Equal(t, "\"cpu.load\" 1.0 source=\"defaultSource\"\n", line)
}

func TestMetricLineSortedTags(t *testing.T) {
	line, err := MetricLine("cpu.load", 1, 0, "localhost",
		map[string]string{"zone": "z", "az": "a", "mid": "m"}, "defaultSource")
	require.NoError(t, err)
	assert.Equal(t, "\"cpu.load\" 1.0 source=\"localhost\" \"az\"=\"a\" \"mid\"=\"m\" \"zone\"=\"z\"\n", line)
}

func TestMetricLineInvalid(t *testing.T) {
	var invalid *InvalidArgumentError

	_, err := MetricLine(" ", 1, 0, "localhost", nil, "defaultSource")
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "metric", invalid.Entity)

	_, err = MetricLine("cpu.load", 1, 0, "localhost",
		map[string]string{" ": "v"}, "defaultSource")
	require.ErrorAs(t, err, &invalid)

	_, err = MetricLine("cpu.load", 1, 0, "localhost",
		map[string]string{"k": " "}, "defaultSource")
	require.ErrorAs(t, err, &invalid)
}
