// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at VMware (https://www.vmware.com/).
// Copyright 2018 VMware, Inc.

package lines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavefronthq/wavefront-sdk-go/histogram"
)

var latencyCentroids = []histogram.Centroid{{Value: 30.0, Count: 20}, {Value: 5.1, Count: 10}}

func TestHistogramLine(t *testing.T) {
	line, err := HistogramLine("request.latency", latencyCentroids,
		map[histogram.Granularity]bool{histogram.Minute: true}, 1493773500,
		"appServer1", map[string]string{"region": "us-west"}, "defaultSource")
	require.NoError(t, err)
	assert.Equal(t, "!M 1493773500 #20 30.0 #10 5.1 \"request.latency\" source=\"appServer1\" \"region\"=\"us-west\"\n", line)
}

func TestHistogramLineNoTimestamp(t *testing.T) {
	line, err := HistogramLine("request.latency", latencyCentroids,
		map[histogram.Granularity]bool{histogram.Minute: true}, 0,
		"appServer1", map[string]string{"region": "us-west"}, "defaultSource")
	require.NoError(t, err)
	assert.Equal(t, "!M #20 30.0 #10 5.1 \"request.latency\" source=\"appServer1\" \"region\"=\"us-west\"\n", line)
}

func TestHistogramLineAllGranularities(t *testing.T) {
	line, err := HistogramLine("request.latency", latencyCentroids,
		map[histogram.Granularity]bool{
			histogram.Day:    true,
			histogram.Hour:   true,
			histogram.Minute: true,
		}, 1493773500, "appServer1", map[string]string{"region": "us-west"},
		"defaultSource")
	require.NoError(t, err)
	assert.Equal(t,
		"!M 1493773500 #20 30.0 #10 5.1 \"request.latency\" source=\"appServer1\" \"region\"=\"us-west\"\n"+
			"!H 1493773500 #20 30.0 #10 5.1 \"request.latency\" source=\"appServer1\" \"region\"=\"us-west\"\n"+
			"!D 1493773500 #20 30.0 #10 5.1 \"request.latency\" source=\"appServer1\" \"region\"=\"us-west\"\n",
		line)
}

func TestHistogramLineInvalid(t *testing.T) {
	var invalid *InvalidArgumentError

	_, err := HistogramLine(" ", latencyCentroids,
		map[histogram.Granularity]bool{histogram.Minute: true}, 0, "s", nil, "d")
	require.ErrorAs(t, err, &invalid)

	_, err = HistogramLine("request.latency", nil,
		map[histogram.Granularity]bool{histogram.Minute: true}, 0, "s", nil, "d")
	require.ErrorAs(t, err, &invalid)

	_, err = HistogramLine("request.latency", latencyCentroids, nil, 0, "s", nil, "d")
	require.ErrorAs(t, err, &invalid)
}
