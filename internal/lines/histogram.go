// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at VMware (https://www.vmware.com/).
// Copyright 2018 VMware, Inc.

package lines

import (
	"strconv"
	"strings"

	"github.com/wavefronthq/wavefront-sdk-go/histogram"
)

// HistogramLine encodes one distribution, emitting one line per requested
// granularity:
//
//	{!M|!H|!D} [<timestamp>] #<count> <mean> [...] <name> source=<source> [tags]
//
// Granularities always render in minute, hour, day order.
func HistogramLine(name string, centroids []histogram.Centroid, granularities map[histogram.Granularity]bool, ts int64, source string, tags map[string]string, defaultSource string) (string, error) {
	if isBlank(name) {
		return "", invalidArg("histogram", "name cannot be blank")
	}
	if len(granularities) == 0 {
		return "", invalidArg("histogram", "granularities cannot be empty")
	}
	if len(centroids) == 0 {
		return "", invalidArg("histogram", "a distribution must have at least one centroid")
	}
	if isBlank(source) {
		source = defaultSource
	}
	var sb strings.Builder
	for _, g := range histogram.Granularities {
		if !granularities[g] {
			continue
		}
		sb.WriteString(g.Identifier())
		if ts != 0 {
			sb.WriteByte(' ')
			sb.WriteString(strconv.FormatInt(ts, 10))
		}
		for _, c := range centroids {
			sb.WriteString(" #")
			sb.WriteString(strconv.Itoa(c.Count))
			sb.WriteByte(' ')
			sb.WriteString(formatValue(c.Value))
		}
		sb.WriteByte(' ')
		sb.WriteString(Sanitize(name))
		sb.WriteString(" source=")
		sb.WriteString(SanitizeValue(source))
		if err := writeTags(&sb, "histogram", tags); err != nil {
			return "", err
		}
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}
