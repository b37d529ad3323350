// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at VMware (https://www.vmware.com/).
// Copyright 2018 VMware, Inc.

package lines

import (
	"math"
	"strconv"
	"strings"
)

const (
	// DeltaPrefix (∆: INCREMENT) marks a metric as a delta counter.
	DeltaPrefix = "∆"
	// AltDeltaPrefix (Δ: GREEK CAPITAL LETTER DELTA) is the alternate
	// delta counter marker still accepted on the wire.
	AltDeltaPrefix = "Δ"
)

// HasDeltaPrefix reports whether name carries one of the two delta counter
// markers.
func HasDeltaPrefix(name string) bool {
	return strings.HasPrefix(name, DeltaPrefix) || strings.HasPrefix(name, AltDeltaPrefix)
}

// Sanitize quotes a metric name or tag key. Legal characters are
// [-,./0-9A-Za-z_]. The first character may additionally be a delta marker
// or '~' (internal metrics); the second may be '~' when the first is a
// delta marker. Everything else becomes '-'.
func Sanitize(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	runes := []rune(s)
	deltaPrefixed := len(runes) > 0 && (runes[0] == '∆' || runes[0] == 'Δ')
	for i, r := range runes {
		legal := (r >= ',' && r <= '/') || (r >= '0' && r <= '9') ||
			(r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || r == '_'
		if !legal {
			if i == 0 && (deltaPrefixed || r == '~') {
				legal = true
			} else if i == 1 && r == '~' && deltaPrefixed {
				legal = true
			}
		}
		if legal {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('-')
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// SanitizeValue quotes a tag value or source: outer whitespace is trimmed
// and '"' and newline are escaped.
func SanitizeValue(s string) string {
	res := strings.TrimSpace(s)
	res = strings.ReplaceAll(res, `"`, `\"`)
	return `"` + strings.ReplaceAll(res, "\n", `\n`) + `"`
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// formatValue renders a metric value with the decimal point the ingestion
// path expects even for integral values: 42422 becomes "42422.0".
// Magnitudes at or above 1e16, or below 1e-4, use the exponent form.
func formatValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	abs := math.Abs(v)
	if abs >= 1e16 || (abs != 0 && abs < 1e-4) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
