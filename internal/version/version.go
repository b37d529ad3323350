// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at VMware (https://www.vmware.com/).
// Copyright 2018 VMware, Inc.

// Package version records the current release of the SDK.
package version

import (
	"fmt"
	"regexp"
	"strconv"
)

// Tag specifies the current release tag. It needs to be manually updated
// before cutting a release.
const Tag = "v1.8.2"

var semVer = regexp.MustCompile(`^v?(\d+)\.(\d+)\.(\d+)`)

// GaugeValue returns Tag in the numeric form reported by the internal
// metrics registry: two digits for the minor and patch parts after the
// decimal point, so v1.8.2 reports as 1.0802. An unparseable tag reports
// as 0.
func GaugeValue() float64 {
	return gaugeValue(Tag)
}

func gaugeValue(tag string) float64 {
	m := semVer.FindStringSubmatch(tag)
	if m == nil {
		return 0
	}
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	patch, _ := strconv.Atoi(m[3])
	v, err := strconv.ParseFloat(fmt.Sprintf("%d.%02d%02d", major, minor, patch), 64)
	if err != nil {
		return 0
	}
	return v
}
