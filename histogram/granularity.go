// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at VMware (https://www.vmware.com/).
// Copyright 2018 VMware, Inc.

package histogram

import "time"

// Granularity is the interval into which the service rolls up reported
// distributions: per minute, per hour or per day.
type Granularity int8

const (
	// Minute granularity rolls distributions up by the minute.
	Minute Granularity = iota
	// Hour granularity rolls distributions up by the hour.
	Hour
	// Day granularity rolls distributions up by the day.
	Day
)

// Granularities lists all granularities in the order they appear on the
// wire.
var Granularities = []Granularity{Minute, Hour, Day}

// Duration returns the length of the roll-up interval.
func (g Granularity) Duration() time.Duration {
	switch g {
	case Minute:
		return time.Minute
	case Hour:
		return time.Hour
	default:
		return 24 * time.Hour
	}
}

// Identifier returns the line-protocol marker for the granularity.
func (g Granularity) Identifier() string {
	switch g {
	case Minute:
		return "!M"
	case Hour:
		return "!H"
	default:
		return "!D"
	}
}

func (g Granularity) String() string {
	switch g {
	case Minute:
		return "minute"
	case Hour:
		return "hour"
	default:
		return "day"
	}
}
