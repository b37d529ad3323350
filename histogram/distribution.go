// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at VMware (https://www.vmware.com/).
// Copyright 2018 VMware, Inc.

package histogram

// Centroid is a cluster of observed values inside a t-digest, represented
// by its mean and the number of samples it absorbed.
type Centroid struct {
	Value float64
	Count int
}

// Distribution is one minute worth of aggregated values, ready to be
// reported: the timestamp of the start of the minute in epoch milliseconds
// and the centroids accumulated during it.
type Distribution struct {
	Timestamp int64
	Centroids []Centroid
}
