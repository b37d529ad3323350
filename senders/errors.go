// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at VMware (https://www.vmware.com/).
// Copyright 2018 VMware, Inc.

package senders

import (
	"errors"

	"github.com/wavefronthq/wavefront-sdk-go/internal/lines"
)

// ErrQueueFull is returned, wrapped with the data family, when a bounded
// queue refuses an enqueue. The corresponding line is dropped.
var ErrQueueFull = errors.New("queue is full")

// InvalidArgumentError is returned when an input violates an encoding
// invariant, for example a blank metric name or tag value.
type InvalidArgumentError = lines.InvalidArgumentError

// ConfigurationError is returned by the factory for endpoint or credential
// configurations that can never work.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return e.Reason
}
