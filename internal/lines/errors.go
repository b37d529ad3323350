// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at VMware (https://www.vmware.com/).
// Copyright 2018 VMware, Inc.

package lines

// InvalidArgumentError is returned by an encoder that rejected its input.
// The line never reaches the buffer; the caller owns retrying with fixed
// input.
type InvalidArgumentError struct {
	// Entity names the telemetry type that was rejected.
	Entity string
	// Reason describes what was wrong with the input.
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return e.Entity + ": " + e.Reason
}

func invalidArg(entity, reason string) error {
	return &InvalidArgumentError{Entity: entity, Reason: reason}
}
