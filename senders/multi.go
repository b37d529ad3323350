// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at VMware (https://www.vmware.com/).
// Copyright 2018 VMware, Inc.

package senders

import (
	"errors"

	"github.com/google/uuid"

	"github.com/wavefronthq/wavefront-sdk-go/histogram"
)

// MultiSender forwards every operation to each wrapped sender in order
// and joins their errors.
type MultiSender struct {
	senders []Sender
}

var _ Sender = (*MultiSender)(nil)

func (m *MultiSender) SendMetric(name string, value float64, ts int64, source string, tags map[string]string) error {
	var errs []error
	for _, s := range m.senders {
		errs = append(errs, s.SendMetric(name, value, ts, source, tags))
	}
	return errors.Join(errs...)
}

func (m *MultiSender) SendDeltaCounter(name string, value float64, source string, tags map[string]string) error {
	var errs []error
	for _, s := range m.senders {
		errs = append(errs, s.SendDeltaCounter(name, value, source, tags))
	}
	return errors.Join(errs...)
}

func (m *MultiSender) SendDistribution(name string, centroids []histogram.Centroid,
	granularities map[histogram.Granularity]bool, ts int64,
	source string, tags map[string]string) error {
	var errs []error
	for _, s := range m.senders {
		errs = append(errs, s.SendDistribution(name, centroids, granularities, ts, source, tags))
	}
	return errors.Join(errs...)
}

func (m *MultiSender) SendSpan(name string, startMillis, durationMillis int64, source string,
	traceID, spanID uuid.UUID, parents, followsFrom []uuid.UUID,
	tags []SpanTag, spanLogs []SpanLog) error {
	var errs []error
	for _, s := range m.senders {
		errs = append(errs, s.SendSpan(name, startMillis, durationMillis, source,
			traceID, spanID, parents, followsFrom, tags, spanLogs))
	}
	return errors.Join(errs...)
}

func (m *MultiSender) SendEvent(name string, startMillis, endMillis int64, source string,
	tags []string, annotations map[string]string) error {
	var errs []error
	for _, s := range m.senders {
		errs = append(errs, s.SendEvent(name, startMillis, endMillis, source, tags, annotations))
	}
	return errors.Join(errs...)
}

func (m *MultiSender) SendFormattedMetric(point string) error {
	var errs []error
	for _, s := range m.senders {
		errs = append(errs, s.SendFormattedMetric(point))
	}
	return errors.Join(errs...)
}

func (m *MultiSender) SendMetricNow(lines []string) error {
	var errs []error
	for _, s := range m.senders {
		errs = append(errs, s.SendMetricNow(lines))
	}
	return errors.Join(errs...)
}

func (m *MultiSender) SendDistributionNow(lines []string) error {
	var errs []error
	for _, s := range m.senders {
		errs = append(errs, s.SendDistributionNow(lines))
	}
	return errors.Join(errs...)
}

func (m *MultiSender) SendSpanNow(lines []string) error {
	var errs []error
	for _, s := range m.senders {
		errs = append(errs, s.SendSpanNow(lines))
	}
	return errors.Join(errs...)
}

func (m *MultiSender) SendSpanLogNow(lines []string) error {
	var errs []error
	for _, s := range m.senders {
		errs = append(errs, s.SendSpanLogNow(lines))
	}
	return errors.Join(errs...)
}

func (m *MultiSender) SendEventNow(lines []string) error {
	var errs []error
	for _, s := range m.senders {
		errs = append(errs, s.SendEventNow(lines))
	}
	return errors.Join(errs...)
}

func (m *MultiSender) FlushNow() error {
	var errs []error
	for _, s := range m.senders {
		errs = append(errs, s.FlushNow())
	}
	return errors.Join(errs...)
}

func (m *MultiSender) GetFailureCount() int64 {
	var total int64
	for _, s := range m.senders {
		total += s.GetFailureCount()
	}
	return total
}

func (m *MultiSender) Close() {
	for _, s := range m.senders {
		s.Close()
	}
}
