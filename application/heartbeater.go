// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at VMware (https://www.vmware.com/).
// Copyright 2018 VMware, Inc.

package application

import (
	"sync"
	"time"

	"github.com/wavefronthq/wavefront-sdk-go/internal/log"
)

// heartbeatMetric is the well-known gauge the backend watches for
// liveness.
const heartbeatMetric = "~component.heartbeat"

const heartbeatInterval = 5 * time.Minute

// MetricSender is the part of a sender the heartbeat service needs.
type MetricSender interface {
	SendMetric(name string, value float64, ts int64, source string, tags map[string]string) error
}

// HeartbeatService reports ~component.heartbeat once per component tag
// set, immediately on start and every five minutes after. Send failures
// are logged, never propagated.
type HeartbeatService struct {
	sender   MetricSender
	source   string
	tagSets  []map[string]string
	interval time.Duration

	mu            sync.Mutex // guards customTagSets
	customTagSets []map[string]string

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// StartHeartbeatService starts heartbeating for every given component on
// behalf of the application described by tags.
func StartHeartbeatService(sender MetricSender, tags *Tags, source string, components ...string) *HeartbeatService {
	s := &HeartbeatService{
		sender:   sender,
		source:   source,
		interval: heartbeatInterval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, component := range components {
		tagSet := tags.Map()
		tagSet["component"] = component
		s.tagSets = append(s.tagSets, tagSet)
	}
	go s.run()
	return s
}

// ReportCustomTags registers one extra tag set to heartbeat on the next
// report only.
func (s *HeartbeatService) ReportCustomTags(tags map[string]string) {
	copied := make(map[string]string, len(tags))
	for k, v := range tags {
		copied[k] = v
	}
	s.mu.Lock()
	s.customTagSets = append(s.customTagSets, copied)
	s.mu.Unlock()
}

// Close stops the heartbeat. Close is idempotent.
func (s *HeartbeatService) Close() {
	s.closeOnce.Do(func() {
		close(s.stop)
		<-s.done
	})
}

func (s *HeartbeatService) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	s.beat()
	for {
		select {
		case <-ticker.C:
			s.beat()
		case <-s.stop:
			close(s.done)
			return
		}
	}
}

func (s *HeartbeatService) beat() {
	for _, tagSet := range s.tagSets {
		s.send(tagSet)
	}
	for _, tagSet := range s.drainCustomTagSets() {
		s.send(tagSet)
	}
}

func (s *HeartbeatService) drainCustomTagSets() []map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	drained := s.customTagSets
	s.customTagSets = nil
	return drained
}

func (s *HeartbeatService) send(tags map[string]string) {
	if err := s.sender.SendMetric(heartbeatMetric, 1.0, time.Now().Unix(), s.source, tags); err != nil {
		log.Error("error sending heartbeat: %v", err)
	}
}
