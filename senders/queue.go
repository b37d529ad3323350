// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at VMware (https://www.vmware.com/).
// Copyright 2018 VMware, Inc.

package senders

// Queue is a bounded FIFO of encoded lines. Push never blocks; a full
// queue returns ErrQueueFull. Implementations must be safe for concurrent
// use.
type Queue interface {
	Push(line string) error
	Pop() (string, bool)
	Len() int
	Capacity() int
}

// QueueFactory builds the queue backing one data family. Injectable via
// the WithQueueFactory option, mostly for tests and custom backpressure.
type QueueFactory func(capacity int) Queue

type chanQueue struct {
	ch chan string
}

func newChanQueue(capacity int) Queue {
	return &chanQueue{ch: make(chan string, capacity)}
}

func (q *chanQueue) Push(line string) error {
	select {
	case q.ch <- line:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *chanQueue) Pop() (string, bool) {
	select {
	case line := <-q.ch:
		return line, true
	default:
		return "", false
	}
}

func (q *chanQueue) Len() int {
	return len(q.ch)
}

func (q *chanQueue) Capacity() int {
	return cap(q.ch)
}
