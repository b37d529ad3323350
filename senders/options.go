// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at VMware (https://www.vmware.com/).
// Copyright 2018 VMware, Inc.

package senders

import (
	"net/http"
	"time"
)

const (
	defaultBatchSize     = 10000
	defaultMaxBufferSize = 50000
	defaultFlushInterval = 5 * time.Second
	defaultTimeout       = 60 * time.Second
)

// config holds the settings for one sender, populated by defaults and
// amended by Options.
type config struct {
	batchSize       int
	maxBufferSize   int
	flushInterval   time.Duration
	internalMetrics bool
	timeout         time.Duration
	httpClient      *http.Client
	queueFactory    QueueFactory

	// proxy family ports; zero means the family is not configured
	metricsPort      int
	distributionPort int
	tracingPort      int
	eventsPort       int

	sdkMetricsTags map[string]string

	cspBaseURL      string
	cspAPIToken     string
	cspClientID     string
	cspClientSecret string
	cspOrgID        string

	// tickChan replaces the flush ticker in tests.
	tickChan <-chan time.Time
}

func defaults(cfg *config) {
	cfg.batchSize = defaultBatchSize
	cfg.maxBufferSize = defaultMaxBufferSize
	cfg.flushInterval = defaultFlushInterval
	cfg.internalMetrics = true
	cfg.timeout = defaultTimeout
	cfg.queueFactory = newChanQueue
}

// Option amends the sender configuration built by NewSender or
// ClientFactory.AddClient.
type Option func(*config)

// BatchSize overrides the number of lines sent per report. Defaults to
// 10000. Events always report one at a time.
func BatchSize(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.batchSize = n
		}
	}
}

// MaxBufferSize overrides the capacity of each data family's queue.
// Defaults to 50000.
func MaxBufferSize(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxBufferSize = n
		}
	}
}

// FlushInterval overrides the period of the background flush. Defaults to
// 5 seconds.
func FlushInterval(interval time.Duration) Option {
	return func(cfg *config) {
		if interval > 0 {
			cfg.flushInterval = interval
		}
	}
}

// InternalMetricsEnabled toggles reporting of the SDK's own metrics.
// Enabled by default.
func InternalMetricsEnabled(enabled bool) Option {
	return func(cfg *config) {
		cfg.internalMetrics = enabled
	}
}

// Timeout overrides the HTTP and TCP timeout. Defaults to 60 seconds.
func Timeout(timeout time.Duration) Option {
	return func(cfg *config) {
		if timeout > 0 {
			cfg.timeout = timeout
		}
	}
}

// HTTPClient replaces the http.Client used for direct ingestion. Its
// timeout wins over the Timeout option.
func HTTPClient(client *http.Client) Option {
	return func(cfg *config) {
		cfg.httpClient = client
	}
}

// WithQueueFactory replaces the queue implementation backing each data
// family.
func WithQueueFactory(factory QueueFactory) Option {
	return func(cfg *config) {
		if factory != nil {
			cfg.queueFactory = factory
		}
	}
}

// MetricsPort sets the proxy port for metric lines. A proxy endpoint URL
// with a port configures this implicitly.
func MetricsPort(port int) Option {
	return func(cfg *config) {
		cfg.metricsPort = port
	}
}

// DistributionPort sets the proxy port for histogram distribution lines.
func DistributionPort(port int) Option {
	return func(cfg *config) {
		cfg.distributionPort = port
	}
}

// TracingPort sets the proxy port for span and span log lines.
func TracingPort(port int) Option {
	return func(cfg *config) {
		cfg.tracingPort = port
	}
}

// EventsPort sets the proxy port for event lines.
func EventsPort(port int) Option {
	return func(cfg *config) {
		cfg.eventsPort = port
	}
}

// SDKMetricsTags adds point tags to every internal metric the sender
// reports about itself.
func SDKMetricsTags(tags map[string]string) Option {
	return func(cfg *config) {
		if cfg.sdkMetricsTags == nil {
			cfg.sdkMetricsTags = map[string]string{}
		}
		for k, v := range tags {
			cfg.sdkMetricsTags[k] = v
		}
	}
}

// CSPBaseURL overrides the CSP auth server used to exchange CSP
// credentials for access tokens.
func CSPBaseURL(baseURL string) Option {
	return func(cfg *config) {
		cfg.cspBaseURL = baseURL
	}
}

// CSPAPIToken authenticates direct ingestion by exchanging a CSP API token
// for short-lived access tokens.
func CSPAPIToken(apiToken string) Option {
	return func(cfg *config) {
		cfg.cspAPIToken = apiToken
	}
}

// CSPClientCredentials authenticates direct ingestion with a CSP
// server-to-server OAuth app. orgID may be empty.
func CSPClientCredentials(clientID, clientSecret, orgID string) Option {
	return func(cfg *config) {
		cfg.cspClientID = clientID
		cfg.cspClientSecret = clientSecret
		cfg.cspOrgID = orgID
	}
}

// tick replaces the flush ticker, used by tests to drive flushes
// deterministically.
func tick(ch <-chan time.Time) Option {
	return func(cfg *config) {
		cfg.tickChan = ch
	}
}
