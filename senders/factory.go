// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at VMware (https://www.vmware.com/).
// Copyright 2018 VMware, Inc.

package senders

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync"

	"github.com/wavefronthq/wavefront-sdk-go/internal/auth"
	"github.com/wavefronthq/wavefront-sdk-go/internal/lines"
	"github.com/wavefronthq/wavefront-sdk-go/internal/sdkmetrics"
)

// endpoint is a classified ingestion URL.
type endpoint struct {
	server string // scheme://host[:port], the deduplication key
	token  string // userinfo of an https URL, may be empty
	host   string
	port   int  // port of a proxy URL, zero when absent
	direct bool // true for direct ingestion over https
}

// resolveEndpoint classifies an ingestion URL by scheme: https means
// direct ingestion with an optional token as userinfo, http and proxy
// mean a Wavefront proxy.
func resolveEndpoint(rawURL string) (*endpoint, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("invalid endpoint URL %q: %v", rawURL, err)}
	}
	switch u.Scheme {
	case "https":
		return &endpoint{
			server: "https://" + u.Host,
			token:  u.User.Username(),
			host:   u.Hostname(),
			direct: true,
		}, nil
	case "http", "proxy":
		port, _ := strconv.Atoi(u.Port())
		return &endpoint{
			server: "http://" + u.Host,
			host:   u.Hostname(),
			port:   port,
		}, nil
	default:
		return nil, &ConfigurationError{Reason: fmt.Sprintf("unknown scheme %q in endpoint URL %q", u.Scheme, rawURL)}
	}
}

// NewSender builds a sender for one ingestion URL. An https URL selects
// direct ingestion, http or proxy URLs select a Wavefront proxy whose URL
// port becomes the metrics port.
func NewSender(wfURL string, opts ...Option) (Sender, error) {
	ep, err := resolveEndpoint(wfURL)
	if err != nil {
		return nil, err
	}
	cfg := &config{}
	defaults(cfg)
	if !ep.direct && ep.port > 0 {
		cfg.metricsPort = ep.port
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return newClient(ep, cfg)
}

func newClient(ep *endpoint, cfg *config) (Sender, error) {
	var tokenService auth.TokenService
	if ep.direct {
		var err error
		if tokenService, err = tokenServiceFor(ep, cfg); err != nil {
			return nil, err
		}
	}

	source := defaultSource()
	c := &client{
		defaultSource: source,
		flushRequests: make(chan chan error),
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}

	variant := "proxy"
	c.encodeEvent = lines.EventLine
	if ep.direct {
		variant = "direct"
		c.encodeEvent = lines.EventJSON
	}

	if cfg.internalMetrics {
		regOpts := []sdkmetrics.RegistryOption{
			sdkmetrics.Prefix("~sdk.python.core.sender." + variant),
			sdkmetrics.Source(source),
		}
		for k, v := range cfg.sdkMetricsTags {
			regOpts = append(regOpts, sdkmetrics.Tag(k, v))
		}
		c.registry = sdkmetrics.New(c, regOpts...)
	} else {
		c.registry = sdkmetrics.Disabled()
	}

	if ep.direct {
		httpClient := cfg.httpClient
		if httpClient == nil {
			httpClient = &http.Client{Timeout: cfg.timeout}
		}
		c.transport = newReporter(ep.server, tokenService, httpClient)
	} else {
		c.transport = newProxyTransport(ep.host, cfg, c.registry)
	}

	c.setup(cfg)
	c.run(cfg)
	return c, nil
}

// tokenServiceFor selects the direct ingestion credential: CSP client
// credentials, a CSP API token, the URL's embedded token, or nothing.
func tokenServiceFor(ep *endpoint, cfg *config) (auth.TokenService, error) {
	switch {
	case cfg.cspClientID != "" && cfg.cspClientSecret == "":
		return nil, &ConfigurationError{Reason: "a CSP client secret is required when a CSP client id is set"}
	case cfg.cspClientID != "":
		return auth.NewCSPClientCredentialsService(cfg.cspBaseURL, cfg.cspClientID, cfg.cspClientSecret, cfg.cspOrgID), nil
	case cfg.cspAPIToken != "":
		return auth.NewCSPAPITokenService(cfg.cspBaseURL, cfg.cspAPIToken), nil
	case ep.token != "":
		return auth.NewStaticTokenService(ep.token), nil
	default:
		return auth.NewNoopTokenService(), nil
	}
}

func defaultSource() string {
	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		return hostname
	}
	return "unknown"
}

// ClientFactory accumulates ingestion endpoints and hands out a single
// Sender covering all of them.
type ClientFactory struct {
	mu      sync.Mutex // guards below fields
	servers map[string]bool
	clients []Sender
}

// NewClientFactory returns an empty factory.
func NewClientFactory() *ClientFactory {
	return &ClientFactory{servers: map[string]bool{}}
}

// AddClient builds a sender for the given URL. Two URLs resolving to the
// same server are a ConfigurationError.
func (f *ClientFactory) AddClient(wfURL string, opts ...Option) error {
	ep, err := resolveEndpoint(wfURL)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.servers[ep.server] {
		return &ConfigurationError{Reason: fmt.Sprintf("duplicate endpoint %s", ep.server)}
	}
	sender, err := NewSender(wfURL, opts...)
	if err != nil {
		return err
	}
	f.servers[ep.server] = true
	f.clients = append(f.clients, sender)
	return nil
}

// GetClient returns nil when no endpoint was added, the sole sender for
// one, and a MultiSender fanning out to all of them otherwise.
func (f *ClientFactory) GetClient() Sender {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch len(f.clients) {
	case 0:
		return nil
	case 1:
		return f.clients[0]
	default:
		return &MultiSender{senders: append([]Sender(nil), f.clients...)}
	}
}
