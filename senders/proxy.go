// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at VMware (https://www.vmware.com/).
// Copyright 2018 VMware, Inc.

package senders

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/wavefronthq/wavefront-sdk-go/internal/log"
	"github.com/wavefronthq/wavefront-sdk-go/internal/sdkmetrics"
)

// connectionHandler is one reconnecting TCP writer to a proxy family
// port. Sends are serialized; a failed write reconnects and retries
// exactly once.
type connectionHandler struct {
	addr    string
	timeout time.Duration

	writeSuccesses *sdkmetrics.Counter
	writeErrors    *sdkmetrics.Counter

	mu   sync.Mutex // guards conn
	conn net.Conn
}

func newConnectionHandler(host string, port int, timeout time.Duration, name string, registry *sdkmetrics.Registry) *connectionHandler {
	return &connectionHandler{
		addr:           fmt.Sprintf("%s:%d", host, port),
		timeout:        timeout,
		writeSuccesses: registry.NewDeltaCounter(name + ".write.success"),
		writeErrors:    registry.NewDeltaCounter(name + ".write.errors"),
	}
}

func (h *connectionHandler) sendLine(line string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conn == nil {
		if err := h.connect(); err != nil {
			h.writeErrors.Inc()
			return err
		}
	}
	if _, err := h.conn.Write([]byte(line)); err != nil {
		// One reconnect, then give up on this line.
		h.closeConn()
		if err = h.connect(); err != nil {
			h.writeErrors.Inc()
			return err
		}
		if _, err = h.conn.Write([]byte(line)); err != nil {
			h.closeConn()
			h.writeErrors.Inc()
			return err
		}
	}
	h.writeSuccesses.Inc()
	return nil
}

// connect dials the proxy port. Callers hold h.mu.
func (h *connectionHandler) connect() error {
	conn, err := net.DialTimeout("tcp", h.addr, h.timeout)
	if err != nil {
		return fmt.Errorf("error connecting to proxy at %s: %w", h.addr, err)
	}
	h.conn = conn
	return nil
}

// closeConn drops the socket. Callers hold h.mu.
func (h *connectionHandler) closeConn() {
	if h.conn != nil {
		_ = h.conn.Close()
		h.conn = nil
	}
}

func (h *connectionHandler) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closeConn()
}

// portNotConfiguredError marks lines for a data family whose proxy port
// was never configured. The pipeline drops such lines with a warning
// instead of retrying them.
type portNotConfiguredError struct {
	format string
	option string
}

func (e *portNotConfiguredError) Error() string {
	return fmt.Sprintf("no proxy port configured for %s data, set the %s option", e.format, e.option)
}

// proxyTransport routes each data family to its connection handler. Span
// logs share the tracing port.
type proxyTransport struct {
	handlers map[string]*connectionHandler
	options  map[string]string // format to the option that configures its port
}

var _ transport = (*proxyTransport)(nil)

func newProxyTransport(host string, cfg *config, registry *sdkmetrics.Registry) *proxyTransport {
	t := &proxyTransport{
		handlers: map[string]*connectionHandler{},
		options: map[string]string{
			formatWavefront: "MetricsPort",
			formatHistogram: "DistributionPort",
			formatTrace:     "TracingPort",
			formatSpanLogs:  "TracingPort",
			formatEvent:     "EventsPort",
		},
	}
	if cfg.metricsPort > 0 {
		t.handlers[formatWavefront] = newConnectionHandler(
			host, cfg.metricsPort, cfg.timeout, "metricHandler", registry)
	}
	if cfg.distributionPort > 0 {
		t.handlers[formatHistogram] = newConnectionHandler(
			host, cfg.distributionPort, cfg.timeout, "histogramHandler", registry)
	}
	if cfg.tracingPort > 0 {
		tracing := newConnectionHandler(
			host, cfg.tracingPort, cfg.timeout, "spanHandler", registry)
		t.handlers[formatTrace] = tracing
		t.handlers[formatSpanLogs] = tracing
	}
	if cfg.eventsPort > 0 {
		t.handlers[formatEvent] = newConnectionHandler(
			host, cfg.eventsPort, cfg.timeout, "eventHandler", registry)
	}
	return t
}

func (t *proxyTransport) report(format string, batch []string) (int, error) {
	h, ok := t.handlers[format]
	if !ok {
		return noHTTPResponse, &portNotConfiguredError{format: format, option: t.options[format]}
	}
	for _, line := range batch {
		if !strings.HasSuffix(line, "\n") {
			line += "\n"
		}
		if err := h.sendLine(line); err != nil {
			log.Error("error sending %s data to proxy: %v", format, err)
			return noHTTPResponse, err
		}
	}
	return http.StatusOK, nil
}

func (t *proxyTransport) close() {
	for _, h := range t.handlers {
		h.close()
	}
}
