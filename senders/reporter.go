// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at VMware (https://www.vmware.com/).
// Copyright 2018 VMware, Inc.

package senders

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/wavefronthq/wavefront-sdk-go/internal/auth"
)

// noHTTPResponse is the status sentinel for failures where no HTTP
// response was received at all.
const noHTTPResponse = -1

const (
	reportEndpoint = "/report"
	eventEndpoint  = "/api/v2/event"

	contentType     = "Content-Type"
	contentEncoding = "Content-Encoding"
	authorization   = "Authorization"

	octetStream     = "application/octet-stream"
	applicationJSON = "application/json"
)

// transport ships one batch of encoded lines for a data family. report
// returns the HTTP status, or noHTTPResponse when the request never
// reached the server.
type transport interface {
	report(format string, batch []string) (int, error)
	close()
}

// reporter is the direct ingestion transport. Line formats POST
// gzip-compressed bodies to {server}/report?f={format}; events POST their
// JSON form to {server}/api/v2/event.
type reporter struct {
	serverURL    string
	tokenService auth.TokenService
	client       *http.Client
}

var _ transport = (*reporter)(nil)

func newReporter(serverURL string, tokenService auth.TokenService, client *http.Client) *reporter {
	return &reporter{
		serverURL:    serverURL,
		tokenService: tokenService,
		client:       client,
	}
}

func (r *reporter) report(format string, batch []string) (int, error) {
	if len(batch) == 0 {
		return http.StatusOK, nil
	}
	if format == formatEvent {
		return r.reportEvent(batch[0])
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	for _, line := range batch {
		if _, err := io.WriteString(gz, line); err != nil {
			return noHTTPResponse, err
		}
		if !strings.HasSuffix(line, "\n") {
			if _, err := io.WriteString(gz, "\n"); err != nil {
				return noHTTPResponse, err
			}
		}
	}
	if err := gz.Close(); err != nil {
		return noHTTPResponse, err
	}

	req, err := http.NewRequest(http.MethodPost, r.serverURL+reportEndpoint, &buf)
	if err != nil {
		return noHTTPResponse, err
	}
	q := req.URL.Query()
	q.Set("f", format)
	req.URL.RawQuery = q.Encode()
	req.Header.Set(contentType, octetStream)
	req.Header.Set(contentEncoding, "gzip")
	if err := r.authorize(req); err != nil {
		return noHTTPResponse, err
	}
	return r.do(req)
}

// reportEvent posts a single event JSON object, uncompressed.
func (r *reporter) reportEvent(event string) (int, error) {
	req, err := http.NewRequest(http.MethodPost, r.serverURL+eventEndpoint, strings.NewReader(event))
	if err != nil {
		return noHTTPResponse, err
	}
	req.Header.Set(contentType, applicationJSON)
	if err := r.authorize(req); err != nil {
		return noHTTPResponse, err
	}
	return r.do(req)
}

func (r *reporter) authorize(req *http.Request) error {
	token, err := r.tokenService.GetToken()
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set(authorization, "Bearer "+token)
	}
	return nil
}

func (r *reporter) do(req *http.Request) (int, error) {
	resp, err := r.client.Do(req)
	if err != nil {
		return noHTTPResponse, err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return resp.StatusCode, nil
}

func (r *reporter) close() {
	r.tokenService.Close()
	r.client.CloseIdleConnections()
}
