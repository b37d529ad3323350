// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at VMware (https://www.vmware.com/).
// Copyright 2018 VMware, Inc.

package auth

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/wavefronthq/wavefront-sdk-go/internal/log"
)

// DefaultCSPBaseURL is the production CSP auth server.
const DefaultCSPBaseURL = "https://console.cloud.vmware.com"

const cspRequestTimeout = 30 * time.Second

// credentials describes one CSP grant flavour: where to post, what form
// body to send and which Authorization header, if any, to attach.
type credentials interface {
	authPath() string
	body() url.Values
	authorization() string
}

type apiTokenCredentials struct {
	apiToken string
}

func (c apiTokenCredentials) authPath() string {
	return "/csp/gateway/am/api/auth/api-tokens/authorize"
}

func (c apiTokenCredentials) body() url.Values {
	return url.Values{"api_token": {c.apiToken}}
}

func (c apiTokenCredentials) authorization() string {
	return ""
}

type clientCredentials struct {
	clientID     string
	clientSecret string
	orgID        string
}

func (c clientCredentials) authPath() string {
	return "/csp/gateway/am/api/auth/authorize"
}

func (c clientCredentials) body() url.Values {
	values := url.Values{"grant_type": {"client_credentials"}}
	if c.orgID != "" {
		values.Set("orgId", c.orgID)
	}
	return values
}

func (c clientCredentials) authorization() string {
	raw := c.clientID + ":" + c.clientSecret
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(raw))
}

type cspTokenService struct {
	baseURL string
	creds   credentials
	client  *http.Client
	now     func() time.Time

	mu        sync.Mutex // guards below fields
	token     string
	expiresAt time.Time
	timer     *time.Timer
	closed    bool
}

// NewCSPAPITokenService returns a TokenService exchanging a CSP API token
// for short-lived access tokens. An empty baseURL selects the production
// CSP server.
func NewCSPAPITokenService(baseURL, apiToken string) TokenService {
	return newCSPTokenService(baseURL, apiTokenCredentials{apiToken: apiToken})
}

// NewCSPClientCredentialsService returns a TokenService using the CSP
// client-credentials grant for a server-to-server OAuth app. orgID may be
// empty.
func NewCSPClientCredentialsService(baseURL, clientID, clientSecret, orgID string) TokenService {
	return newCSPTokenService(baseURL, clientCredentials{
		clientID:     clientID,
		clientSecret: clientSecret,
		orgID:        orgID,
	})
}

func newCSPTokenService(baseURL string, creds credentials) *cspTokenService {
	if baseURL == "" {
		baseURL = DefaultCSPBaseURL
	}
	return &cspTokenService{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		client:  &http.Client{Timeout: cspRequestTimeout},
		now:     time.Now,
	}
}

// GetToken returns the cached access token while it is still fresh and
// refreshes it synchronously otherwise.
func (s *cspTokenService) GetToken() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != "" && s.now().Before(s.expiresAt) {
		return s.token, nil
	}
	if err := s.refresh(); err != nil {
		return "", err
	}
	return s.token, nil
}

// Close cancels the scheduled refresh. The service stops fetching tokens.
func (s *cspTokenService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

type cspResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

// refresh fetches a new access token. Callers hold s.mu.
func (s *cspTokenService) refresh() error {
	req, err := http.NewRequest(http.MethodPost,
		s.baseURL+s.creds.authPath(), strings.NewReader(s.creds.body().Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if authz := s.creds.authorization(); authz != "" {
		req.Header.Set("Authorization", authz)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("error requesting CSP access token: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading CSP response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("error requesting CSP access token: status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed cspResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("error decoding CSP response: %w", err)
	}
	if !hasDirectIngestScope(parsed.Scope) {
		log.Error("CSP token does not have direct data ingestion permission")
	}

	offset := refreshOffset(parsed.ExpiresIn)
	s.token = parsed.AccessToken
	s.expiresAt = s.now().Add(time.Duration(offset) * time.Second)
	s.scheduleRefresh(offset)
	return nil
}

// scheduleRefresh arms a timer so the token is renewed before requests see
// it expire. A zero offset leaves renewal to the next GetToken call.
// Callers hold s.mu.
func (s *cspTokenService) scheduleRefresh(offsetSeconds int) {
	if s.closed || offsetSeconds == 0 {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(time.Duration(offsetSeconds)*time.Second, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return
		}
		if err := s.refresh(); err != nil {
			log.Error("error refreshing CSP access token: %v", err)
		}
	})
}

// refreshOffset returns how many seconds before expiry minus a safety
// margin the token should be renewed, never negative.
func refreshOffset(expiresIn int) int {
	offset := expiresIn - 180
	if expiresIn < 600 {
		offset = expiresIn - 30
	}
	if offset < 0 {
		return 0
	}
	return offset
}

var ingestScopeSuffixes = []string{
	"aoa:directDataIngestion",
	"aoa:*",
	"aoa/*",
	"ALL_PERMISSIONS",
}

// hasDirectIngestScope reports whether any whitespace-separated scope token
// grants direct data ingestion.
func hasDirectIngestScope(scope string) bool {
	for _, token := range strings.Fields(scope) {
		for _, suffix := range ingestScopeSuffixes {
			if strings.HasSuffix(token, suffix) {
				return true
			}
		}
	}
	return false
}
