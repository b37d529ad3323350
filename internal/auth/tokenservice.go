// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at VMware (https://www.vmware.com/).
// Copyright 2018 VMware, Inc.

// Package auth obtains the bearer tokens used to authenticate direct data
// ingestion, either a fixed Wavefront API token or a short-lived token
// exchanged with the CSP (Cloud Services Platform) auth server.
package auth

// TokenService supplies the bearer token to attach to direct ingestion
// requests.
type TokenService interface {
	// GetToken returns a currently valid token, fetching or refreshing one
	// when needed.
	GetToken() (string, error)
	// Close releases any refresh state held by the service.
	Close()
}

type staticTokenService struct {
	token string
}

// NewStaticTokenService returns a TokenService that always hands out the
// given Wavefront API token.
func NewStaticTokenService(token string) TokenService {
	return &staticTokenService{token: token}
}

func (s *staticTokenService) GetToken() (string, error) {
	return s.token, nil
}

func (s *staticTokenService) Close() {}

type noopTokenService struct{}

// NewNoopTokenService returns a TokenService for unauthenticated endpoints
// such as proxies.
func NewNoopTokenService() TokenService {
	return &noopTokenService{}
}

func (s *noopTokenService) GetToken() (string, error) {
	return "", nil
}

func (s *noopTokenService) Close() {}
