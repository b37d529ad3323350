// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at VMware (https://www.vmware.com/).
// Copyright 2018 VMware, Inc.

// Package application describes the application emitting telemetry and
// keeps its heartbeat visible to the backend.
package application

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/wavefronthq/wavefront-sdk-go/senders"
)

// Tag is one key-value pair of application metadata.
type Tag struct {
	Key   string
	Value string
}

// Tags identifies the application emitting telemetry. Application and
// Service are required; Cluster and Shard report as the literal "none"
// when unset.
type Tags struct {
	Application string
	Service     string
	Cluster     string
	Shard       string
	Custom      map[string]string
}

// TagsOption configures optional application metadata.
type TagsOption func(*Tags)

// Cluster sets the cluster the application runs in.
func Cluster(cluster string) TagsOption {
	return func(t *Tags) {
		t.Cluster = cluster
	}
}

// Shard sets the shard, or mirror, of the application.
func Shard(shard string) TagsOption {
	return func(t *Tags) {
		t.Shard = shard
	}
}

// CustomTag adds one custom tag.
func CustomTag(key, value string) TagsOption {
	return func(t *Tags) {
		t.Custom[key] = value
	}
}

// CustomTags adds a set of custom tags.
func CustomTags(tags map[string]string) TagsOption {
	return func(t *Tags) {
		for k, v := range tags {
			t.Custom[k] = v
		}
	}
}

// NewApplicationTags returns Tags for the given application and service,
// both of which must be non-blank.
func NewApplicationTags(application, service string, opts ...TagsOption) (*Tags, error) {
	if strings.TrimSpace(application) == "" {
		return nil, &senders.ConfigurationError{Reason: "application name is required"}
	}
	if strings.TrimSpace(service) == "" {
		return nil, &senders.ConfigurationError{Reason: "service name is required"}
	}
	t := &Tags{
		Application: application,
		Service:     service,
		Custom:      map[string]string{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

const noneTag = "none"

func orNone(value string) string {
	if value == "" {
		return noneTag
	}
	return value
}

// AsList returns the tags in their fixed reporting order: application,
// service, cluster, shard, then custom tags.
func (t *Tags) AsList() []Tag {
	list := []Tag{
		{Key: "application", Value: t.Application},
		{Key: "service", Value: t.Service},
		{Key: "cluster", Value: orNone(t.Cluster)},
		{Key: "shard", Value: orNone(t.Shard)},
	}
	for k, v := range t.Custom {
		list = append(list, Tag{Key: k, Value: v})
	}
	return list
}

// Map returns every tag, custom included, as a map.
func (t *Tags) Map() map[string]string {
	m := map[string]string{
		"application": t.Application,
		"service":     t.Service,
		"cluster":     orNone(t.Cluster),
		"shard":       orNone(t.Shard),
	}
	for k, v := range t.Custom {
		m[k] = v
	}
	return m
}

// AddCustomTagsFromEnv adds a custom tag for every environment variable
// whose name matches pattern, case-insensitively.
func (t *Tags) AddCustomTagsFromEnv(pattern string) error {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return fmt.Errorf("invalid environment variable pattern %q: %w", pattern, err)
	}
	for _, entry := range os.Environ() {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || value == "" {
			continue
		}
		if re.MatchString(key) {
			t.Custom[key] = value
		}
	}
	return nil
}

// AddCustomTagFromEnv adds the value of the environment variable envVar
// as the custom tag tagKey.
func (t *Tags) AddCustomTagFromEnv(tagKey, envVar string) error {
	value, ok := os.LookupEnv(envVar)
	if !ok || value == "" {
		return fmt.Errorf("environment variable %s is not set", envVar)
	}
	t.Custom[tagKey] = value
	return nil
}
