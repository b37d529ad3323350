// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at VMware (https://www.vmware.com/).
// Copyright 2018 VMware, Inc.

package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavefronthq/wavefront-sdk-go/senders"
)

func TestNewApplicationTags(t *testing.T) {
	tags, err := NewApplicationTags("ordering", "checkout",
		Cluster("us-west-2"), Shard("primary"), CustomTag("team", "payments"))
	require.NoError(t, err)
	assert.Equal(t, []Tag{
		{Key: "application", Value: "ordering"},
		{Key: "service", Value: "checkout"},
		{Key: "cluster", Value: "us-west-2"},
		{Key: "shard", Value: "primary"},
		{Key: "team", Value: "payments"},
	}, tags.AsList())
}

func TestNewApplicationTagsDefaults(t *testing.T) {
	tags, err := NewApplicationTags("ordering", "checkout")
	require.NoError(t, err)
	list := tags.AsList()
	assert.Equal(t, Tag{Key: "cluster", Value: "none"}, list[2])
	assert.Equal(t, Tag{Key: "shard", Value: "none"}, list[3])
}

func TestNewApplicationTagsRequired(t *testing.T) {
	var confErr *senders.ConfigurationError
	_, err := NewApplicationTags(" ", "checkout")
	require.ErrorAs(t, err, &confErr)
	_, err = NewApplicationTags("ordering", "")
	require.ErrorAs(t, err, &confErr)
}

func TestTagsMap(t *testing.T) {
	tags, err := NewApplicationTags("ordering", "checkout", CustomTag("team", "payments"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"application": "ordering",
		"service":     "checkout",
		"cluster":     "none",
		"shard":       "none",
		"team":        "payments",
	}, tags.Map())
}

func TestAddCustomTagsFromEnv(t *testing.T) {
	t.Setenv("DEPLOY_REGION", "us-west-2")
	t.Setenv("DEPLOY_STAGE", "prod")
	t.Setenv("HOSTTYPE_IGNORED", "x86")

	tags, err := NewApplicationTags("ordering", "checkout")
	require.NoError(t, err)
	require.NoError(t, tags.AddCustomTagsFromEnv("^deploy_.*"))
	assert.Equal(t, "us-west-2", tags.Custom["DEPLOY_REGION"])
	assert.Equal(t, "prod", tags.Custom["DEPLOY_STAGE"])
	assert.NotContains(t, tags.Custom, "HOSTTYPE_IGNORED")
}

func TestAddCustomTagsFromEnvBadPattern(t *testing.T) {
	tags, err := NewApplicationTags("ordering", "checkout")
	require.NoError(t, err)
	require.Error(t, tags.AddCustomTagsFromEnv("("))
}

func TestAddCustomTagFromEnv(t *testing.T) {
	t.Setenv("BUILD_NUMBER", "1042")
	tags, err := NewApplicationTags("ordering", "checkout")
	require.NoError(t, err)

	require.NoError(t, tags.AddCustomTagFromEnv("build", "BUILD_NUMBER"))
	assert.Equal(t, "1042", tags.Custom["build"])

	require.Error(t, tags.AddCustomTagFromEnv("missing", "NO_SUCH_ENV_VAR"))
}
