// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at VMware (https://www.vmware.com/).
// Copyright 2018 VMware, Inc.

package lines

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventJSON(t *testing.T) {
	out, err := EventJSON("event-via-direct", 1590678089, 1590679089, "localhost",
		[]string{"env:test"}, map[string]string{"severity": "severe"}, "defaultSource")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"event-via-direct","annotations":{"severity":"severe"},`+
		`"hosts":["localhost"],"startTime":1590678089,"endTime":1590679089,`+
		`"tags":["env:test"]}`, out)
}

func TestEventJSONDefaults(t *testing.T) {
	out, err := EventJSON("backup", 1590678089, 0, "", nil, nil, "defaultSource")
	require.NoError(t, err)

	var ev map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &ev))
	assert.Equal(t, []interface{}{"defaultSource"}, ev["hosts"])
	assert.Equal(t, float64(1590678090), ev["endTime"])
	assert.Equal(t, map[string]interface{}{}, ev["annotations"])
	assert.NotContains(t, ev, "tags")
}

func TestEventLine(t *testing.T) {
	out, err := EventLine("backup", 1590678089, 1590679089, "localhost",
		[]string{"env:test"},
		map[string]string{"severity": "severe", "type": "backup"}, "defaultSource")
	require.NoError(t, err)
	assert.Equal(t, "@Event 1590678089 1590679089 \"backup\""+
		" severity=\"severe\" type=\"backup\" host=\"localhost\" tag=\"env:test\"\n", out)
}

func TestEventLineDefaultEndTime(t *testing.T) {
	out, err := EventLine("backup", 1590678089, 0, "localhost", nil, nil, "defaultSource")
	require.NoError(t, err)
	assert.Equal(t, "@Event 1590678089 1590678090 \"backup\" host=\"localhost\"\n", out)
}

func TestEventInvalid(t *testing.T) {
	var invalid *InvalidArgumentError

	_, err := EventJSON(" ", 1, 0, "s", nil, nil, "d")
	require.ErrorAs(t, err, &invalid)

	_, err = EventJSON("backup", 0, 0, "s", nil, nil, "d")
	require.ErrorAs(t, err, &invalid)

	_, err = EventJSON("backup", 1, 0, "s", []string{" "}, nil, "d")
	require.ErrorAs(t, err, &invalid)

	_, err = EventLine("backup", 1, 0, "s", nil, map[string]string{"k": " "}, "d")
	require.ErrorAs(t, err, &invalid)
}
