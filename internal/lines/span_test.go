// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at VMware (https://www.vmware.com/).
// Copyright 2018 VMware, Inc.

package lines

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testTraceID = uuid.MustParse("7b3bf470-9456-11e8-9eb6-529269fb1459")
	testSpanID  = uuid.MustParse("0313bafe-9457-11e8-9eb6-529269fb1459")
	testParent  = uuid.MustParse("2f64e538-9457-11e8-9eb6-529269fb1459")
	testFollows = uuid.MustParse("5f64e538-9457-11e8-9eb6-529269fb1459")
)

func TestSpanLine(t *testing.T) {
	line, err := SpanLine("getAllUsers", 1493773500, 343500, "localhost",
		testTraceID, testSpanID, []uuid.UUID{testParent}, []uuid.UUID{testFollows},
		[]SpanTag{{"application", "Wavefront"}, {"http.method", "GET"}}, nil,
		"defaultSource")
	require.NoError(t, err)
	assert.Equal(t, "\"getAllUsers\" source=\"localhost\""+
		" traceId=7b3bf470-9456-11e8-9eb6-529269fb1459"+
		" spanId=0313bafe-9457-11e8-9eb6-529269fb1459"+
		" parent=2f64e538-9457-11e8-9eb6-529269fb1459"+
		" followsFrom=5f64e538-9457-11e8-9eb6-529269fb1459"+
		" \"application\"=\"Wavefront\" \"http.method\"=\"GET\""+
		" 1493773500 343500\n", line)
}

func TestSpanLineRootSpan(t *testing.T) {
	line, err := SpanLine("getAllUsers", 1493773500, 343500, "localhost",
		testTraceID, testSpanID, nil, nil, nil, nil, "defaultSource")
	require.NoError(t, err)
	assert.Equal(t, "\"getAllUsers\" source=\"localhost\""+
		" traceId=7b3bf470-9456-11e8-9eb6-529269fb1459"+
		" spanId=0313bafe-9457-11e8-9eb6-529269fb1459"+
		" 1493773500 343500\n", line)
}

func TestSpanLineDuplicateTags(t *testing.T) {
	line, err := SpanLine("getAllUsers", 1493773500, 343500, "localhost",
		testTraceID, testSpanID, nil, nil,
		[]SpanTag{
			{"application", "Wavefront"},
			{"http.method", "GET"},
			{"application", "Wavefront"},
		}, nil, "defaultSource")
	require.NoError(t, err)
	assert.Equal(t, "\"getAllUsers\" source=\"localhost\""+
		" traceId=7b3bf470-9456-11e8-9eb6-529269fb1459"+
		" spanId=0313bafe-9457-11e8-9eb6-529269fb1459"+
		" \"application\"=\"Wavefront\" \"http.method\"=\"GET\""+
		" 1493773500 343500\n", line)
}

func TestSpanLineWithSpanLogs(t *testing.T) {
	logs := []SpanLog{{Timestamp: 1635123789456000, Fields: map[string]string{"FooLogKey": "FooLogValue"}}}
	line, err := SpanLine("getAllUsers", 1493773500, 343500, "localhost",
		testTraceID, testSpanID, nil, nil,
		[]SpanTag{{"application", "Wavefront"}}, logs, "defaultSource")
	require.NoError(t, err)
	assert.Equal(t, "\"getAllUsers\" source=\"localhost\""+
		" traceId=7b3bf470-9456-11e8-9eb6-529269fb1459"+
		" spanId=0313bafe-9457-11e8-9eb6-529269fb1459"+
		" \"application\"=\"Wavefront\" \"_spanLogs\"=\"true\""+
		" 1493773500 343500\n", line)
}

func TestSpanLineDoesNotMutateCallerTags(t *testing.T) {
	logs := []SpanLog{{Timestamp: 1, Fields: map[string]string{"k": "v"}}}
	tags := []SpanTag{{"application", "Wavefront"}}
	_, err := SpanLine("getAllUsers", 1493773500, 343500, "localhost",
		testTraceID, testSpanID, nil, nil, tags, logs, "defaultSource")
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}

func TestSpanLineInvalid(t *testing.T) {
	var invalid *InvalidArgumentError

	_, err := SpanLine(" ", 1, 1, "localhost", testTraceID, testSpanID,
		nil, nil, nil, nil, "defaultSource")
	require.ErrorAs(t, err, &invalid)

	_, err = SpanLine("getAllUsers", 1, 1, "localhost", testTraceID, testSpanID,
		nil, nil, []SpanTag{{" ", "v"}}, nil, "defaultSource")
	require.ErrorAs(t, err, &invalid)

	_, err = SpanLine("getAllUsers", 1, 1, "localhost", testTraceID, testSpanID,
		nil, nil, []SpanTag{{"k", " "}}, nil, "defaultSource")
	require.ErrorAs(t, err, &invalid)
}

func TestSpanLogJSON(t *testing.T) {
	logs := []SpanLog{{Timestamp: 1635123789456000, Fields: map[string]string{"FooLogKey": "FooLogValue"}}}
	span, err := SpanLine("getAllUsers", 1493773500, 343500, "localhost",
		testTraceID, testSpanID, nil, nil, nil, logs, "defaultSource")
	require.NoError(t, err)
	out, err := SpanLogJSON(testTraceID, testSpanID, logs, span)
	require.NoError(t, err)
	assert.Equal(t, `{"traceId":"7b3bf470-9456-11e8-9eb6-529269fb1459",`+
		`"spanId":"0313bafe-9457-11e8-9eb6-529269fb1459",`+
		`"logs":[{"timestamp":1635123789456000,"fields":{"FooLogKey":"FooLogValue"}}],`+
		`"span":"\"getAllUsers\" source=\"localhost\"`+
		` traceId=7b3bf470-9456-11e8-9eb6-529269fb1459`+
		` spanId=0313bafe-9457-11e8-9eb6-529269fb1459`+
		` \"_spanLogs\"=\"true\" 1493773500 343500\n"}`+"\n", out)
}
