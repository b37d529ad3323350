// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at VMware (https://www.vmware.com/).
// Copyright 2018 VMware, Inc.

package lines

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

type eventJSON struct {
	Name        string            `json:"name"`
	Annotations map[string]string `json:"annotations"`
	Hosts       []string          `json:"hosts"`
	StartTime   int64             `json:"startTime"`
	EndTime     int64             `json:"endTime"`
	Tags        []string          `json:"tags,omitempty"`
}

// EventJSON encodes one event in the JSON form accepted by the direct
// ingestion event endpoint. A zero endMillis defaults to startMillis+1.
func EventJSON(name string, startMillis, endMillis int64, source string, tags []string, annotations map[string]string, defaultSource string) (string, error) {
	if err := validateEvent(name, startMillis, tags, annotations); err != nil {
		return "", err
	}
	if isBlank(source) {
		source = defaultSource
	}
	if endMillis == 0 {
		endMillis = startMillis + 1
	}
	if annotations == nil {
		annotations = map[string]string{}
	}
	ev := eventJSON{
		Name:        name,
		Annotations: annotations,
		Hosts:       []string{source},
		StartTime:   startMillis,
		EndTime:     endMillis,
		Tags:        tags,
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(ev); err != nil {
		return "", invalidArg("event", err.Error())
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// EventLine encodes one event in the line form forwarded by a proxy:
//
//	@Event <startMillis> <endMillis> "<name>" [<key>="<value>" ...]
//	host="<source>" [tag="<tag>" ...]
//
// Annotation keys render in sorted order. Event names, annotations and
// sources travel unsanitized; the proxy owns any further quoting.
func EventLine(name string, startMillis, endMillis int64, source string, tags []string, annotations map[string]string, defaultSource string) (string, error) {
	if err := validateEvent(name, startMillis, tags, annotations); err != nil {
		return "", err
	}
	if isBlank(source) {
		source = defaultSource
	}
	if endMillis == 0 {
		endMillis = startMillis + 1
	}
	var sb strings.Builder
	sb.WriteString("@Event ")
	sb.WriteString(strconv.FormatInt(startMillis, 10))
	sb.WriteByte(' ')
	sb.WriteString(strconv.FormatInt(endMillis, 10))
	sb.WriteString(` "`)
	sb.WriteString(name)
	sb.WriteByte('"')
	keys := make([]string, 0, len(annotations))
	for k := range annotations {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteByte(' ')
		sb.WriteString(k)
		sb.WriteString(`="`)
		sb.WriteString(annotations[k])
		sb.WriteByte('"')
	}
	sb.WriteString(` host="`)
	sb.WriteString(source)
	sb.WriteByte('"')
	for _, t := range tags {
		sb.WriteString(` tag="`)
		sb.WriteString(t)
		sb.WriteByte('"')
	}
	sb.WriteByte('\n')
	return sb.String(), nil
}

func validateEvent(name string, startMillis int64, tags []string, annotations map[string]string) error {
	if isBlank(name) {
		return invalidArg("event", "name cannot be blank")
	}
	if startMillis == 0 {
		return invalidArg("event", "start time cannot be blank")
	}
	for _, t := range tags {
		if isBlank(t) {
			return invalidArg("event", "tag cannot be blank")
		}
	}
	for k, v := range annotations {
		if isBlank(k) {
			return invalidArg("event", "annotation key cannot be blank")
		}
		if isBlank(v) {
			return invalidArg("event", "annotation value cannot be blank for key: "+k)
		}
	}
	return nil
}
