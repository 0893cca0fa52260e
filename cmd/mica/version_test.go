package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestRenderVersionPretty(t *testing.T) {
	var buf bytes.Buffer
	info := versionInfo{Version: "1.2.3", GitCommit: "abc123"}

	renderVersionPretty(&buf, info, versionOptions{showHash: true, showDate: true})
	out := buf.String()
	be.True(t, strings.HasPrefix(out, "mica 1.2.3 - "))
	be.True(t, strings.Contains(out, "commit: abc123"))
	be.True(t, strings.Contains(out, "built:  unknown"))
}

func TestRenderVersionJSON(t *testing.T) {
	var buf bytes.Buffer
	info := versionInfo{Version: "1.2.3"}

	be.Err(t, renderVersionJSON(&buf, info, versionOptions{showHash: true}), nil)

	var payload versionPayload
	be.Err(t, json.Unmarshal(buf.Bytes(), &payload), nil)
	be.Equal(t, payload.Tool, "mica")
	be.Equal(t, payload.Version, "1.2.3")
	be.Equal(t, payload.GitCommit, "unknown")
	be.Equal(t, payload.BuildDate, "")
}
