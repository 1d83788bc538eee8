package httputil

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func response(encoding string, body []byte) *http.Response {
	h := http.Header{}
	if encoding != "" {
		h.Set("Content-Encoding", encoding)
	}
	return &http.Response{Header: h, Body: io.NopCloser(bytes.NewReader(body))}
}

func TestReadBody(t *testing.T) {
	payload := []byte(`{"matches":[]}`)

	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	_, err := gw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	var br bytes.Buffer
	bw := brotli.NewWriter(&br)
	_, err = bw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, bw.Close())

	tests := []struct {
		name     string
		encoding string
		body     []byte
	}{
		{name: "identity", encoding: "", body: payload},
		{name: "gzip", encoding: "gzip", body: gz.Bytes()},
		{name: "brotli", encoding: "br", body: br.Bytes()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadBody(response(tt.encoding, tt.body))
			require.NoError(t, err)
			assert.Equal(t, payload, got)
		})
	}
}

func TestReadBody_BadGzip(t *testing.T) {
	_, err := ReadBody(response("gzip", []byte("plain")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gzip reader")
}

func TestNewHTTPClientDefaults(t *testing.T) {
	c := NewHTTPClient(nil, 0)
	assert.Equal(t, 30*time.Second, c.Timeout)
	assert.IsType(t, &http.Transport{}, c.Transport)
	assert.Equal(t, "gzip, br", APIHeaders().Get("Accept-Encoding"))
}
