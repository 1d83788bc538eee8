package httputil

import "net/http"

// APIHeaders returns the headers sent with every JSON API request.
func APIHeaders() http.Header {
	h := http.Header{}
	h.Set("Accept", "application/json")
	h.Set("Accept-Encoding", "gzip, br")
	return h
}
