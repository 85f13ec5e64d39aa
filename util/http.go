package util

import (
	"net/http"
	"net/url"
)

func GetLogSafeQueryString(r *http.Request) string {
	qs := r.URL.Query()

	if qs.Get("access_token") != "" {
		qs.Set("access_token", "redacted")
	}

	return qs.Encode()
}

func GetLogSafeUrl(r *http.Request) string {
	copyUrl, _ := url.ParseRequestURI(r.URL.String())
	copyUrl.RawQuery = GetLogSafeQueryString(r)
	return copyUrl.String()
}
