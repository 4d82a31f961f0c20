package pipeline

import (
	"net/http"
	"time"
)

const (
	defaultDownloadTimeout         = 30 * time.Second
	defaultMaxIdleConns            = 100
	defaultMaxIdleConnsPerHost     = 10
	defaultIdleConnTimeout         = 90 * time.Second
	defaultResponseHeaderTimeout   = 30 * time.Second
	defaultTLSHandshakeTimeout     = 10 * time.Second
)

// NewDownloadClient builds the *http.Client the worker and cron tiers use
// to fetch origin HTML: a bounded connection pool and response-header
// timeout so one slow or hanging origin server can't starve the process's
// other in-flight downloads.
func NewDownloadClient() *http.Client {
	return &http.Client{
		Timeout: defaultDownloadTimeout,
		Transport: &http.Transport{
			MaxIdleConns:          defaultMaxIdleConns,
			MaxIdleConnsPerHost:   defaultMaxIdleConnsPerHost,
			IdleConnTimeout:       defaultIdleConnTimeout,
			ResponseHeaderTimeout: defaultResponseHeaderTimeout,
			TLSHandshakeTimeout:   defaultTLSHandshakeTimeout,
		},
	}
}
