package transport

import (
	"net"
	"net/http"
	"time"
)

const defaultUserAgent = "spotvoice/1.0"

// NewHTTPClient возвращает http.Client с таймаутом и базовым транспортом.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: newBaseTransport(),
	}
}

// NewAuthorizedClient оборачивает базовый транспорт: каждый запрос получает
// Bearer-токен и User-Agent. Пустой apiKey заголовок Authorization не выставляет.
func NewAuthorizedClient(timeout time.Duration, apiKey string) *http.Client {
	client := NewHTTPClient(timeout)
	client.Transport = &authTransport{
		base:      client.Transport,
		apiKey:    apiKey,
		userAgent: defaultUserAgent,
	}
	return client
}

func newBaseTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

type authTransport struct {
	base      http.RoundTripper
	apiKey    string
	userAgent string
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTripper не должен менять исходный запрос.
	clone := req.Clone(req.Context())
	if t.apiKey != "" && clone.Header.Get("Authorization") == "" {
		clone.Header.Set("Authorization", "Bearer "+t.apiKey)
	}
	if clone.Header.Get("User-Agent") == "" {
		clone.Header.Set("User-Agent", t.userAgent)
	}
	return t.base.RoundTrip(clone)
}
