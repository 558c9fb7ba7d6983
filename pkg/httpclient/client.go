/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const (
	DefaultTimeout = 30 * time.Second
	DefaultMaxTry  = 2
)

// Interface is the outbound HTTP surface used by the service clients.
// Request takes an explicit timeout so long-running calls (the bulk lock
// call uses 3600s) do not inherit the default.
type Interface interface {
	Get(ctx context.Context, url string, headers ...string) (*Result, error)
	Post(ctx context.Context, url string, body interface{}, headers ...string) (*Result, error)
	Delete(ctx context.Context, url string, body interface{}, headers ...string) (*Result, error)
	Request(ctx context.Context, method, url string, body interface{}, timeout time.Duration, headers ...string) (*Result, error)
}

// client wraps the standard http.Client with retry logic and simplified
// request building.
type client struct {
	*http.Client
}

var (
	once     sync.Once
	instance *client
)

// NewHttpClient creates a singleton instance of the HTTP client. The
// per-request timeout is enforced through the context instead of
// http.Client.Timeout so individual calls can override it.
func NewHttpClient() Interface {
	once.Do(func() {
		instance = &client{
			Client: &http.Client{
				Transport: &http.Transport{
					TLSClientConfig: &tls.Config{
						InsecureSkipVerify: true,
					},
					TLSHandshakeTimeout:   10 * time.Second,
					MaxIdleConns:          128,
					MaxConnsPerHost:       64,
					IdleConnTimeout:       1 * time.Minute,
					ExpectContinueTimeout: 10 * time.Second,
				},
			},
		}
	})
	return instance
}

// Get sends an HTTP GET request to the specified URL with optional headers.
func (c *client) Get(ctx context.Context, url string, headers ...string) (*Result, error) {
	return c.Request(ctx, http.MethodGet, url, nil, DefaultTimeout, headers...)
}

// Post sends an HTTP POST request with a JSON body and optional headers.
func (c *client) Post(ctx context.Context, url string, body interface{}, headers ...string) (*Result, error) {
	return c.Request(ctx, http.MethodPost, url, body, DefaultTimeout, headers...)
}

// Delete sends an HTTP DELETE request with an optional JSON body.
func (c *client) Delete(ctx context.Context, url string, body interface{}, headers ...string) (*Result, error) {
	return c.Request(ctx, http.MethodDelete, url, body, DefaultTimeout, headers...)
}

// Request builds and executes an HTTP request with the given timeout.
func (c *client) Request(ctx context.Context, method, url string, body interface{}, timeout time.Duration, headers ...string) (*Result, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	req, err := BuildRequest(ctx, url, method, body, headers...)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// Do executes the HTTP request with retry logic. It attempts to send the
// request up to DefaultMaxTry times and returns the last error when all
// attempts fail. On success the body is fully read and closed.
func (c *client) Do(req *http.Request) (*Result, error) {
	var rsp *http.Response
	var err error
	for i := 0; i < DefaultMaxTry; i++ {
		if rsp, err = c.Client.Do(req); err == nil {
			break
		} else if i == DefaultMaxTry-1 {
			return nil, errors.Wrapf(err, "%s %s failed after %d attempts", req.Method, req.URL, DefaultMaxTry)
		}
	}
	if rsp == nil {
		return nil, errors.New("no result")
	}
	data, err := io.ReadAll(rsp.Body)
	defer rsp.Body.Close()
	if err != nil {
		return nil, err
	}
	return &Result{StatusCode: rsp.StatusCode, Body: data, Header: rsp.Header}, nil
}

// BuildRequest creates an HTTP request with the given URL, method, body and
// header pairs. Content-Type is always application/json.
func BuildRequest(ctx context.Context, url, method string, body interface{}, headers ...string) (*http.Request, error) {
	reader, err := cvtIOReader(body)
	if err != nil {
		return nil, err
	}
	request, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	for i := 0; i < len(headers); i += 2 {
		if i+1 >= len(headers) {
			break
		}
		request.Header.Set(headers[i], headers[i+1])
	}
	request.Header.Set("Content-Type", "application/json")
	return request, nil
}

// cvtIOReader converts the given body to an io.Reader. Strings, readers and
// byte slices pass through; anything else is marshalled to JSON.
func cvtIOReader(body interface{}) (io.Reader, error) {
	if body == nil {
		return nil, nil
	}
	var reader io.Reader
	switch val := body.(type) {
	case string:
		reader = strings.NewReader(val)
	case io.Reader:
		reader = val
	case []byte:
		reader = bytes.NewReader(val)
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}
	return reader, nil
}
