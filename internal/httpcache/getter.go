// Package httpcache provides an HTTP GET client assembled from an ordered
// middleware chain, plus a TTL-based file-system cache middleware. The chain
// terminates in a real network fetch; any middleware may short-circuit it.
package httpcache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Request describes one GET to be performed by the chain.
type Request struct {
	URL     string
	Headers map[string]string
}

// Next resumes the chain from the current position.
type Next func(ctx context.Context, req Request) (string, error)

// Middleware handles a request. It may return a body without calling next
// (short-circuit) or call next and post-process the result.
type Middleware func(ctx context.Context, req Request, next Next) (string, error)

// Getter performs a GET and returns the response body as text.
type Getter func(ctx context.Context, url string, headers map[string]string) (string, error)

// HTTPError is a non-2xx upstream response.
type HTTPError struct {
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http request failed: %d", e.Status)
}

// ErrOutOfMiddleware means a Next was invoked past the end of the chain.
// The terminal fetch middleware never calls next, so this only fires if a
// caller holds on to a Next and replays it.
var ErrOutOfMiddleware = errors.New("out of middleware")

// NewGetter builds a Getter from the given middleware, in order, followed
// by a terminal middleware that performs the real network fetch.
func NewGetter(middleware ...Middleware) Getter {
	return NewGetterWithClient(http.DefaultClient, middleware...)
}

// NewGetterWithClient is NewGetter with an explicit http.Client.
func NewGetterWithClient(client *http.Client, middleware ...Middleware) Getter {
	chain := make([]Middleware, 0, len(middleware)+1)
	chain = append(chain, middleware...)
	chain = append(chain, fetchMiddleware(client))

	return func(ctx context.Context, url string, headers map[string]string) (string, error) {
		// Each call walks the chain through its own index so concurrent
		// calls never share cursor state.
		var resume func(i int) Next
		resume = func(i int) Next {
			return func(ctx context.Context, req Request) (string, error) {
				if i >= len(chain) {
					return "", ErrOutOfMiddleware
				}
				return chain[i](ctx, req, resume(i+1))
			}
		}

		return resume(0)(ctx, Request{URL: url, Headers: headers})
	}
}

func fetchMiddleware(client *http.Client) Middleware {
	return func(ctx context.Context, req Request, _ Next) (string, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
		if err != nil {
			return "", err
		}

		for key, value := range req.Headers {
			httpReq.Header.Set(key, value)
		}

		resp, err := client.Do(httpReq)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return "", &HTTPError{Status: resp.StatusCode}
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", err
		}

		return string(body), nil
	}
}
