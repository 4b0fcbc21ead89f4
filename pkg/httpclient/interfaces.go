// Package httpclient is the shared HTTP transport seam. The topic fetchers
// and the video search client depend on the Client interface instead of a
// concrete transport, so tests feed them canned responses without a network.
package httpclient

import "context"

// Response exposes the parts of an HTTP response the fetchers consume.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client performs GET-style fetches of feeds, competitor pages and search APIs.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}
