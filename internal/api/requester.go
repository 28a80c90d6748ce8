package api

import "context"

// Requester runs endpoints through the request pipeline.
//
// Resource helpers depend on this instead of *Client so tests can record
// the endpoints they produce without a server.
type Requester interface {
	// call sends e and decodes the response into result when non-nil.
	call(ctx context.Context, e Endpoint, result any, opts ...CallOption) error
}

func (c *Client) call(ctx context.Context, e Endpoint, result any, opts ...CallOption) error {
	return c.Do(ctx, e, result, opts...)
}
