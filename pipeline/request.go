package pipeline

import "context"

// Pipeline answers a request with a JSON encoded types.CompoundResponse.
// The channel is closed without a value when the request fails.
type Pipeline func(request Request) <-chan string

type Request struct {
	Tid   string   `json:"tid"`
	Words []string `json:"words"`
	ctx   context.Context
}

// WithContext returns a copy of request bound to ctx; the pipeline stops
// classifying once ctx is done.
func (request Request) WithContext(ctx context.Context) Request {
	request.ctx = ctx
	return request
}

func (request Request) Context() context.Context {
	if request.ctx != nil {
		return request.ctx
	}
	return context.Background()
}
