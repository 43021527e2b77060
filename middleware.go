package saluran

import (
	"context"
)

// Middleware observes or rewrites the pipeline's traffic without the caller
// or the transport knowing about it. A unit may mutate the request context in
// ProcessRequest, mutate the result in ProcessResponse, and may supply a
// replacement Result in ProcessError (or return nil to let the error
// propagate further down the chain).
type Middleware interface {
	ProcessRequest(ctx context.Context, rc *RequestContext) error
	ProcessResponse(ctx context.Context, resCtx *ResponseContext) error
	ProcessError(ctx context.Context, rc *RequestContext, callErr error) (*Result, error)
}

// MiddlewareChain is an ordered list of middleware units. Request hooks run
// in insertion order; response and error hooks unwind in reverse insertion
// order, so a unit added last effectively wraps everything added before it
// (decorator/onion model).
type MiddlewareChain struct {
	units []Middleware
}

// NewMiddlewareChain creates a chain from the given units, in request order.
func NewMiddlewareChain(units ...Middleware) *MiddlewareChain {
	return &MiddlewareChain{units: units}
}

// Add appends a unit; the order of Add defines request order.
func (mc *MiddlewareChain) Add(m Middleware) *MiddlewareChain {
	mc.units = append(mc.units, m)
	return mc
}

// Remove deletes the first occurrence of the unit.
func (mc *MiddlewareChain) Remove(m Middleware) *MiddlewareChain {
	for i, unit := range mc.units {
		if unit == m {
			mc.units = append(mc.units[:i], mc.units[i+1:]...)
			break
		}
	}
	return mc
}

// Len returns the number of units in the chain.
func (mc *MiddlewareChain) Len() int { return len(mc.units) }

// ProcessRequest invokes every unit's request hook in insertion order; each
// unit sees the mutations of all prior units. The first error aborts the
// traversal and propagates unmodified.
func (mc *MiddlewareChain) ProcessRequest(ctx context.Context, rc *RequestContext) error {
	for _, unit := range mc.units {
		if err := unit.ProcessRequest(ctx, rc); err != nil {
			return err
		}
	}
	return nil
}

// ProcessResponse invokes every unit's response hook in reverse insertion
// order, mirroring a call-stack unwind.
func (mc *MiddlewareChain) ProcessResponse(ctx context.Context, resCtx *ResponseContext) error {
	for i := len(mc.units) - 1; i >= 0; i-- {
		if err := mc.units[i].ProcessResponse(ctx, resCtx); err != nil {
			return err
		}
	}
	return nil
}

// ProcessError invokes the units' error hooks in reverse insertion order,
// short-circuiting on the first unit that supplies a replacement Result.
// A nil Result means no unit handled the error and the caller must construct
// a default failure Result from it.
func (mc *MiddlewareChain) ProcessError(ctx context.Context, rc *RequestContext, callErr error) (*Result, error) {
	for i := len(mc.units) - 1; i >= 0; i-- {
		res, err := mc.units[i].ProcessError(ctx, rc, callErr)
		if err != nil {
			return nil, err
		}
		if res != nil {
			return res, nil
		}
	}
	return nil, nil
}

// MiddlewareFunc adapts a plain request hook to the Middleware interface for
// one-off units that only touch outgoing requests.
type MiddlewareFunc func(ctx context.Context, rc *RequestContext) error

// ProcessRequest implements Middleware.
func (f MiddlewareFunc) ProcessRequest(ctx context.Context, rc *RequestContext) error {
	return f(ctx, rc)
}

// ProcessResponse implements Middleware.
func (f MiddlewareFunc) ProcessResponse(ctx context.Context, resCtx *ResponseContext) error {
	return nil
}

// ProcessError implements Middleware.
func (f MiddlewareFunc) ProcessError(ctx context.Context, rc *RequestContext, callErr error) (*Result, error) {
	return nil, nil
}

// NopMiddleware provides no-op implementations of all three hooks so units
// only override the hooks they care about.
type NopMiddleware struct{}

// ProcessRequest implements Middleware.
func (NopMiddleware) ProcessRequest(ctx context.Context, rc *RequestContext) error { return nil }

// ProcessResponse implements Middleware.
func (NopMiddleware) ProcessResponse(ctx context.Context, resCtx *ResponseContext) error { return nil }

// ProcessError implements Middleware.
func (NopMiddleware) ProcessError(ctx context.Context, rc *RequestContext, callErr error) (*Result, error) {
	return nil, nil
}
