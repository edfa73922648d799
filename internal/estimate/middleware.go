package estimate

import (
	"context"
	"log"
	"time"
)

// EstimateCall is the shape of the estimation network call: prompt text in,
// (context, raw response) out.
type EstimateCall func(ctx context.Context, text string) (promptContext, response string, err error)

// Middleware wraps an EstimateCall. The decorator-style instrumentation of
// earlier variants is expressed as explicit layers here rather than implicit
// injection.
type Middleware func(EstimateCall) EstimateCall

// Chain applies middleware to a call, outermost first.
func Chain(call EstimateCall, mw ...Middleware) EstimateCall {
	for i := len(mw) - 1; i >= 0; i-- {
		call = mw[i](call)
	}
	return call
}

// Logging records each call's latency and outcome.
func Logging(logger *log.Logger) Middleware {
	if logger == nil {
		logger = log.Default()
	}
	return func(next EstimateCall) EstimateCall {
		return func(ctx context.Context, text string) (string, string, error) {
			start := time.Now()
			promptContext, response, err := next(ctx, text)
			if err != nil {
				logger.Printf("estimation call errored after %s: %v", time.Since(start).Round(time.Millisecond), err)
			} else {
				logger.Printf("estimation call completed in %s", time.Since(start).Round(time.Millisecond))
			}
			return promptContext, response, err
		}
	}
}
