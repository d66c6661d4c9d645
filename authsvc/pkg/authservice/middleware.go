package authservice

import (
	"context"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/metrics"
)

type Middleware func(Service) Service

func LoggingMiddleware(logger log.Logger) Middleware {
	return func(next Service) Service {
		return loggingMiddleware{logger, next}
	}
}

type loggingMiddleware struct {
	logger log.Logger
	next   Service
}

func (mw loggingMiddleware) Authenticate(ctx context.Context, email, password string) (id Identity, token string, err error) {
	defer func() {
		mw.logger.Log("method", "Authenticate", "email", email, "err", err)
	}()
	return mw.next.Authenticate(ctx, email, password)
}

func InstrumentingMiddleware(counter metrics.Counter, latency metrics.Histogram) Middleware {
	return func(next Service) Service {
		return instrumentingMiddleware{counter, latency, next}
	}
}

type instrumentingMiddleware struct {
	requestCount   metrics.Counter
	requestLatency metrics.Histogram
	next           Service
}

func (mw instrumentingMiddleware) Authenticate(ctx context.Context, email, password string) (id Identity, token string, err error) {
	defer func(begin time.Time) {
		mw.requestCount.With("method", "authenticate").Add(1)
		mw.requestLatency.With("method", "authenticate").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mw.next.Authenticate(ctx, email, password)
}
