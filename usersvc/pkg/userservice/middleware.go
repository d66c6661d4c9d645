package userservice

import (
	"context"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/metrics"

	"github.com/taskfolio/taskfolio/authsvc"
	"github.com/taskfolio/taskfolio/usersvc"
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

func (mw loggingMiddleware) CreateUser(ctx context.Context, name, email, password string) (u usersvc.User, err error) {
	defer func() {
		mw.logger.Log("method", "CreateUser", "name", name, "email", email, "err", err)
	}()
	return mw.next.CreateUser(ctx, name, email, password)
}

func (mw loggingMiddleware) User(ctx context.Context, id uint64) (u usersvc.User, err error) {
	defer func() {
		mw.logger.Log("method", "User", "id", id, "err", err)
	}()
	return mw.next.User(ctx, id)
}

func (mw loggingMiddleware) UpdateUser(ctx context.Context, subject authsvc.Subject, id uint64, name, password *string) (u usersvc.User, err error) {
	defer func() {
		mw.logger.Log("method", "UpdateUser", "subject_id", subject.UserID, "id", id, "err", err)
	}()
	return mw.next.UpdateUser(ctx, subject, id, name, password)
}

func (mw loggingMiddleware) DeleteUser(ctx context.Context, subject authsvc.Subject, id uint64) (err error) {
	defer func() {
		mw.logger.Log("method", "DeleteUser", "subject_id", subject.UserID, "id", id, "err", err)
	}()
	return mw.next.DeleteUser(ctx, subject, id)
}

func (mw loggingMiddleware) UploadAvatar(ctx context.Context, subject authsvc.Subject, ext string, data []byte) (u usersvc.User, err error) {
	defer func() {
		mw.logger.Log("method", "UploadAvatar", "subject_id", subject.UserID, "ext", ext, "size", len(data), "err", err)
	}()
	return mw.next.UploadAvatar(ctx, subject, ext, data)
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

func (mw instrumentingMiddleware) CreateUser(ctx context.Context, name, email, password string) (u usersvc.User, err error) {
	defer func(begin time.Time) {
		mw.requestCount.With("method", "create_user").Add(1)
		mw.requestLatency.With("method", "create_user").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mw.next.CreateUser(ctx, name, email, password)
}

func (mw instrumentingMiddleware) User(ctx context.Context, id uint64) (u usersvc.User, err error) {
	defer func(begin time.Time) {
		mw.requestCount.With("method", "user").Add(1)
		mw.requestLatency.With("method", "user").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mw.next.User(ctx, id)
}

func (mw instrumentingMiddleware) UpdateUser(ctx context.Context, subject authsvc.Subject, id uint64, name, password *string) (u usersvc.User, err error) {
	defer func(begin time.Time) {
		mw.requestCount.With("method", "update_user").Add(1)
		mw.requestLatency.With("method", "update_user").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mw.next.UpdateUser(ctx, subject, id, name, password)
}

func (mw instrumentingMiddleware) DeleteUser(ctx context.Context, subject authsvc.Subject, id uint64) (err error) {
	defer func(begin time.Time) {
		mw.requestCount.With("method", "delete_user").Add(1)
		mw.requestLatency.With("method", "delete_user").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mw.next.DeleteUser(ctx, subject, id)
}

func (mw instrumentingMiddleware) UploadAvatar(ctx context.Context, subject authsvc.Subject, ext string, data []byte) (u usersvc.User, err error) {
	defer func(begin time.Time) {
		mw.requestCount.With("method", "upload_avatar").Add(1)
		mw.requestLatency.With("method", "upload_avatar").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mw.next.UploadAvatar(ctx, subject, ext, data)
}
