package taskservice

import (
	"context"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/metrics"

	"github.com/taskfolio/taskfolio/authsvc"
	"github.com/taskfolio/taskfolio/tasksvc"
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

func (mw loggingMiddleware) CreateTask(ctx context.Context, subject authsvc.Subject, title, description string) (t tasksvc.Task, err error) {
	defer func() {
		mw.logger.Log(
			"method", "CreateTask",
			"subject_id", subject.UserID,
			"title", title,
			"err", err,
		)
	}()
	return mw.next.CreateTask(ctx, subject, title, description)
}

func (mw loggingMiddleware) Tasks(ctx context.Context, limit, offset int) (t []tasksvc.Task, err error) {
	defer func() {
		mw.logger.Log(
			"method", "Tasks",
			"limit", limit,
			"offset", offset,
			"err", err,
		)
	}()
	return mw.next.Tasks(ctx, limit, offset)
}

func (mw loggingMiddleware) Task(ctx context.Context, taskID uint64) (t tasksvc.Task, err error) {
	defer func() {
		mw.logger.Log(
			"method", "Task",
			"task_id", taskID,
			"err", err,
		)
	}()
	return mw.next.Task(ctx, taskID)
}

func (mw loggingMiddleware) UpdateTask(ctx context.Context, subject authsvc.Subject, taskID uint64, patch tasksvc.TaskPatch) (t tasksvc.Task, err error) {
	defer func() {
		mw.logger.Log(
			"method", "UpdateTask",
			"subject_id", subject.UserID,
			"task_id", taskID,
			"err", err,
		)
	}()
	return mw.next.UpdateTask(ctx, subject, taskID, patch)
}

func (mw loggingMiddleware) DeleteTask(ctx context.Context, subject authsvc.Subject, taskID uint64) (t tasksvc.Task, err error) {
	defer func() {
		mw.logger.Log(
			"method", "DeleteTask",
			"subject_id", subject.UserID,
			"task_id", taskID,
			"err", err,
		)
	}()
	return mw.next.DeleteTask(ctx, subject, taskID)
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

func (mw instrumentingMiddleware) CreateTask(ctx context.Context, subject authsvc.Subject, title, description string) (t tasksvc.Task, err error) {
	defer func(begin time.Time) {
		mw.requestCount.With("method", "create_task").Add(1)
		mw.requestLatency.With("method", "create_task").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mw.next.CreateTask(ctx, subject, title, description)
}

func (mw instrumentingMiddleware) Tasks(ctx context.Context, limit, offset int) (t []tasksvc.Task, err error) {
	defer func(begin time.Time) {
		mw.requestCount.With("method", "tasks").Add(1)
		mw.requestLatency.With("method", "tasks").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mw.next.Tasks(ctx, limit, offset)
}

func (mw instrumentingMiddleware) Task(ctx context.Context, taskID uint64) (t tasksvc.Task, err error) {
	defer func(begin time.Time) {
		mw.requestCount.With("method", "task").Add(1)
		mw.requestLatency.With("method", "task").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mw.next.Task(ctx, taskID)
}

func (mw instrumentingMiddleware) UpdateTask(ctx context.Context, subject authsvc.Subject, taskID uint64, patch tasksvc.TaskPatch) (t tasksvc.Task, err error) {
	defer func(begin time.Time) {
		mw.requestCount.With("method", "update_task").Add(1)
		mw.requestLatency.With("method", "update_task").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mw.next.UpdateTask(ctx, subject, taskID, patch)
}

func (mw instrumentingMiddleware) DeleteTask(ctx context.Context, subject authsvc.Subject, taskID uint64) (t tasksvc.Task, err error) {
	defer func(begin time.Time) {
		mw.requestCount.With("method", "delete_task").Add(1)
		mw.requestLatency.With("method", "delete_task").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mw.next.DeleteTask(ctx, subject, taskID)
}
