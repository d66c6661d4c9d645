package userendpoint

import (
	"context"
	"time"

	"github.com/go-kit/kit/circuitbreaker"
	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/ratelimit"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/taskfolio/taskfolio/authsvc"
	"github.com/taskfolio/taskfolio/usersvc"
	"github.com/taskfolio/taskfolio/usersvc/pkg/userservice"
)

type Set struct {
	CreateUserEndpoint   endpoint.Endpoint
	UserEndpoint         endpoint.Endpoint
	UpdateUserEndpoint   endpoint.Endpoint
	DeleteUserEndpoint   endpoint.Endpoint
	UploadAvatarEndpoint endpoint.Endpoint
}

func New(svc userservice.Service, tokens authsvc.TokenConfig, logger log.Logger) Set {
	var createUserEndpoint endpoint.Endpoint
	{
		createUserEndpoint = MakeCreateUserEndpoint(svc)
		createUserEndpoint = ratelimit.NewErroringLimiter(rate.NewLimiter(rate.Every(time.Second), 100))(createUserEndpoint)
		createUserEndpoint = circuitbreaker.Gobreaker(gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "CreateUser",
			Timeout: 30 * time.Second,
		}))(createUserEndpoint)
		createUserEndpoint = LoggingMiddleware(log.With(logger, "method", "CreateUser"))(createUserEndpoint)
	}

	var userEndpoint endpoint.Endpoint
	{
		userEndpoint = MakeUserEndpoint(svc)
		userEndpoint = ratelimit.NewErroringLimiter(rate.NewLimiter(rate.Every(time.Second), 100))(userEndpoint)
		userEndpoint = circuitbreaker.Gobreaker(gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "User",
			Timeout: 30 * time.Second,
		}))(userEndpoint)
		userEndpoint = LoggingMiddleware(log.With(logger, "method", "User"))(userEndpoint)
	}

	var updateUserEndpoint endpoint.Endpoint
	{
		updateUserEndpoint = MakeUpdateUserEndpoint(svc, tokens)
		updateUserEndpoint = ratelimit.NewErroringLimiter(rate.NewLimiter(rate.Every(time.Second), 100))(updateUserEndpoint)
		updateUserEndpoint = circuitbreaker.Gobreaker(gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "UpdateUser",
			Timeout: 30 * time.Second,
		}))(updateUserEndpoint)
		updateUserEndpoint = LoggingMiddleware(log.With(logger, "method", "UpdateUser"))(updateUserEndpoint)
	}

	var deleteUserEndpoint endpoint.Endpoint
	{
		deleteUserEndpoint = MakeDeleteUserEndpoint(svc, tokens)
		deleteUserEndpoint = ratelimit.NewErroringLimiter(rate.NewLimiter(rate.Every(time.Second), 100))(deleteUserEndpoint)
		deleteUserEndpoint = circuitbreaker.Gobreaker(gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "DeleteUser",
			Timeout: 30 * time.Second,
		}))(deleteUserEndpoint)
		deleteUserEndpoint = LoggingMiddleware(log.With(logger, "method", "DeleteUser"))(deleteUserEndpoint)
	}

	var uploadAvatarEndpoint endpoint.Endpoint
	{
		uploadAvatarEndpoint = MakeUploadAvatarEndpoint(svc, tokens)
		uploadAvatarEndpoint = ratelimit.NewErroringLimiter(rate.NewLimiter(rate.Every(time.Second), 100))(uploadAvatarEndpoint)
		uploadAvatarEndpoint = circuitbreaker.Gobreaker(gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "UploadAvatar",
			Timeout: 30 * time.Second,
		}))(uploadAvatarEndpoint)
		uploadAvatarEndpoint = LoggingMiddleware(log.With(logger, "method", "UploadAvatar"))(uploadAvatarEndpoint)
	}

	return Set{
		CreateUserEndpoint:   createUserEndpoint,
		UserEndpoint:         userEndpoint,
		UpdateUserEndpoint:   updateUserEndpoint,
		DeleteUserEndpoint:   deleteUserEndpoint,
		UploadAvatarEndpoint: uploadAvatarEndpoint,
	}
}

func MakeCreateUserEndpoint(s userservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(CreateUserRequest)
		u, err := s.CreateUser(ctx, req.Name, req.Email, req.Password)

		return CreateUserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Err: err}, nil
	}
}

func MakeUserEndpoint(s userservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(UserRequest)
		u, err := s.User(ctx, req.UserID)

		return UserResponse{User: u, Err: err}, nil
	}
}

func MakeUpdateUserEndpoint(s userservice.Service, tokens authsvc.TokenConfig) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		subject, err := authsvc.SubjectFromContext(ctx, tokens)
		if err != nil {
			return UpdateUserResponse{Err: err}, nil
		}

		req := request.(UpdateUserRequest)
		u, err := s.UpdateUser(ctx, subject, req.UserID, req.Name, req.Password)

		return UpdateUserResponse{User: u, Err: err}, nil
	}
}

func MakeDeleteUserEndpoint(s userservice.Service, tokens authsvc.TokenConfig) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		subject, err := authsvc.SubjectFromContext(ctx, tokens)
		if err != nil {
			return DeleteUserResponse{Err: err}, nil
		}

		req := request.(DeleteUserRequest)
		err = s.DeleteUser(ctx, subject, req.UserID)

		return DeleteUserResponse{Err: err}, nil
	}
}

func MakeUploadAvatarEndpoint(s userservice.Service, tokens authsvc.TokenConfig) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		subject, err := authsvc.SubjectFromContext(ctx, tokens)
		if err != nil {
			return UploadAvatarResponse{Err: err}, nil
		}

		req := request.(UploadAvatarRequest)
		u, err := s.UploadAvatar(ctx, subject, req.Ext, req.Data)

		return UploadAvatarResponse{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar, Err: err}, nil
	}
}

var (
	_ endpoint.Failer = CreateUserResponse{}
	_ endpoint.Failer = UserResponse{}
	_ endpoint.Failer = UpdateUserResponse{}
	_ endpoint.Failer = DeleteUserResponse{}
	_ endpoint.Failer = UploadAvatarResponse{}
)

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateUserResponse struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Err   error  `json:"-"`
}

func (r CreateUserResponse) Failed() error { return r.Err }

type UserRequest struct {
	UserID uint64
}

type UserResponse struct {
	usersvc.User
	Err error `json:"-"`
}

func (r UserResponse) Failed() error { return r.Err }

type UpdateUserRequest struct {
	UserID   uint64  `json:"-"`
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

type UpdateUserResponse struct {
	usersvc.User
	Err error `json:"-"`
}

func (r UpdateUserResponse) Failed() error { return r.Err }

type DeleteUserRequest struct {
	UserID uint64
}

type DeleteUserResponse struct {
	Err error `json:"-"`
}

func (r DeleteUserResponse) Failed() error { return r.Err }

type UploadAvatarRequest struct {
	Ext  string
	Data []byte
}

type UploadAvatarResponse struct {
	ID     uint64 `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
	Err    error  `json:"-"`
}

func (r UploadAvatarResponse) Failed() error { return r.Err }
