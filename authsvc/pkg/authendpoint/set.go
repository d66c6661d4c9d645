package authendpoint

import (
	"context"
	"time"

	"github.com/go-kit/kit/circuitbreaker"
	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/ratelimit"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/taskfolio/taskfolio/authsvc/pkg/authservice"
)

type Set struct {
	LoginEndpoint endpoint.Endpoint
}

func New(svc authservice.Service, logger log.Logger) Set {
	var loginEndpoint endpoint.Endpoint
	{
		loginEndpoint = MakeLoginEndpoint(svc)
		loginEndpoint = ratelimit.NewErroringLimiter(rate.NewLimiter(rate.Every(time.Second), 100))(loginEndpoint)
		loginEndpoint = circuitbreaker.Gobreaker(gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "Login",
			Timeout: 30 * time.Second,
		}))(loginEndpoint)
		loginEndpoint = LoggingMiddleware(log.With(logger, "method", "Login"))(loginEndpoint)
	}

	return Set{
		LoginEndpoint: loginEndpoint,
	}
}

func (s Set) Login(ctx context.Context, email, password string) (authservice.Identity, string, error) {
	response, err := s.LoginEndpoint(ctx, LoginRequest{Email: email, Password: password})
	if err != nil {
		return authservice.Identity{}, "", err
	}

	resp := response.(LoginResponse)
	return authservice.Identity{ID: resp.ID, Name: resp.Name, Email: resp.Email}, resp.Token, resp.Err
}

func MakeLoginEndpoint(s authservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(LoginRequest)
		id, token, err := s.Authenticate(ctx, req.Email, req.Password)

		return LoginResponse{ID: id.ID, Name: id.Name, Email: id.Email, Token: token, Err: err}, nil
	}
}

var _ endpoint.Failer = LoginResponse{}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
	Err   error  `json:"-"`
}

func (r LoginResponse) Failed() error { return r.Err }
