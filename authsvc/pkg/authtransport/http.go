package authtransport

import (
	"context"
	"encoding/json"
	"net/http"

	kitjwt "github.com/go-kit/kit/auth/jwt"
	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/transport"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"

	"github.com/taskfolio/taskfolio/authsvc"
	"github.com/taskfolio/taskfolio/authsvc/pkg/authendpoint"
)

func NewHTTPHandler(endpoints authendpoint.Set, logger log.Logger) http.Handler {
	options := []httptransport.ServerOption{
		httptransport.ServerErrorEncoder(errorEncoder),
		httptransport.ServerErrorHandler(transport.NewLogErrorHandler(logger)),
	}

	loginHandler := httptransport.NewServer(
		endpoints.LoginEndpoint,
		decodeHTTPLoginRequest,
		encodeHTTPCreatedResponse,
		options...,
	)

	r := mux.NewRouter()

	r.Methods("POST").Path("/auth").Handler(loginHandler)

	return r
}

func errorEncoder(_ context.Context, err error, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(err2code(err))
	json.NewEncoder(w).Encode(errorWrapper{Error: err.Error()})
}

type errorWrapper struct {
	Error string `json:"error"`
}

func err2code(err error) int {
	switch err {
	case authsvc.ErrInvalidCredentials:
		return http.StatusUnauthorized
	case authsvc.ErrInvalidArgument:
		return http.StatusBadRequest
	case kitjwt.ErrTokenContextMissing,
		kitjwt.ErrTokenExpired,
		kitjwt.ErrTokenInvalid,
		kitjwt.ErrTokenMalformed,
		kitjwt.ErrUnexpectedSigningMethod:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func decodeHTTPLoginRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req authendpoint.LoginRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	return req, err
}

// encodeHTTPCreatedResponse is like the generic encoder but answers 201,
// matching the sign-in contract.
func encodeHTTPCreatedResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	if f, ok := response.(endpoint.Failer); ok && f.Failed() != nil {
		errorEncoder(ctx, f.Failed(), w)
		return nil
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusCreated)
	return json.NewEncoder(w).Encode(response)
}
