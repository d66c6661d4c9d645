package usertransport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	stdjwt "github.com/dgrijalva/jwt-go"
	kitjwt "github.com/go-kit/kit/auth/jwt"
	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/transport"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"

	"github.com/taskfolio/taskfolio/authsvc"
	"github.com/taskfolio/taskfolio/usersvc"
	"github.com/taskfolio/taskfolio/usersvc/pkg/userendpoint"
)

// maxAvatarBytes bounds the multipart memory budget for avatar uploads.
const maxAvatarBytes = 5 << 20

func NewHTTPHandler(endpoints userendpoint.Set, tokens authsvc.TokenConfig, logger log.Logger) http.Handler {
	options := []httptransport.ServerOption{
		httptransport.ServerErrorEncoder(errorEncoder),
		httptransport.ServerErrorHandler(transport.NewLogErrorHandler(logger)),
	}

	kf := func(token *stdjwt.Token) (interface{}, error) {
		return []byte(tokens.Secret), nil
	}

	createUserHandler := httptransport.NewServer(
		endpoints.CreateUserEndpoint,
		decodeHTTPCreateUserRequest,
		encodeHTTPCreatedResponse,
		options...,
	)

	userHandler := httptransport.NewServer(
		endpoints.UserEndpoint,
		decodeHTTPUserRequest,
		encodeHTTPGenericResponse,
		options...,
	)

	var updateUserEndpoint endpoint.Endpoint
	{
		updateUserEndpoint = endpoints.UpdateUserEndpoint
		updateUserEndpoint = kitjwt.NewParser(
			kf,
			stdjwt.SigningMethodHS256,
			kitjwt.MapClaimsFactory,
		)(updateUserEndpoint)
	}

	updateUserHandler := httptransport.NewServer(
		updateUserEndpoint,
		decodeHTTPUpdateUserRequest,
		encodeHTTPGenericResponse,
		append(options, httptransport.ServerBefore(kitjwt.HTTPToContext()))...,
	)

	var deleteUserEndpoint endpoint.Endpoint
	{
		deleteUserEndpoint = endpoints.DeleteUserEndpoint
		deleteUserEndpoint = kitjwt.NewParser(
			kf,
			stdjwt.SigningMethodHS256,
			kitjwt.MapClaimsFactory,
		)(deleteUserEndpoint)
	}

	deleteUserHandler := httptransport.NewServer(
		deleteUserEndpoint,
		decodeHTTPDeleteUserRequest,
		encodeHTTPNoContentResponse,
		append(options, httptransport.ServerBefore(kitjwt.HTTPToContext()))...,
	)

	var uploadAvatarEndpoint endpoint.Endpoint
	{
		uploadAvatarEndpoint = endpoints.UploadAvatarEndpoint
		uploadAvatarEndpoint = kitjwt.NewParser(
			kf,
			stdjwt.SigningMethodHS256,
			kitjwt.MapClaimsFactory,
		)(uploadAvatarEndpoint)
	}

	uploadAvatarHandler := httptransport.NewServer(
		uploadAvatarEndpoint,
		decodeHTTPUploadAvatarRequest,
		encodeHTTPGenericResponse,
		append(options, httptransport.ServerBefore(kitjwt.HTTPToContext()))...,
	)

	r := mux.NewRouter()

	r.Methods("POST").Path("/users").Handler(createUserHandler)
	r.Methods("POST").Path("/users/avatar").Handler(uploadAvatarHandler)
	r.Methods("GET").Path("/users/{user_id}").Handler(userHandler)
	r.Methods("PATCH").Path("/users/{user_id}").Handler(updateUserHandler)
	r.Methods("DELETE").Path("/users/{user_id}").Handler(deleteUserHandler)

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
	case usersvc.ErrUserNotFound:
		return http.StatusNotFound
	case authsvc.ErrPermissionDenied:
		return http.StatusForbidden
	case usersvc.ErrInvalidArgument, authsvc.ErrInvalidArgument, ErrBadRouting:
		return http.StatusBadRequest
	case authsvc.ErrClaimsMissing,
		authsvc.ErrClaimsInvalid,
		kitjwt.ErrTokenContextMissing,
		kitjwt.ErrTokenExpired,
		kitjwt.ErrTokenInvalid,
		kitjwt.ErrTokenMalformed,
		kitjwt.ErrTokenNotActive,
		kitjwt.ErrUnexpectedSigningMethod:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func decodeHTTPCreateUserRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req userendpoint.CreateUserRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	return req, err
}

func decodeHTTPUserRequest(_ context.Context, r *http.Request) (interface{}, error) {
	userID, err := pathUserID(r)
	if err != nil {
		return nil, err
	}

	return userendpoint.UserRequest{UserID: userID}, nil
}

func decodeHTTPUpdateUserRequest(_ context.Context, r *http.Request) (interface{}, error) {
	userID, err := pathUserID(r)
	if err != nil {
		return nil, err
	}

	var req userendpoint.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, usersvc.ErrInvalidArgument
	}

	req.UserID = userID

	return req, nil
}

func decodeHTTPDeleteUserRequest(_ context.Context, r *http.Request) (interface{}, error) {
	userID, err := pathUserID(r)
	if err != nil {
		return nil, err
	}

	return userendpoint.DeleteUserRequest{UserID: userID}, nil
}

func decodeHTTPUploadAvatarRequest(_ context.Context, r *http.Request) (interface{}, error) {
	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		return nil, usersvc.ErrInvalidArgument
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, usersvc.ErrInvalidArgument
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return userendpoint.UploadAvatarRequest{
		Ext:  filepath.Ext(header.Filename),
		Data: data,
	}, nil
}

func pathUserID(r *http.Request) (uint64, error) {
	vars := mux.Vars(r)
	userID, err := strconv.ParseUint(vars["user_id"], 10, 64)
	if err != nil {
		return 0, ErrBadRouting
	}

	return userID, nil
}

// ErrBadRouting is returned when an expected path variable is missing.
// It always indicates programmer error.
var ErrBadRouting = errors.New("inconsistent mapping between route and handler (programmer error)")

func encodeHTTPGenericResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	if f, ok := response.(endpoint.Failer); ok && f.Failed() != nil {
		errorEncoder(ctx, f.Failed(), w)
		return nil
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	return json.NewEncoder(w).Encode(response)
}

func encodeHTTPCreatedResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	if f, ok := response.(endpoint.Failer); ok && f.Failed() != nil {
		errorEncoder(ctx, f.Failed(), w)
		return nil
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusCreated)
	return json.NewEncoder(w).Encode(response)
}

func encodeHTTPNoContentResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	if f, ok := response.(endpoint.Failer); ok && f.Failed() != nil {
		errorEncoder(ctx, f.Failed(), w)
		return nil
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
