// Copyright 2025 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

// Error kinds reported by Kind.
const (
	KindInvalidInput          = "InvalidInput"
	KindInvalidAuthentication = "InvalidAuthentication"
	KindPermissionDenied      = "PermissionDenied"
	KindNotFound              = "NotFound"
	KindResourceExhausted     = "ResourceExhausted"
	KindUnavailable           = "Unavailable"
	KindDeadlineExceeded      = "DeadlineExceeded"
	KindInternal              = "Internal"
)

// apiError is used to capture errors reported by the prediction service.
type apiError struct {
	name  string
	code  int
	cause error
}

func (err *apiError) Error() string {
	return fmt.Sprintf("%s (%d): %v", err.name, err.code, err.cause)
}

func (err *apiError) Unwrap() error {
	return err.cause
}

func newAPIError(name string, code int, context string, err error) error {
	return &apiError{name, code, fmt.Errorf("%s: %v", context, err)}
}

// Kind returns the name of the service error class of err, or the empty
// string if err did not come from the service.
func Kind(err error) string {
	var e *apiError
	if errors.As(err, &e) {
		return e.name
	}
	return ""
}

// StatusCode returns the HTTP status associated with err.  Errors that did
// not come from the service map to http.StatusInternalServerError.
func StatusCode(err error) int {
	var e *apiError
	if errors.As(err, &e) {
		return e.code
	}
	return http.StatusInternalServerError
}

// newServiceError classifies an error returned while calling method.
func newServiceError(method string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return newAPIError(KindDeadlineExceeded, http.StatusGatewayTimeout, method, err)
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return fmt.Errorf("%s: %v", method, err)
	}

	name := KindInternal
	switch gerr.Code {
	case http.StatusBadRequest:
		name = KindInvalidInput
	case http.StatusUnauthorized:
		name = KindInvalidAuthentication
	case http.StatusForbidden:
		name = KindPermissionDenied
	case http.StatusNotFound:
		name = KindNotFound
	case http.StatusTooManyRequests:
		name = KindResourceExhausted
	case http.StatusServiceUnavailable, http.StatusBadGateway:
		name = KindUnavailable
	}

	message := gerr.Message
	if message == "" {
		message = http.StatusText(gerr.Code)
	}
	return newAPIError(name, gerr.Code, method, errors.New(message))
}
