// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	errKey = "error"
	msgKey = "message"
)

var (
	// errJSONKey indicates response body did not contain error message.
	errJSONKey = New("response body expected error message json key not found")

	// errUnknown indicates that an unknown error was found in the response body.
	errUnknown = New("unknown error")
)

// SDKError is an error type for the telequery SDK.
type SDKError interface {
	Error
	StatusCode() int
}

var _ SDKError = (*sdkError)(nil)

type sdkError struct {
	*customError
	statusCode int
}

func (se *sdkError) Error() string {
	if se == nil {
		return ""
	}
	if se.customError == nil {
		return http.StatusText(se.statusCode)
	}
	return fmt.Sprintf("Status: %s: %s", http.StatusText(se.statusCode), se.customError.Error())
}

func (se *sdkError) StatusCode() int {
	return se.statusCode
}

// NewSDKError returns an SDK Error that formats as the given text.
// The wrapped chain of err is preserved so Contains keeps working on the result.
func NewSDKError(err error) SDKError {
	return NewSDKErrorWithStatus(err, 0)
}

// NewSDKErrorWithStatus returns an SDK Error setting the status code.
func NewSDKErrorWithStatus(err error, statusCode int) SDKError {
	if err == nil {
		return &sdkError{statusCode: statusCode}
	}
	if ce, ok := err.(*customError); ok {
		return &sdkError{
			customError: ce,
			statusCode:  statusCode,
		}
	}
	if se, ok := err.(*sdkError); ok {
		return &sdkError{
			customError: se.customError,
			statusCode:  statusCode,
		}
	}
	return &sdkError{
		customError: &customError{
			msg:    err.Error(),
			err:    nil,
			native: err,
		},
		statusCode: statusCode,
	}
}

// CheckError will check the HTTP response status code and matches it with the given status codes.
// Since multiple status codes can be valid, we can pass multiple status codes to the function.
// The function then checks for errors in the HTTP response.
func CheckError(resp *http.Response, expectedStatusCodes ...int) SDKError {
	if resp == nil {
		return nil
	}
	for _, expectedStatusCode := range expectedStatusCodes {
		if resp.StatusCode == expectedStatusCode {
			return nil
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewSDKErrorWithStatus(err, resp.StatusCode)
	}

	var content map[string]interface{}
	if err := json.Unmarshal(body, &content); err != nil {
		return NewSDKErrorWithStatus(err, resp.StatusCode)
	}

	msg, hasMsg := content[msgKey].(string)
	if errmsg, ok := content[errKey]; ok {
		v, ok := errmsg.(string)
		switch {
		case !ok:
			return NewSDKErrorWithStatus(errUnknown, resp.StatusCode)
		case hasMsg && msg != "" && v != "":
			return NewSDKErrorWithStatus(Wrap(New(msg), New(v)), resp.StatusCode)
		case v != "":
			return NewSDKErrorWithStatus(New(v), resp.StatusCode)
		}
	}
	if hasMsg && msg != "" {
		return NewSDKErrorWithStatus(New(msg), resp.StatusCode)
	}

	return NewSDKErrorWithStatus(errJSONKey, resp.StatusCode)
}
