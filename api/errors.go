/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tomoncle/roster/database"
	"github.com/tomoncle/roster/repository"
)

// ErrBadRequest marks errors caused by invalid request parameters.
var ErrBadRequest = errors.New("bad request")

const (
	CodeNotFound            = "NOT_FOUND"
	CodeBadRequest          = "BAD_REQUEST"
	CodeIncorrectResultSize = "INCORRECT_RESULT_SIZE"
	CodeDuplicateKey        = "DUPLICATE_KEY"
	CodeConstraintViolation = "CONSTRAINT_VIOLATION"
	CodeInternal            = "INTERNAL_ERROR"
)

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// StatusOf maps an error to its HTTP status and error code.
func StatusOf(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, ErrBadRequest), errors.Is(err, repository.ErrUnknownProperty):
		return http.StatusBadRequest, CodeBadRequest
	case errors.Is(err, repository.ErrIncorrectResultSize):
		return http.StatusInternalServerError, CodeIncorrectResultSize
	}
	if ok, kind := database.IsSqlError(err); ok {
		switch kind {
		case database.DuplicateKeyErr:
			return http.StatusConflict, CodeDuplicateKey
		case database.ForeignKeyViolationErr:
			return http.StatusConflict, CodeConstraintViolation
		}
	}
	return http.StatusInternalServerError, CodeInternal
}

// abortWithError writes the error response and records err on the context
// for the request logger.
func abortWithError(c *gin.Context, err error) {
	status, code := StatusOf(err)
	message := err.Error()
	if code == CodeInternal {
		message = http.StatusText(status)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: ErrorBody{Code: code, Message: message}})
}
