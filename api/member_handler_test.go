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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tomoncle/roster/database"
	"github.com/tomoncle/roster/dto"
	"github.com/tomoncle/roster/entity"
	"github.com/tomoncle/roster/repository"
	"github.com/tomoncle/roster/types"
)

func newTestRouter(svc MemberService, health HealthFunc) *gin.Engine {
	reg := prometheus.NewRegistry()
	return NewRouter(RouterConfig{
		Mode:            gin.TestMode,
		DefaultPageSize: DefaultPageSize,
		MaxPageSize:     MaxPageSize,
		Registerer:      reg,
		Gatherer:        reg,
	}, svc, health)
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestFindMemberV1(t *testing.T) {
	svc := new(MockMemberService)
	svc.On("FindUsername", mock.Anything, int64(1)).Return("memberA", nil)

	w := get(newTestRouter(svc, nil), "/members/v1/1")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "memberA", w.Body.String())
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
	svc.AssertExpectations(t)
}

func TestFindMemberV1_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "not found", err: repository.ErrNotFound, status: http.StatusNotFound, code: CodeNotFound},
		{name: "ambiguous", err: repository.ErrIncorrectResultSize, status: http.StatusInternalServerError, code: CodeIncorrectResultSize},
		{name: "other", err: errors.New("connection reset"), status: http.StatusInternalServerError, code: CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockMemberService)
			svc.On("FindUsername", mock.Anything, int64(7)).Return("", tt.err)

			w := get(newTestRouter(svc, nil), "/members/v1/7")

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w).Code)
		})
	}
}

func TestFindMemberV1_InvalidID(t *testing.T) {
	svc := new(MockMemberService)

	w := get(newTestRouter(svc, nil), "/members/v1/abc")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeBadRequest, decodeError(t, w).Code)
	svc.AssertNotCalled(t, "FindUsername", mock.Anything, mock.Anything)
}

func TestFindMemberV2_UsesConverter(t *testing.T) {
	svc := new(MockMemberService)
	member := entity.NewMember("memberB")
	member.ID = 2
	svc.On("FindMember", mock.Anything, int64(2)).Return(member, nil)

	w := get(newTestRouter(svc, nil), "/members/v2/2")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "memberB", w.Body.String())
	svc.AssertExpectations(t)
	svc.AssertNotCalled(t, "FindUsername", mock.Anything, mock.Anything)
}

func TestFindMemberV2_NotFound(t *testing.T) {
	svc := new(MockMemberService)
	svc.On("FindMember", mock.Anything, int64(9)).Return(nil, repository.ErrNotFound)

	w := get(newTestRouter(svc, nil), "/members/v2/9")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, CodeNotFound, decodeError(t, w).Code)
}

func TestListMembers_DefaultPageable(t *testing.T) {
	svc := new(MockMemberService)
	content := make([]*dto.MemberDto, 0, 5)
	for i := 0; i < 5; i++ {
		content = append(content, dto.NewMemberDto(int64(i+1), fmt.Sprintf("user%d", i), nil))
	}
	page := types.NewPage(content, types.PageRequestOf(0, 5), 100)
	svc.On("List", mock.Anything, mock.MatchedBy(func(p types.Pageable) bool {
		return p.GetPage() == 0 && p.GetPageSize() == 5 && p.GetSort().IsUnsorted()
	})).Return(page, nil)

	w := get(newTestRouter(svc, nil), "/members")

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Content []struct {
			ID       int64   `json:"id"`
			Username string  `json:"username"`
			TeamName *string `json:"teamName"`
		} `json:"content"`
		Size          int   `json:"size"`
		TotalElements int64 `json:"totalElements"`
		TotalPages    int   `json:"totalPages"`
		First         bool  `json:"first"`
		HasNext       bool  `json:"hasNext"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Content, 5)
	assert.Equal(t, "user0", body.Content[0].Username)
	assert.Nil(t, body.Content[0].TeamName)
	assert.Equal(t, 5, body.Size)
	assert.Equal(t, int64(100), body.TotalElements)
	assert.Equal(t, 20, body.TotalPages)
	assert.True(t, body.First)
	assert.True(t, body.HasNext)
	svc.AssertExpectations(t)
}

func TestListMembers_QueryParameters(t *testing.T) {
	svc := new(MockMemberService)
	svc.On("List", mock.Anything, mock.MatchedBy(func(p types.Pageable) bool {
		orders := p.GetSort().Orders()
		return p.GetPage() == 2 && p.GetPageSize() == 10 &&
			len(orders) == 2 &&
			orders[0] == types.Desc("username") &&
			orders[1] == types.Asc("age")
	})).Return(types.NewPage[dto.MemberDto](nil, types.PageRequestOf(2, 10), 0), nil)

	w := get(newTestRouter(svc, nil), "/members?page=2&size=10&sort=username,desc&sort=age")

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestListMembers_SizeIsCapped(t *testing.T) {
	svc := new(MockMemberService)
	svc.On("List", mock.Anything, mock.MatchedBy(func(p types.Pageable) bool {
		return p.GetPageSize() == MaxPageSize
	})).Return(types.NewPage[dto.MemberDto](nil, types.PageRequestOf(0, MaxPageSize), 0), nil)

	w := get(newTestRouter(svc, nil), "/members?size=5000")

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestListMembers_BadRequest(t *testing.T) {
	for _, target := range []string{
		"/members?page=-1",
		"/members?page=abc",
		"/members?page=4611686018427387904&size=2",
		"/members?size=0",
		"/members?sort=password",
		"/members?sort=desc",
	} {
		t.Run(target, func(t *testing.T) {
			svc := new(MockMemberService)

			w := get(newTestRouter(svc, nil), target)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, CodeBadRequest, decodeError(t, w).Code)
			svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
		})
	}
}

func TestStatusOf_SQLErrors(t *testing.T) {
	status, code := StatusOf(fmt.Errorf("insert member: %w", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, CodeDuplicateKey, code)

	status, code = StatusOf(&mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, CodeConstraintViolation, code)
}

func TestHealth(t *testing.T) {
	healthy := func(_ context.Context) *database.HealthStatus {
		return &database.HealthStatus{Healthy: true, Connected: true, Type: "sqlite"}
	}
	w := get(newTestRouter(new(MockMemberService), healthy), "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	down := func(_ context.Context) *database.HealthStatus {
		return &database.HealthStatus{LastError: "connection refused"}
	}
	w = get(newTestRouter(new(MockMemberService), down), "/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestMetricsAndRequestID(t *testing.T) {
	svc := new(MockMemberService)
	svc.On("FindUsername", mock.Anything, int64(1)).Return("memberA", nil)
	r := newTestRouter(svc, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/members/v1/1", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get(HeaderRequestID))

	w = get(r, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `roster_http_requests_total{method="GET",route="/members/v1/:id",status="200"} 1`)
}

func TestRecovery(t *testing.T) {
	svc := new(MockMemberService)
	svc.On("FindUsername", mock.Anything, int64(3)).Run(func(mock.Arguments) { panic("boom") })

	w := get(newTestRouter(svc, nil), "/members/v1/3")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, CodeInternal, decodeError(t, w).Code)
}
