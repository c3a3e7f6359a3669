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
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomoncle/roster/types"
)

func resolve(t *testing.T, r PageableResolver, query string) (types.Pageable, error) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/members?"+query, nil)
	return r.Resolve(c)
}

func TestPageableResolver(t *testing.T) {
	r := NewPageableResolver(5, 20, "id", "username")

	p, err := resolve(t, r, "")
	require.NoError(t, err)
	assert.Equal(t, 0, p.GetPage())
	assert.Equal(t, 5, p.GetPageSize())
	assert.True(t, p.GetSort().IsUnsorted())

	p, err = resolve(t, r, "page=3&size=50&sort=id,username,desc")
	require.NoError(t, err)
	assert.Equal(t, 3, p.GetPage())
	assert.Equal(t, 20, p.GetPageSize())
	assert.Equal(t, []types.Order{types.Desc("id"), types.Desc("username")}, p.GetSort().Orders())

	_, err = resolve(t, r, "sort=age")
	assert.ErrorIs(t, err, ErrBadRequest)

	_, err = resolve(t, r, "page="+strconv.Itoa(math.MaxInt/20+1)+"&size=20")
	assert.ErrorIs(t, err, ErrBadRequest)

	p, err = resolve(t, r, "page="+strconv.Itoa(math.MaxInt/20)+"&size=20")
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt/20*20, p.GetOffset())
}

func TestNewPageableResolver_Defaults(t *testing.T) {
	r := NewPageableResolver(0, 0)
	assert.Equal(t, DefaultPageSize, r.DefaultSize)
	assert.Equal(t, DefaultPageSize, r.MaxSize)

	p, err := resolve(t, r, "sort=anything")
	require.NoError(t, err)
	assert.Equal(t, "anything", p.GetSort().Orders()[0].Property)
}
