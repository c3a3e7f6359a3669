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
	"fmt"
	"math"

	"github.com/gin-gonic/gin"

	"github.com/tomoncle/roster/types"
)

const (
	DefaultPageSize = 5
	MaxPageSize     = 2000
)

type pageQuery struct {
	Page *int     `form:"page" binding:"omitempty,gte=0"`
	Size *int     `form:"size" binding:"omitempty,gte=1"`
	Sort []string `form:"sort"`
}

// PageableResolver builds a types.Pageable from page, size and sort query
// parameters. Sizes above MaxSize are lowered to MaxSize.
type PageableResolver struct {
	DefaultSize int
	MaxSize     int
	// Sortable lists the accepted sort properties. Empty accepts any.
	Sortable []string
}

func NewPageableResolver(defaultSize, maxSize int, sortable ...string) PageableResolver {
	if defaultSize < 1 {
		defaultSize = DefaultPageSize
	}
	if maxSize < defaultSize {
		maxSize = defaultSize
	}
	return PageableResolver{DefaultSize: defaultSize, MaxSize: maxSize, Sortable: sortable}
}

func (r PageableResolver) Resolve(c *gin.Context) (types.Pageable, error) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return types.Pageable{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	page, size := 0, r.DefaultSize
	if q.Page != nil {
		page = *q.Page
	}
	if q.Size != nil {
		size = min(*q.Size, r.MaxSize)
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if page > math.MaxInt/size {
		return types.Pageable{}, fmt.Errorf("%w: page %d is out of range", ErrBadRequest, page)
	}
	sort, err := types.ParseSort(q.Sort)
	if err != nil {
		return types.Pageable{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	for _, order := range sort.Orders() {
		if !r.sortable(order.Property) {
			return types.Pageable{}, fmt.Errorf("%w: cannot sort by %q", ErrBadRequest, order.Property)
		}
	}
	return types.PageRequestOf(page, size, sort), nil
}

func (r PageableResolver) sortable(property string) bool {
	if len(r.Sortable) == 0 {
		return true
	}
	for _, p := range r.Sortable {
		if p == property {
			return true
		}
	}
	return false
}
