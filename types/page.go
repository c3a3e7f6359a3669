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

package types

import (
	"encoding/json"
	"math"
)

// DefaultPageSize is used when a Pageable carries a non-positive size.
const DefaultPageSize = 10

// QueryFilter describes a WHERE clause schema and its argument values.
type QueryFilter struct {
	Schema string
	Args   []interface{}
}

// NewQueryFilter creates a new query filter with schema and args.
func NewQueryFilter(schema string, args ...interface{}) *QueryFilter {
	return &QueryFilter{schema, args}
}

// Pageable describes a zero-based page window and its ordering.
type Pageable struct {
	page     int
	pageSize int
	sort     Sort
}

// PageRequestOf constructs a Pageable. Page indexes start at 0.
func PageRequestOf(page int, pageSize int, sort ...Sort) Pageable {
	p := Pageable{page: page, pageSize: pageSize}
	for _, s := range sort {
		p.sort = p.sort.And(s)
	}
	return p
}

func (p Pageable) GetPageSize() int {
	if p.pageSize < 1 {
		return DefaultPageSize
	}
	return p.pageSize
}

func (p Pageable) GetPage() int {
	if p.page < 0 {
		return 0
	}
	return p.page
}

// GetOffset returns page*size, saturated at math.MaxInt.
func (p Pageable) GetOffset() int {
	page, size := p.GetPage(), p.GetPageSize()
	if page > math.MaxInt/size {
		return math.MaxInt
	}
	return page * size
}

func (p Pageable) GetSort() Sort {
	return p.sort
}

// Next returns the Pageable for the following page.
func (p Pageable) Next() Pageable {
	return Pageable{page: p.GetPage() + 1, pageSize: p.pageSize, sort: p.sort}
}

// Previous returns the Pageable for the preceding page, or the first page.
func (p Pageable) Previous() Pageable {
	if p.GetPage() == 0 {
		return p
	}
	return Pageable{page: p.GetPage() - 1, pageSize: p.pageSize, sort: p.sort}
}

// First returns the Pageable for page 0 with the same size and sort.
func (p Pageable) First() Pageable {
	return Pageable{page: 0, pageSize: p.pageSize, sort: p.sort}
}

func (p Pageable) HasPrevious() bool { return p.GetPage() > 0 }

// Page holds one window of results together with the total element count.
type Page[T any] struct {
	Content       []*T
	Number        int
	Size          int
	TotalElements int64
	Sort          Sort
}

// NewPage constructs a Page for the given window and total.
func NewPage[T any](content []*T, pageable Pageable, total int64) *Page[T] {
	if content == nil {
		content = make([]*T, 0)
	}
	return &Page[T]{
		Content:       content,
		Number:        pageable.GetPage(),
		Size:          pageable.GetPageSize(),
		TotalElements: total,
		Sort:          pageable.GetSort(),
	}
}

func (p *Page[T]) TotalPages() int {
	if p.Size < 1 {
		return 1
	}
	return int((p.TotalElements + int64(p.Size) - 1) / int64(p.Size))
}

func (p *Page[T]) NumberOfElements() int { return len(p.Content) }

func (p *Page[T]) IsFirst() bool { return !p.HasPrevious() }

func (p *Page[T]) IsLast() bool { return !p.HasNext() }

func (p *Page[T]) HasNext() bool { return p.Number+1 < p.TotalPages() }

func (p *Page[T]) HasPrevious() bool { return p.Number > 0 }

func (p *Page[T]) HasContent() bool { return len(p.Content) > 0 }

func (p *Page[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Content          []*T  `json:"content"`
		Number           int   `json:"number"`
		Size             int   `json:"size"`
		NumberOfElements int   `json:"numberOfElements"`
		TotalElements    int64 `json:"totalElements"`
		TotalPages       int   `json:"totalPages"`
		First            bool  `json:"first"`
		Last             bool  `json:"last"`
		HasNext          bool  `json:"hasNext"`
		Empty            bool  `json:"empty"`
		Sort             Sort  `json:"sort"`
	}{
		Content:          p.Content,
		Number:           p.Number,
		Size:             p.Size,
		NumberOfElements: p.NumberOfElements(),
		TotalElements:    p.TotalElements,
		TotalPages:       p.TotalPages(),
		First:            p.IsFirst(),
		Last:             p.IsLast(),
		HasNext:          p.HasNext(),
		Empty:            !p.HasContent(),
		Sort:             p.Sort,
	})
}

// Slice holds one window of results without a total count. Whether a
// following window exists is known from fetching one extra row.
type Slice[T any] struct {
	Content []*T
	Number  int
	Size    int
	Sort    Sort
	hasNext bool
}

// NewSlice constructs a Slice for the given window.
func NewSlice[T any](content []*T, pageable Pageable, hasNext bool) *Slice[T] {
	if content == nil {
		content = make([]*T, 0)
	}
	return &Slice[T]{
		Content: content,
		Number:  pageable.GetPage(),
		Size:    pageable.GetPageSize(),
		Sort:    pageable.GetSort(),
		hasNext: hasNext,
	}
}

func (s *Slice[T]) NumberOfElements() int { return len(s.Content) }

func (s *Slice[T]) IsFirst() bool { return s.Number == 0 }

func (s *Slice[T]) IsLast() bool { return !s.hasNext }

func (s *Slice[T]) HasNext() bool { return s.hasNext }

func (s *Slice[T]) HasPrevious() bool { return s.Number > 0 }

func (s *Slice[T]) HasContent() bool { return len(s.Content) > 0 }

func (s *Slice[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Content          []*T `json:"content"`
		Number           int  `json:"number"`
		Size             int  `json:"size"`
		NumberOfElements int  `json:"numberOfElements"`
		First            bool `json:"first"`
		Last             bool `json:"last"`
		HasNext          bool `json:"hasNext"`
		Empty            bool `json:"empty"`
		Sort             Sort `json:"sort"`
	}{
		Content:          s.Content,
		Number:           s.Number,
		Size:             s.Size,
		NumberOfElements: s.NumberOfElements(),
		First:            s.IsFirst(),
		Last:             s.IsLast(),
		HasNext:          s.hasNext,
		Empty:            !s.HasContent(),
		Sort:             s.Sort,
	})
}

// MapPage converts the content of a page and keeps its metadata.
func MapPage[T any, R any](p *Page[T], fn func(*T) *R) *Page[R] {
	content := make([]*R, 0, len(p.Content))
	for _, item := range p.Content {
		content = append(content, fn(item))
	}
	return &Page[R]{
		Content:       content,
		Number:        p.Number,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		Sort:          p.Sort,
	}
}

// MapSlice converts the content of a slice and keeps its metadata.
func MapSlice[T any, R any](s *Slice[T], fn func(*T) *R) *Slice[R] {
	content := make([]*R, 0, len(s.Content))
	for _, item := range s.Content {
		content = append(content, fn(item))
	}
	return &Slice[R]{
		Content: content,
		Number:  s.Number,
		Size:    s.Size,
		Sort:    s.Sort,
		hasNext: s.hasNext,
	}
}
