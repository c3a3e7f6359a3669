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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name string `json:"name"`
}

func items(names ...string) []*item {
	out := make([]*item, 0, len(names))
	for _, n := range names {
		out = append(out, &item{Name: n})
	}
	return out
}

func TestPageable(t *testing.T) {
	p := PageRequestOf(2, 3, SortBy(DESC, "username"))
	assert.Equal(t, 2, p.GetPage())
	assert.Equal(t, 3, p.GetPageSize())
	assert.Equal(t, 6, p.GetOffset())
	assert.True(t, p.GetSort().IsSorted())
	assert.True(t, p.HasPrevious())
	assert.Equal(t, 3, p.Next().GetPage())
	assert.Equal(t, 1, p.Previous().GetPage())
	assert.Equal(t, 0, p.First().GetPage())

	defaults := PageRequestOf(-1, 0)
	assert.Equal(t, 0, defaults.GetPage())
	assert.Equal(t, DefaultPageSize, defaults.GetPageSize())
	assert.Equal(t, 0, defaults.GetOffset())
	assert.Equal(t, 0, defaults.Previous().GetPage())
	assert.True(t, defaults.GetSort().IsUnsorted())
}

func TestPage_FirstOfTwo(t *testing.T) {
	page := NewPage(items("a", "b", "c"), PageRequestOf(0, 3), 5)

	assert.Equal(t, 3, page.NumberOfElements())
	assert.Equal(t, int64(5), page.TotalElements)
	assert.Equal(t, 2, page.TotalPages())
	assert.Equal(t, 0, page.Number)
	assert.True(t, page.IsFirst())
	assert.True(t, page.HasNext())
	assert.False(t, page.IsLast())
	assert.False(t, page.HasPrevious())
}

func TestPage_LastAndEmpty(t *testing.T) {
	last := NewPage(items("d", "e"), PageRequestOf(1, 3), 5)
	assert.True(t, last.IsLast())
	assert.False(t, last.HasNext())
	assert.True(t, last.HasPrevious())

	empty := NewPage[item](nil, PageRequestOf(0, 3), 0)
	assert.NotNil(t, empty.Content)
	assert.Equal(t, 0, empty.TotalPages())
	assert.True(t, empty.IsFirst())
	assert.True(t, empty.IsLast())
	assert.False(t, empty.HasContent())
}

func TestSlice(t *testing.T) {
	slice := NewSlice(items("a", "b", "c"), PageRequestOf(0, 3), true)
	assert.Equal(t, 3, slice.NumberOfElements())
	assert.True(t, slice.IsFirst())
	assert.True(t, slice.HasNext())
	assert.False(t, slice.IsLast())

	tail := NewSlice(items("d"), PageRequestOf(1, 3), false)
	assert.False(t, tail.IsFirst())
	assert.True(t, tail.IsLast())
	assert.True(t, tail.HasPrevious())
}

func TestMapPageKeepsMetadata(t *testing.T) {
	page := NewPage(items("a", "b"), PageRequestOf(0, 2, SortBy(ASC, "name")), 7)
	mapped := MapPage(page, func(i *item) *string { s := i.Name + "!"; return &s })

	require.Len(t, mapped.Content, 2)
	assert.Equal(t, "a!", *mapped.Content[0])
	assert.Equal(t, page.TotalElements, mapped.TotalElements)
	assert.Equal(t, page.TotalPages(), mapped.TotalPages())
	assert.Equal(t, page.Sort, mapped.Sort)

	slice := NewSlice(items("x"), PageRequestOf(4, 1), true)
	mappedSlice := MapSlice(slice, func(i *item) *item { return &item{Name: i.Name + i.Name} })
	assert.Equal(t, "xx", mappedSlice.Content[0].Name)
	assert.True(t, mappedSlice.HasNext())
	assert.Equal(t, 4, mappedSlice.Number)
}

func TestPage_MarshalJSON(t *testing.T) {
	page := NewPage(items("a", "b", "c"), PageRequestOf(0, 3, SortBy(DESC, "username")), 5)
	raw, err := json.Marshal(page)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, float64(5), decoded["totalElements"])
	assert.Equal(t, float64(2), decoded["totalPages"])
	assert.Equal(t, true, decoded["first"])
	assert.Equal(t, true, decoded["hasNext"])
	assert.Len(t, decoded["content"], 3)

	sort := decoded["sort"].(map[string]interface{})
	assert.Equal(t, true, sort["sorted"])
	orders := sort["orders"].([]interface{})
	require.Len(t, orders, 1)
	assert.Equal(t, "DESC", orders[0].(map[string]interface{})["direction"])
}

func TestPageable_OffsetSaturates(t *testing.T) {
	assert.Equal(t, math.MaxInt, PageRequestOf(math.MaxInt/3+1, 3).GetOffset())
	assert.Equal(t, math.MaxInt, PageRequestOf(math.MaxInt, 0).GetOffset())
	assert.Equal(t, math.MaxInt/3*3, PageRequestOf(math.MaxInt/3, 3).GetOffset())
}

func TestSort_MarshalJSONEscapesControlCharacters(t *testing.T) {
	raw, err := json.Marshal(SortByOrders(Asc("user\x00\aname"), Desc(`"quoted"`)))
	require.NoError(t, err)
	require.True(t, json.Valid(raw), string(raw))

	var decoded struct {
		Sorted bool `json:"sorted"`
		Orders []struct {
			Property  string `json:"property"`
			Direction string `json:"direction"`
		} `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.True(t, decoded.Sorted)
	require.Len(t, decoded.Orders, 2)
	assert.Equal(t, "user\x00\aname", decoded.Orders[0].Property)
	assert.Equal(t, "ASC", decoded.Orders[0].Direction)
	assert.Equal(t, `"quoted"`, decoded.Orders[1].Property)

	empty, err := json.Marshal(Unsorted())
	require.NoError(t, err)
	assert.JSONEq(t, `{"sorted":false,"orders":[]}`, string(empty))
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		name    string
		params  []string
		want    []Order
		wantErr bool
	}{
		{name: "property only", params: []string{"username"}, want: []Order{Asc("username")}},
		{name: "explicit desc", params: []string{"username,desc"}, want: []Order{Desc("username")}},
		{name: "shared direction", params: []string{"age,username,DESC"}, want: []Order{Desc("age"), Desc("username")}},
		{name: "multiple params", params: []string{"age,desc", "username"}, want: []Order{Desc("age"), Asc("username")}},
		{name: "empty", params: nil, want: nil},
		{name: "direction only", params: []string{"desc"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sort, err := ParseSort(tt.params)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.want == nil {
				assert.True(t, sort.IsUnsorted())
				return
			}
			assert.Equal(t, tt.want, sort.Orders())
		})
	}
}

func TestDirectionEnum(t *testing.T) {
	assert.True(t, ASC.IsValid())
	assert.Equal(t, "DESC", DESC.String())
	assert.Equal(t, "descending", DESC.Desc())
	assert.Equal(t, 1, DESC.Number())

	invalid := Direction(7)
	assert.False(t, invalid.IsValid())
	assert.Equal(t, IllegalValue, invalid.Number())
	assert.Equal(t, IllegalName, invalid.Name())
}

func TestOptional(t *testing.T) {
	present := OptionalOf(&item{Name: "a"})
	assert.True(t, present.IsPresent())
	v, err := present.Get()
	require.NoError(t, err)
	assert.Equal(t, "a", v.Name)

	called := false
	present.IfPresent(func(*item) { called = true })
	assert.True(t, called)

	empty := Empty[item]()
	assert.True(t, empty.IsEmpty())
	_, err = empty.Get()
	assert.ErrorIs(t, err, ErrNoSuchElement)
	fallback := &item{Name: "fallback"}
	assert.Same(t, fallback, empty.OrElse(fallback))
	assert.True(t, OptionalOf[item](nil).IsEmpty())
}
