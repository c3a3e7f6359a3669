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

package repository

import (
	"context"

	"github.com/tomoncle/roster/types"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

// Persistable is implemented by entities that can tell whether they were
// already stored. Save inserts new entities and updates the others.
type Persistable interface {
	IsNew() bool
}

// CrudRepository defines basic CRUD operations for a generic entity type.
type CrudRepository[T any] interface {
	Save(ctx context.Context, entity *T) error

	SaveAll(ctx context.Context, entities ...*T) error

	Upsert(ctx context.Context, fields []string, duplicateKeys []string, entities ...*T) error

	FindByID(ctx context.Context, id any) (types.Optional[T], error)

	ExistsByID(ctx context.Context, id any) (bool, error)

	FindAll(ctx context.Context) ([]*T, error)

	FindAllByFilter(ctx context.Context, filter *types.QueryFilter) ([]*T, error)

	Query(ctx context.Context, query string, args ...interface{}) ([]*T, error)

	Count(ctx context.Context) (int, error)

	Delete(ctx context.Context, entity *T) error

	DeleteByID(ctx context.Context, id any) error

	DeleteAll(ctx context.Context) (int64, error)
}

// PagingAndSortingRepository adds sorted and windowed listing.
type PagingAndSortingRepository[T any] interface {
	FindAllSorted(ctx context.Context, sort types.Sort) ([]*T, error)
	FindAllPage(ctx context.Context, pageable types.Pageable) (*types.Page[T], error)
	FindAllSlice(ctx context.Context, pageable types.Pageable) (*types.Slice[T], error)
}

// Repository combines CRUD and paging operations and exposes Bun query
// builders for advanced use cases.
type Repository[T any] interface {
	CrudRepository[T]
	PagingAndSortingRepository[T]
	DB() bun.IDB
	Dialect() schema.Dialect
	NewSelect() *bun.SelectQuery
	NewInsert() *bun.InsertQuery
	NewUpdate() *bun.UpdateQuery
	NewDelete() *bun.DeleteQuery
}
