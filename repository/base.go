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
	"database/sql"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/tomoncle/roster/types"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/feature"
	"github.com/uptrace/bun/schema"
)

type baseRepositoryImpl[T any] struct {
	db bun.IDB
}

// NewRepository returns a generic repository backed by the provided Bun
// connection. Passing a bun.Tx binds every operation to that transaction.
func NewRepository[T any](db bun.IDB) Repository[T] {
	return newBaseRepository[T](db)
}

func newBaseRepository[T any](db bun.IDB) *baseRepositoryImpl[T] {
	return &baseRepositoryImpl[T]{db: db}
}

func (r *baseRepositoryImpl[T]) DB() bun.IDB { return r.db }

func (r *baseRepositoryImpl[T]) Dialect() schema.Dialect { return r.db.Dialect() }

func (r *baseRepositoryImpl[T]) NewSelect() *bun.SelectQuery { return r.db.NewSelect() }

func (r *baseRepositoryImpl[T]) NewInsert() *bun.InsertQuery { return r.db.NewInsert() }

func (r *baseRepositoryImpl[T]) NewUpdate() *bun.UpdateQuery { return r.db.NewUpdate() }

func (r *baseRepositoryImpl[T]) NewDelete() *bun.DeleteQuery { return r.db.NewDelete() }

func (r *baseRepositoryImpl[T]) table() *schema.Table {
	return r.db.Dialect().Tables().Get(reflect.TypeOf((*T)(nil)).Elem())
}

func (r *baseRepositoryImpl[T]) Save(ctx context.Context, entity *T) error {
	if p, ok := any(entity).(Persistable); ok && !p.IsNew() {
		res, err := r.db.NewUpdate().Model(entity).WherePK().Exec(ctx)
		if err != nil {
			return fmt.Errorf("update %s: %w", r.table().Name, err)
		}
		if n, err := res.RowsAffected(); err != nil || n > 0 {
			return err
		}
		// No row carries this id yet: insert it with the id it already has.
	}
	if _, err := r.db.NewInsert().Model(entity).Exec(ctx); err != nil {
		return fmt.Errorf("insert %s: %w", r.table().Name, err)
	}
	return nil
}

func (r *baseRepositoryImpl[T]) SaveAll(ctx context.Context, entities ...*T) error {
	for _, entity := range entities {
		if err := r.Save(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}

func (r *baseRepositoryImpl[T]) FindByID(ctx context.Context, id any) (types.Optional[T], error) {
	entity := new(T)
	err := r.db.NewSelect().Model(entity).Where("?PKs = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Empty[T](), nil
	}
	if err != nil {
		return types.Empty[T](), err
	}
	return types.OptionalOf(entity), nil
}

func (r *baseRepositoryImpl[T]) ExistsByID(ctx context.Context, id any) (bool, error) {
	return r.db.NewSelect().Model((*T)(nil)).Where("?PKs = ?", id).Exists(ctx)
}

func (r *baseRepositoryImpl[T]) FindAll(ctx context.Context) ([]*T, error) {
	entities := make([]*T, 0)
	err := r.db.NewSelect().Model(&entities).Scan(ctx)
	return entities, err
}

func (r *baseRepositoryImpl[T]) FindAllByFilter(ctx context.Context, filter *types.QueryFilter) ([]*T, error) {
	entities := make([]*T, 0)
	query := r.db.NewSelect().Model(&entities)
	if filter != nil {
		query = query.Where(filter.Schema, filter.Args...)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T]) Query(ctx context.Context, query string, args ...interface{}) ([]*T, error) {
	entities := make([]*T, 0)
	err := r.db.NewSelect().Model(&entities).Where(query, args...).Scan(ctx)
	return entities, err
}

func (r *baseRepositoryImpl[T]) Count(ctx context.Context) (int, error) {
	return r.db.NewSelect().Model((*T)(nil)).Count(ctx)
}

func (r *baseRepositoryImpl[T]) Delete(ctx context.Context, entity *T) error {
	_, err := r.db.NewDelete().Model(entity).WherePK().Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) DeleteByID(ctx context.Context, id any) error {
	pks := r.table().PKs
	if len(pks) != 1 {
		return fmt.Errorf("delete %s by id: table has %d primary keys", r.table().Name, len(pks))
	}
	// Unqualified: not every dialect aliases the table in DELETE.
	_, err := r.db.NewDelete().Model((*T)(nil)).Where("? = ?", bun.Ident(pks[0].Name), id).Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.NewDelete().Model((*T)(nil)).Where("1 = 1").Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *baseRepositoryImpl[T]) FindAllSorted(ctx context.Context, sort types.Sort) ([]*T, error) {
	entities := make([]*T, 0)
	query := r.db.NewSelect().Model(&entities)
	if err := r.applySort(query, sort); err != nil {
		return nil, err
	}
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T]) FindAllPage(ctx context.Context, pageable types.Pageable) (*types.Page[T], error) {
	return r.page(ctx, r.db.NewSelect(), pageable)
}

func (r *baseRepositoryImpl[T]) FindAllSlice(ctx context.Context, pageable types.Pageable) (*types.Slice[T], error) {
	return r.slice(ctx, r.db.NewSelect(), pageable)
}

// page runs a count query first and fetches the window only when it can
// contain rows.
func (r *baseRepositoryImpl[T]) page(ctx context.Context, query *bun.SelectQuery, pageable types.Pageable) (*types.Page[T], error) {
	entities := make([]*T, 0)
	query = query.Model(&entities)
	total, err := query.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count %s: %w", r.table().Name, err)
	}
	if total == 0 || pageable.GetOffset() >= total {
		return types.NewPage(entities, pageable, int64(total)), nil
	}
	if err := r.applySort(query, pageable.GetSort()); err != nil {
		return nil, err
	}
	err = query.
		Offset(pageable.GetOffset()).
		Limit(pageable.GetPageSize()).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return types.NewPage(entities, pageable, int64(total)), nil
}

// slice fetches one row past the window to learn whether a next window exists.
func (r *baseRepositoryImpl[T]) slice(ctx context.Context, query *bun.SelectQuery, pageable types.Pageable) (*types.Slice[T], error) {
	entities := make([]*T, 0)
	query = query.Model(&entities)
	if err := r.applySort(query, pageable.GetSort()); err != nil {
		return nil, err
	}
	size := pageable.GetPageSize()
	if pageable.GetOffset() == math.MaxInt {
		return types.NewSlice(entities, pageable, false), nil
	}
	err := query.
		Offset(pageable.GetOffset()).
		Limit(size + 1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	hasNext := len(entities) > size
	if hasNext {
		entities = entities[:size]
	}
	return types.NewSlice(entities, pageable, hasNext), nil
}

// single returns the only row of query, nil when there is none and
// ErrIncorrectResultSize when there are more.
func (r *baseRepositoryImpl[T]) single(ctx context.Context, query *bun.SelectQuery) (*T, error) {
	entities := make([]*T, 0, 2)
	if err := query.Model(&entities).Limit(2).Scan(ctx); err != nil {
		return nil, err
	}
	switch len(entities) {
	case 0:
		return nil, nil
	case 1:
		return entities[0], nil
	default:
		return nil, ErrIncorrectResultSize
	}
}

func (r *baseRepositoryImpl[T]) applySort(query *bun.SelectQuery, sort types.Sort) error {
	for _, order := range sort.Orders() {
		column, err := r.column(order.Property)
		if err != nil {
			return err
		}
		query.OrderExpr("?TableAlias.? ?", bun.Ident(column), bun.Safe(order.Direction.Name()))
	}
	return nil
}

// column resolves a sort property given either as a column name or as a Go
// field name.
func (r *baseRepositoryImpl[T]) column(property string) (string, error) {
	table := r.table()
	if field, ok := table.FieldMap[property]; ok {
		return field.Name, nil
	}
	for _, field := range table.Fields {
		if strings.EqualFold(field.GoName, property) {
			return field.Name, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownProperty, property)
}

func (r *baseRepositoryImpl[T]) Upsert(ctx context.Context, fields []string, duplicateKeys []string, entities ...*T) error {
	if len(fields) == 0 {
		return fmt.Errorf("fields cannot be empty")
	}
	if len(entities) == 0 {
		return nil
	}
	models := make([]*T, len(entities))
	copy(models, entities)

	features := r.db.Dialect().Features()
	if features.Has(feature.InsertOnConflict) {
		return r.upsertWithPostgresqlOrSQLite(ctx, fields, duplicateKeys, models)
	} else if features.Has(feature.InsertOnDuplicateKey) {
		return r.upsertWithMySQL(ctx, fields, models)
	}
	return r.upsertFallback(ctx, models)
}

func (r *baseRepositoryImpl[T]) upsertWithMySQL(ctx context.Context, fields []string, entities []*T) error {
	var queryArgs []string
	for _, field := range fields {
		queryArgs = append(queryArgs, fmt.Sprintf("%s = VALUES(%s)", field, field))
	}
	_, err := r.db.NewInsert().
		Model(&entities).
		On("DUPLICATE KEY UPDATE " + strings.Join(queryArgs, ", ")).
		Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) upsertWithPostgresqlOrSQLite(ctx context.Context, fields []string, duplicateKeys []string, entities []*T) error {
	if len(duplicateKeys) == 0 {
		for _, pk := range r.table().PKs {
			duplicateKeys = append(duplicateKeys, pk.Name)
		}
	}
	keyNames := strings.Join(duplicateKeys, ",")
	var queryArgs []string
	for _, field := range fields {
		queryArgs = append(queryArgs, fmt.Sprintf("%s = EXCLUDED.%s", field, field))
	}
	_, err := r.db.NewInsert().
		Model(&entities).
		On("CONFLICT (" + keyNames + ") DO UPDATE").
		Set(strings.Join(queryArgs, ", ")).
		Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) upsertFallback(ctx context.Context, entities []*T) error {
	for _, entity := range entities {
		_, err := r.db.NewInsert().Model(entity).Exec(ctx)
		if err != nil {
			_, updateErr := r.db.NewUpdate().Model(entity).WherePK().Exec(ctx)
			if updateErr != nil {
				return fmt.Errorf("upsert failed for entity: insert error: %v, update error: %v", err, updateErr)
			}
		}
	}
	return nil
}
