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

// Package service runs repository calls inside one transaction per
// operation.
package service

import (
	"context"
	"errors"
	"sync"

	"github.com/uptrace/bun"

	"github.com/tomoncle/roster/database"
	"github.com/tomoncle/roster/repository"
	"github.com/tomoncle/roster/types"
)

// ErrNoDatabase is returned when a service has no connection to work with.
var ErrNoDatabase = errors.New("database not initialized")

// Service exposes transactional CRUD operations for an entity type. Every
// call runs in its own transaction.
type Service[T any] interface {
	// Get returns the entity with the given id or repository.ErrNotFound.
	Get(ctx context.Context, id any) (*T, error)

	All(ctx context.Context) ([]*T, error)

	Page(ctx context.Context, pageable types.Pageable) (*types.Page[T], error)

	// Save inserts new entities and updates stored ones.
	Save(ctx context.Context, models ...*T) error

	Delete(ctx context.Context, id any) error
}

type baseServiceImpl[T any] struct {
	db   *bun.DB
	once sync.Once
}

// NewService returns a Service backed by db. A nil db selects the global
// connection from the database package on first use.
func NewService[T any](db *bun.DB) Service[T] {
	return newBaseServiceImpl[T](db)
}

func newBaseServiceImpl[T any](db *bun.DB) *baseServiceImpl[T] {
	return &baseServiceImpl[T]{db: db}
}

func (s *baseServiceImpl[T]) conn() (*bun.DB, error) {
	s.once.Do(func() {
		if s.db == nil {
			s.db = database.GetDB()
		}
	})
	if s.db == nil {
		return nil, ErrNoDatabase
	}
	return s.db, nil
}

// transactional runs fn inside one transaction. Only tx may be used within
// fn: an in-memory sqlite pool holds a single connection.
func (s *baseServiceImpl[T]) transactional(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	return db.RunInTx(ctx, nil, fn)
}

func (s *baseServiceImpl[T]) Get(ctx context.Context, id any) (*T, error) {
	var model *T
	err := s.transactional(ctx, func(ctx context.Context, tx bun.Tx) error {
		found, err := repository.NewRepository[T](tx).FindByID(ctx, id)
		if err != nil {
			return err
		}
		if model, err = found.Get(); err != nil {
			return repository.ErrNotFound
		}
		return nil
	})
	return model, err
}

func (s *baseServiceImpl[T]) All(ctx context.Context) ([]*T, error) {
	var models []*T
	err := s.transactional(ctx, func(ctx context.Context, tx bun.Tx) (err error) {
		models, err = repository.NewRepository[T](tx).FindAll(ctx)
		return err
	})
	return models, err
}

func (s *baseServiceImpl[T]) Page(ctx context.Context, pageable types.Pageable) (*types.Page[T], error) {
	var page *types.Page[T]
	err := s.transactional(ctx, func(ctx context.Context, tx bun.Tx) (err error) {
		page, err = repository.NewRepository[T](tx).FindAllPage(ctx, pageable)
		return err
	})
	return page, err
}

func (s *baseServiceImpl[T]) Save(ctx context.Context, models ...*T) error {
	if len(models) == 0 {
		return nil
	}
	return s.transactional(ctx, func(ctx context.Context, tx bun.Tx) error {
		return repository.NewRepository[T](tx).SaveAll(ctx, models...)
	})
}

func (s *baseServiceImpl[T]) Delete(ctx context.Context, id any) error {
	return s.transactional(ctx, func(ctx context.Context, tx bun.Tx) error {
		return repository.NewRepository[T](tx).DeleteByID(ctx, id)
	})
}
