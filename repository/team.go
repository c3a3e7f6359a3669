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

	"github.com/tomoncle/roster/entity"
	"github.com/tomoncle/roster/types"

	"github.com/uptrace/bun"
)

// TeamRepository is the data access contract for teams.
type TeamRepository interface {
	Repository[entity.Team]

	WithTx(db bun.IDB) TeamRepository

	FindByName(ctx context.Context, name string) ([]*entity.Team, error)

	// FindWithMembers loads a team and its members ordered by id.
	FindWithMembers(ctx context.Context, id int64) (types.Optional[entity.Team], error)
}

type teamRepositoryImpl struct {
	*baseRepositoryImpl[entity.Team]
}

func NewTeamRepository(db bun.IDB) TeamRepository {
	return &teamRepositoryImpl{baseRepositoryImpl: newBaseRepository[entity.Team](db)}
}

func (r *teamRepositoryImpl) WithTx(db bun.IDB) TeamRepository {
	return NewTeamRepository(db)
}

func (r *teamRepositoryImpl) FindByName(ctx context.Context, name string) ([]*entity.Team, error) {
	return r.FindAllByFilter(ctx, types.NewQueryFilter("?TableAlias.name = ?", name))
}

func (r *teamRepositoryImpl) FindWithMembers(ctx context.Context, id int64) (types.Optional[entity.Team], error) {
	team := new(entity.Team)
	err := r.db.NewSelect().
		Model(team).
		Relation("Members", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("member_id")
		}).
		Where("?PKs = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Empty[entity.Team](), nil
	}
	if err != nil {
		return types.Empty[entity.Team](), err
	}
	return types.OptionalOf(team), nil
}
