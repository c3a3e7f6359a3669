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

	"github.com/tomoncle/roster/dto"
	"github.com/tomoncle/roster/entity"
	"github.com/tomoncle/roster/types"

	"github.com/uptrace/bun"
)

// MemberRepository is the data access contract for members.
type MemberRepository interface {
	Repository[entity.Member]
	MemberRepositoryCustom

	// WithTx returns the same repository bound to db, usually a bun.Tx.
	WithTx(db bun.IDB) MemberRepository

	FindByUsernameAndAgeGreaterThan(ctx context.Context, username string, age int) ([]*entity.Member, error)

	// FindUser matches members by exact username and age.
	FindUser(ctx context.Context, username string, age int) ([]*entity.Member, error)

	FindUsernameList(ctx context.Context) ([]string, error)

	// FindMemberDto projects members that belong to a team.
	FindMemberDto(ctx context.Context) ([]*dto.MemberDto, error)

	// FindByNames returns members whose username is one of names.
	FindByNames(ctx context.Context, names []string) ([]*entity.Member, error)

	FindListByUsername(ctx context.Context, username string) ([]*entity.Member, error)

	// FindMemberByUsername returns nil when no member matches and
	// ErrIncorrectResultSize when several do.
	FindMemberByUsername(ctx context.Context, username string) (*entity.Member, error)

	FindOptionalByUsername(ctx context.Context, username string) (types.Optional[entity.Member], error)

	FindByAge(ctx context.Context, age int, pageable types.Pageable) (*types.Page[entity.Member], error)

	FindSliceByAge(ctx context.Context, age int, pageable types.Pageable) (*types.Slice[entity.Member], error)

	// BulkAgePlus adds delta to the age of every member at least minAge
	// years old and returns the number of updated rows.
	BulkAgePlus(ctx context.Context, minAge int, delta int) (int64, error)

	// FindMemberFetchJoin loads members together with their team.
	FindMemberFetchJoin(ctx context.Context) ([]*entity.Member, error)
}

type memberRepositoryImpl struct {
	*baseRepositoryImpl[entity.Member]
	*memberRepositoryCustomImpl
}

func NewMemberRepository(db bun.IDB) MemberRepository {
	return &memberRepositoryImpl{
		baseRepositoryImpl:         newBaseRepository[entity.Member](db),
		memberRepositoryCustomImpl: &memberRepositoryCustomImpl{conn: db},
	}
}

func (r *memberRepositoryImpl) WithTx(db bun.IDB) MemberRepository {
	return NewMemberRepository(db)
}

func (r *memberRepositoryImpl) FindByUsernameAndAgeGreaterThan(ctx context.Context, username string, age int) ([]*entity.Member, error) {
	return r.FindAllByFilter(ctx, types.NewQueryFilter("?TableAlias.username = ? AND ?TableAlias.age > ?", username, age))
}

func (r *memberRepositoryImpl) FindUser(ctx context.Context, username string, age int) ([]*entity.Member, error) {
	members := make([]*entity.Member, 0)
	err := r.db.NewSelect().
		Model(&members).
		Where("m.username = ?", username).
		Where("m.age = ?", age).
		Scan(ctx)
	return members, err
}

func (r *memberRepositoryImpl) FindUsernameList(ctx context.Context) ([]string, error) {
	names := make([]string, 0)
	err := r.db.NewSelect().
		Model((*entity.Member)(nil)).
		Column("username").
		Order("member_id").
		Scan(ctx, &names)
	return names, err
}

func (r *memberRepositoryImpl) FindMemberDto(ctx context.Context) ([]*dto.MemberDto, error) {
	dtos := make([]*dto.MemberDto, 0)
	err := r.db.NewSelect().
		Model((*entity.Member)(nil)).
		ColumnExpr("m.member_id AS id").
		ColumnExpr("m.username").
		ColumnExpr("t.name AS team_name").
		Join("JOIN team AS t ON t.team_id = m.team_id").
		OrderExpr("m.member_id").
		Scan(ctx, &dtos)
	return dtos, err
}

func (r *memberRepositoryImpl) FindByNames(ctx context.Context, names []string) ([]*entity.Member, error) {
	members := make([]*entity.Member, 0)
	if len(names) == 0 {
		return members, nil
	}
	err := r.db.NewSelect().
		Model(&members).
		Where("m.username IN (?)", bun.In(names)).
		Order("member_id").
		Scan(ctx)
	return members, err
}

func (r *memberRepositoryImpl) FindListByUsername(ctx context.Context, username string) ([]*entity.Member, error) {
	return r.FindAllByFilter(ctx, types.NewQueryFilter("?TableAlias.username = ?", username))
}

func (r *memberRepositoryImpl) FindMemberByUsername(ctx context.Context, username string) (*entity.Member, error) {
	return r.single(ctx, r.db.NewSelect().Where("m.username = ?", username))
}

func (r *memberRepositoryImpl) FindOptionalByUsername(ctx context.Context, username string) (types.Optional[entity.Member], error) {
	member, err := r.FindMemberByUsername(ctx, username)
	if err != nil {
		return types.Empty[entity.Member](), err
	}
	return types.OptionalOf(member), nil
}

func (r *memberRepositoryImpl) FindByAge(ctx context.Context, age int, pageable types.Pageable) (*types.Page[entity.Member], error) {
	return r.page(ctx, r.db.NewSelect().Where("m.age = ?", age), pageable)
}

func (r *memberRepositoryImpl) FindSliceByAge(ctx context.Context, age int, pageable types.Pageable) (*types.Slice[entity.Member], error) {
	return r.slice(ctx, r.db.NewSelect().Where("m.age = ?", age), pageable)
}

func (r *memberRepositoryImpl) BulkAgePlus(ctx context.Context, minAge int, delta int) (int64, error) {
	res, err := r.db.NewUpdate().
		Model((*entity.Member)(nil)).
		Set("age = age + ?", delta).
		Where("age >= ?", minAge).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *memberRepositoryImpl) FindMemberFetchJoin(ctx context.Context) ([]*entity.Member, error) {
	members := make([]*entity.Member, 0)
	err := r.db.NewSelect().
		Model(&members).
		Relation("Team").
		Order("m.member_id").
		Scan(ctx)
	return members, err
}
