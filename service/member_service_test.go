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

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomoncle/roster/database/dbtest"
	"github.com/tomoncle/roster/entity"
	"github.com/tomoncle/roster/repository"
	"github.com/tomoncle/roster/types"
)

func TestMemberService_Seed(t *testing.T) {
	ctx := context.Background()
	svc := NewMemberService(dbtest.Open(t))

	n, err := svc.Seed(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, n)

	members, err := svc.All(ctx)
	require.NoError(t, err)
	require.Len(t, members, 100)
	assert.Equal(t, "user0", members[0].Username)
	assert.Equal(t, 0, members[0].Age)
	assert.Equal(t, "user99", members[99].Username)
	assert.Equal(t, 99, members[99].Age)

	n, err = svc.Seed(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMemberService_FindUsername(t *testing.T) {
	ctx := context.Background()
	svc := NewMemberService(dbtest.Open(t))

	member := entity.NewMember("memberA")
	require.NoError(t, svc.Save(ctx, member))
	require.NotZero(t, member.ID)

	username, err := svc.FindUsername(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, "memberA", username)

	_, err = svc.FindUsername(ctx, member.ID+1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMemberService_List(t *testing.T) {
	ctx := context.Background()
	svc := NewMemberService(dbtest.Open(t))
	_, err := svc.Seed(ctx, 12)
	require.NoError(t, err)

	page, err := svc.List(ctx, types.PageRequestOf(0, 5, types.SortBy(types.DESC, "username")))
	require.NoError(t, err)
	assert.Len(t, page.Content, 5)
	assert.Equal(t, int64(12), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages())
	assert.True(t, page.IsFirst())
	assert.True(t, page.HasNext())
	assert.Equal(t, "user9", page.Content[0].Username)
	assert.Nil(t, page.Content[0].TeamName)

	last, err := svc.List(ctx, types.PageRequestOf(2, 5))
	require.NoError(t, err)
	assert.Len(t, last.Content, 2)
	assert.True(t, last.IsLast())
}

func TestMemberService_ListWithTeam(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	svc := NewMemberService(db)

	team := entity.NewTeam("teamA")
	require.NoError(t, NewService[entity.Team](db).Save(ctx, team))
	require.NoError(t, svc.Save(ctx, entity.NewMemberWithAge("member1", 10, team), entity.NewMember("member2")))

	dtos, err := svc.ListWithTeam(ctx)
	require.NoError(t, err)
	require.Len(t, dtos, 2)
	require.NotNil(t, dtos[0].TeamName)
	assert.Equal(t, "teamA", *dtos[0].TeamName)
	assert.Nil(t, dtos[1].TeamName)
}

func TestService_DeleteAndPage(t *testing.T) {
	ctx := context.Background()
	svc := NewService[entity.Member](dbtest.Open(t))
	a, b := entity.NewMember("a"), entity.NewMember("b")
	require.NoError(t, svc.Save(ctx, a, b))

	require.NoError(t, svc.Delete(ctx, a.ID))
	_, err := svc.Get(ctx, a.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	page, err := svc.Page(ctx, types.PageRequestOf(0, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalElements)
	assert.Equal(t, "b", page.Content[0].Username)
}

func TestService_NoDatabase(t *testing.T) {
	svc := NewService[entity.Member](nil)
	_, err := svc.All(context.Background())
	assert.ErrorIs(t, err, ErrNoDatabase)
}
