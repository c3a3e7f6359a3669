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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomoncle/roster/entity"
)

func TestTeamRepository_FindByName(t *testing.T) {
	ctx := context.Background()
	_, teams := newMemberRepository(t)
	require.NoError(t, teams.SaveAll(ctx, entity.NewTeam("teamA"), entity.NewTeam("teamB")))

	found, err := teams.FindByName(ctx, "teamB")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "teamB", found[0].Name)

	found, err = teams.FindByName(ctx, "teamC")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestTeamRepository_FindWithMembers(t *testing.T) {
	ctx := context.Background()
	members, teams := newMemberRepository(t)
	team := entity.NewTeam("teamA")
	require.NoError(t, teams.Save(ctx, team))
	saveMembers(t, members,
		entity.NewMemberWithAge("member1", 10, team),
		entity.NewMemberWithAge("member2", 20, team),
		entity.NewMemberWithAge("loner", 30, nil),
	)

	found, err := teams.FindWithMembers(ctx, team.ID)
	require.NoError(t, err)
	loaded, err := found.Get()
	require.NoError(t, err)
	require.Len(t, loaded.Members, 2)
	assert.Equal(t, "member1", loaded.Members[0].Username)
	assert.Equal(t, "member2", loaded.Members[1].Username)

	missing, err := teams.FindWithMembers(ctx, team.ID+1)
	require.NoError(t, err)
	assert.False(t, missing.IsPresent())
}
