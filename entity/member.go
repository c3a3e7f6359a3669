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

// Package entity holds the persisted models.
package entity

import (
	"context"
	"strconv"

	"github.com/uptrace/bun"
)

// Member is a user record that optionally belongs to a Team.
type Member struct {
	bun.BaseModel `bun:"table:member,alias:m"`

	ID       int64  `bun:"member_id,pk,autoincrement" json:"id"`
	Username string `bun:"username" json:"username"`
	Age      int    `bun:"age,notnull" json:"age"`
	TeamID   *int64 `bun:"team_id" json:"-"`
	Team     *Team  `bun:"rel:belongs-to,join:team_id=team_id" json:"-"`
}

func NewMember(username string) *Member {
	return &Member{Username: username}
}

// NewMemberWithAge creates a member with an age and an optional team.
func NewMemberWithAge(username string, age int, team *Team) *Member {
	m := &Member{Username: username, Age: age}
	if team != nil {
		m.ChangeTeam(team)
	}
	return m
}

// IsNew reports whether the member has not been persisted yet.
func (m *Member) IsNew() bool { return m.ID == 0 }

// ChangeTeam moves the member to team and keeps both sides of the
// relationship consistent in memory.
func (m *Member) ChangeTeam(team *Team) {
	if m.Team != nil && m.Team != team {
		m.Team.Members = removeMember(m.Team.Members, m)
	}
	m.Team = team
	if team == nil {
		m.TeamID = nil
		return
	}
	if team.ID != 0 {
		id := team.ID
		m.TeamID = &id
	}
	team.Members = append(team.Members, m)
}

// SyncTeamID copies the id of the loaded team into the foreign key column.
// Needed when the team was persisted after ChangeTeam was called.
func (m *Member) SyncTeamID() {
	if m.Team != nil && m.Team.ID != 0 {
		id := m.Team.ID
		m.TeamID = &id
	}
}

var _ bun.BeforeAppendModelHook = (*Member)(nil)

// BeforeAppendModel refreshes team_id from Team on every insert and update.
func (m *Member) BeforeAppendModel(_ context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery, *bun.UpdateQuery:
		m.SyncTeamID()
	}
	return nil
}

func (m *Member) String() string {
	return "Member(id=" + itoa(m.ID) + ", username=" + m.Username + ", age=" + strconv.Itoa(m.Age) + ")"
}

func removeMember(members []*Member, target *Member) []*Member {
	out := members[:0]
	for _, m := range members {
		if m != target {
			out = append(out, m)
		}
	}
	return out
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }
