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

package dto

import "github.com/tomoncle/roster/entity"

// MemberDto is the read-only projection of a member returned by the API.
type MemberDto struct {
	ID       int64   `bun:"id" json:"id"`
	Username string  `bun:"username" json:"username"`
	TeamName *string `bun:"team_name" json:"teamName"`
}

func NewMemberDto(id int64, username string, teamName *string) *MemberDto {
	return &MemberDto{ID: id, Username: username, TeamName: teamName}
}

// FromMember projects a member. The team name is only set when the team
// relation was loaded and the member belongs to a team.
func FromMember(m *entity.Member) *MemberDto {
	d := &MemberDto{ID: m.ID, Username: m.Username}
	if m.Team != nil && m.Team.ID != 0 {
		name := m.Team.Name
		d.TeamName = &name
	}
	return d
}
