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
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"

	"github.com/tomoncle/roster/dto"
	"github.com/tomoncle/roster/entity"
	"github.com/tomoncle/roster/repository"
	"github.com/tomoncle/roster/types"
	"github.com/tomoncle/roster/utils"
)

// MemberService serves the member endpoints.
type MemberService struct {
	*baseServiceImpl[entity.Member]
	members repository.MemberRepository
	logger  *logrus.Logger
}

func NewMemberService(db *bun.DB) *MemberService {
	return &MemberService{
		baseServiceImpl: newBaseServiceImpl[entity.Member](db),
		members:         repository.NewMemberRepository(db),
		logger:          utils.NewLogger("SERVICE"),
	}
}

// FindMember returns the member with the given id or repository.ErrNotFound.
func (s *MemberService) FindMember(ctx context.Context, id int64) (*entity.Member, error) {
	return s.Get(ctx, id)
}

func (s *MemberService) FindUsername(ctx context.Context, id int64) (string, error) {
	member, err := s.FindMember(ctx, id)
	if err != nil {
		return "", err
	}
	return member.Username, nil
}

// List returns one page of members as DTOs. The team is not joined, so
// teamName stays empty.
func (s *MemberService) List(ctx context.Context, pageable types.Pageable) (*types.Page[dto.MemberDto], error) {
	var page *types.Page[dto.MemberDto]
	err := s.transactional(ctx, func(ctx context.Context, tx bun.Tx) error {
		members, err := s.members.WithTx(tx).FindAllPage(ctx, pageable)
		if err != nil {
			return err
		}
		page = types.MapPage(members, dto.FromMember)
		return nil
	})
	return page, err
}

// ListWithTeam returns every member projected with its team name.
func (s *MemberService) ListWithTeam(ctx context.Context) ([]*dto.MemberDto, error) {
	var dtos []*dto.MemberDto
	err := s.transactional(ctx, func(ctx context.Context, tx bun.Tx) error {
		members, err := s.members.WithTx(tx).FindMemberFetchJoin(ctx)
		if err != nil {
			return err
		}
		dtos = make([]*dto.MemberDto, 0, len(members))
		for _, m := range members {
			dtos = append(dtos, dto.FromMember(m))
		}
		return nil
	})
	return dtos, err
}

// Seed creates count members named user0..user{count-1} whose age equals
// their index, all in one transaction.
func (s *MemberService) Seed(ctx context.Context, count int) (int, error) {
	if count <= 0 {
		return 0, nil
	}
	members := make([]*entity.Member, 0, count)
	for i := 0; i < count; i++ {
		members = append(members, entity.NewMemberWithAge(fmt.Sprintf("user%d", i), i, nil))
	}
	if err := s.Save(ctx, members...); err != nil {
		return 0, fmt.Errorf("seed members: %w", err)
	}
	s.logger.WithField("count", count).Info("Sample members created")
	return count, nil
}
