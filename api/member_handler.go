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

package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tomoncle/roster/dto"
	"github.com/tomoncle/roster/entity"
	"github.com/tomoncle/roster/types"
)

const memberKey = "member"

// MemberService is what the member endpoints need from the service layer.
type MemberService interface {
	FindMember(ctx context.Context, id int64) (*entity.Member, error)
	FindUsername(ctx context.Context, id int64) (string, error)
	List(ctx context.Context, pageable types.Pageable) (*types.Page[dto.MemberDto], error)
}

type MemberHandler struct {
	members  MemberService
	pageable PageableResolver
}

func NewMemberHandler(members MemberService, pageable PageableResolver) *MemberHandler {
	return &MemberHandler{members: members, pageable: pageable}
}

// FindMemberV1 looks the member up by the id path parameter and writes its
// username as plain text.
func (h *MemberHandler) FindMemberV1(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	username, err := h.members.FindUsername(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.String(http.StatusOK, username)
}

// MemberConverter resolves the id path parameter to a member before the
// handler runs and stores it on the context.
func (h *MemberHandler) MemberConverter() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c)
		if err != nil {
			abortWithError(c, err)
			return
		}
		member, err := h.members.FindMember(c.Request.Context(), id)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.Set(memberKey, member)
		c.Next()
	}
}

// FindMemberV2 writes the username of the member resolved by MemberConverter.
func (h *MemberHandler) FindMemberV2(c *gin.Context) {
	member := c.MustGet(memberKey).(*entity.Member)
	c.String(http.StatusOK, member.Username)
}

// List writes one page of members as DTOs.
func (h *MemberHandler) List(c *gin.Context) {
	pageable, err := h.pageable.Resolve(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	page, err := h.members.List(c.Request.Context(), pageable)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func pathID(c *gin.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid member id %q", ErrBadRequest, raw)
	}
	return id, nil
}
