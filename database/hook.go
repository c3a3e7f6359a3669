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

package database

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"github.com/uptrace/bun"
)

var querySilent atomic.Bool

// EnableQuerySilent mutes SlowQueryHook, used while migrations run.
func EnableQuerySilent(b bool) {
	querySilent.Store(b)
}

var operationColors = map[string]*color.Color{
	"SELECT": color.New(color.FgGreen),
	"INSERT": color.New(color.FgBlue),
	"UPDATE": color.New(color.FgYellow),
	"DELETE": color.New(color.FgMagenta),
}

var otherOperationColor = color.New(color.FgRed)

func colorizeQuery(event *bun.QueryEvent) string {
	c, ok := operationColors[event.Operation()]
	if !ok {
		c = otherOperationColor
	}
	return c.Sprint(event.Query)
}

// SlowQueryHook logs successful queries that ran longer than Threshold.
type SlowQueryHook struct {
	Threshold time.Duration
	Logger    Logger
	now       func() time.Time
}

var _ bun.QueryHook = (*SlowQueryHook)(nil)

func NewSlowQueryHook(threshold time.Duration, logger Logger) *SlowQueryHook {
	return &SlowQueryHook{Threshold: threshold, Logger: logger, now: time.Now}
}

func (h *SlowQueryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *SlowQueryHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	if querySilent.Load() || event.Err != nil || h.Logger == nil {
		return
	}
	duration := h.now().Sub(event.StartTime)
	if duration <= h.Threshold {
		return
	}
	h.Logger.Warn(color.YellowString("Slow query detected"),
		"duration", duration.Round(time.Microsecond),
		"threshold", h.Threshold,
		"operation", event.Operation(),
		"query", colorizeQuery(event),
	)
}
