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

// Package api exposes the member endpoints over HTTP.
package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomoncle/roster/utils"
)

// SortableProperties are the member properties accepted by the sort parameter.
var SortableProperties = []string{"id", "username", "age"}

type RouterConfig struct {
	Mode            string
	AllowOrigins    []string
	DefaultPageSize int
	MaxPageSize     int
	// Registerer and Gatherer default to the prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter wires middleware and routes. health may be nil, in which case
// /health is not registered.
func NewRouter(cfg RouterConfig, members MemberService, health HealthFunc) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	if cfg.Registerer == nil {
		cfg.Registerer = prometheus.DefaultRegisterer
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}
	logger := utils.NewLogger("HTTP")
	metrics := NewMetrics(cfg.Registerer)

	r := gin.New()
	r.Use(
		RequestID(),
		Recovery(logger),
		RequestLogger(logger),
		metrics.Middleware(),
		cors.New(corsConfig(cfg.AllowOrigins)),
	)

	handler := NewMemberHandler(members, NewPageableResolver(cfg.DefaultPageSize, cfg.MaxPageSize, SortableProperties...))
	group := r.Group("/members")
	group.GET("", handler.List)
	group.GET("/v1/:id", handler.FindMemberV1)
	group.GET("/v2/:id", handler.MemberConverter(), handler.FindMemberV2)

	if health != nil {
		r.GET("/health", healthHandler(health))
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "OPTIONS"}
	cfg.AllowHeaders = append(cfg.AllowHeaders, HeaderRequestID)
	cfg.ExposeHeaders = []string{HeaderRequestID}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}
