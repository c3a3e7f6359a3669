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

import "errors"

var (
	// ErrNotFound is returned when a required entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrIncorrectResultSize is returned when a single-result query matches
	// more than one row.
	ErrIncorrectResultSize = errors.New("incorrect result size: expected at most one row")

	// ErrUnknownProperty is returned when a sort property does not map to a column.
	ErrUnknownProperty = errors.New("unknown sort property")
)
