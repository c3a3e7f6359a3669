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

package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Order is a single property ordering.
type Order struct {
	Property  string    `json:"property"`
	Direction Direction `json:"-"`
}

// Asc returns an ascending order on property.
func Asc(property string) Order { return Order{Property: property, Direction: ASC} }

// Desc returns a descending order on property.
func Desc(property string) Order { return Order{Property: property, Direction: DESC} }

func (o Order) String() string { return o.Property + ": " + o.Direction.Name() }

// Sort is an ordered list of orders. The zero value is unsorted.
type Sort struct {
	orders []Order
}

// Unsorted returns a Sort without orders.
func Unsorted() Sort { return Sort{} }

// SortBy builds a Sort applying direction to every property, in order.
func SortBy(direction Direction, properties ...string) Sort {
	orders := make([]Order, 0, len(properties))
	for _, p := range properties {
		orders = append(orders, Order{Property: p, Direction: direction})
	}
	return Sort{orders: orders}
}

// SortByOrders builds a Sort from explicit orders.
func SortByOrders(orders ...Order) Sort {
	out := make([]Order, len(orders))
	copy(out, orders)
	return Sort{orders: out}
}

// And returns a new Sort with the orders of other appended.
func (s Sort) And(other Sort) Sort {
	orders := make([]Order, 0, len(s.orders)+len(other.orders))
	orders = append(orders, s.orders...)
	orders = append(orders, other.orders...)
	return Sort{orders: orders}
}

func (s Sort) Orders() []Order {
	out := make([]Order, len(s.orders))
	copy(out, s.orders)
	return out
}

func (s Sort) IsSorted() bool { return len(s.orders) > 0 }

func (s Sort) IsUnsorted() bool { return !s.IsSorted() }

func (s Sort) String() string {
	if s.IsUnsorted() {
		return "UNSORTED"
	}
	parts := make([]string, len(s.orders))
	for i, o := range s.orders {
		parts[i] = o.String()
	}
	return strings.Join(parts, ",")
}

// MarshalJSON renders the sort as {"sorted":bool,"orders":[{"property":..,"direction":..}]}.
func (s Sort) MarshalJSON() ([]byte, error) {
	type order struct {
		Property  string `json:"property"`
		Direction string `json:"direction"`
	}
	orders := make([]order, len(s.orders))
	for i, o := range s.orders {
		orders[i] = order{Property: o.Property, Direction: o.Direction.Name()}
	}
	return json.Marshal(struct {
		Sorted bool    `json:"sorted"`
		Orders []order `json:"orders"`
	}{s.IsSorted(), orders})
}

// ParseSort parses request parameters of the form "prop", "prop,asc" or
// "prop1,prop2,desc". A trailing token that is a direction applies to every
// property of that parameter; properties default to ascending.
func ParseSort(params []string) (Sort, error) {
	var orders []Order
	for _, param := range params {
		tokens := strings.Split(param, ",")
		direction := ASC
		if last := len(tokens) - 1; last > 0 {
			if d, ok := ParseDirection(tokens[last]); ok {
				direction = d
				tokens = tokens[:last]
			}
		}
		for _, token := range tokens {
			property := strings.TrimSpace(token)
			if property == "" {
				continue
			}
			if _, ok := ParseDirection(property); ok && len(tokens) == 1 {
				return Sort{}, fmt.Errorf("sort parameter %q has no property", param)
			}
			orders = append(orders, Order{Property: property, Direction: direction})
		}
	}
	return Sort{orders: orders}, nil
}
