// Copyright 2024 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package expression

import (
	"fmt"

	"github.com/dolthub/go-fkjoin/sql"
)

// Equals is an equality comparison between two expressions.
type Equals struct {
	left  sql.Expression
	right sql.Expression
}

var _ sql.Expression = (*Equals)(nil)

// NewEquals creates an equality comparison of the two given expressions.
func NewEquals(left, right sql.Expression) *Equals {
	return &Equals{left: left, right: right}
}

// Left returns the left operand.
func (e *Equals) Left() sql.Expression { return e.left }

// Right returns the right operand.
func (e *Equals) Right() sql.Expression { return e.right }

// Resolved implements sql.Expression.
func (e *Equals) Resolved() bool {
	return e.left.Resolved() && e.right.Resolved()
}

// Type implements sql.Expression.
func (e *Equals) Type() sql.ColumnType { return sql.BooleanType }

// Children implements sql.Expression.
func (e *Equals) Children() []sql.Expression {
	return []sql.Expression{e.left, e.right}
}

func (e *Equals) String() string {
	return fmt.Sprintf("%s = %s", e.left, e.right)
}

// And is a boolean conjunction of two expressions.
type And struct {
	left  sql.Expression
	right sql.Expression
}

var _ sql.Expression = (*And)(nil)

// NewAnd creates a conjunction of the two given expressions.
func NewAnd(left, right sql.Expression) *And {
	return &And{left: left, right: right}
}

// Left returns the left operand.
func (a *And) Left() sql.Expression { return a.left }

// Right returns the right operand.
func (a *And) Right() sql.Expression { return a.right }

// Resolved implements sql.Expression.
func (a *And) Resolved() bool {
	return a.left.Resolved() && a.right.Resolved()
}

// Type implements sql.Expression.
func (a *And) Type() sql.ColumnType { return sql.BooleanType }

// Children implements sql.Expression.
func (a *And) Children() []sql.Expression {
	return []sql.Expression{a.left, a.right}
}

func (a *And) String() string {
	return fmt.Sprintf("(%s AND %s)", a.left, a.right)
}

// JoinAnd folds the given expressions into a left-deep conjunction. It
// returns nil for no expressions and the expression itself for one.
func JoinAnd(exprs ...sql.Expression) sql.Expression {
	switch len(exprs) {
	case 0:
		return nil
	case 1:
		return exprs[0]
	default:
		result := NewAnd(exprs[0], exprs[1])
		for _, e := range exprs[2:] {
			result = NewAnd(result, e)
		}
		return result
	}
}
