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

// Literal is a constant value.
type Literal struct {
	value interface{}
	typ   sql.ColumnType
}

var _ sql.Expression = (*Literal)(nil)

// NewLiteral creates a literal of the given value and type.
func NewLiteral(value interface{}, typ sql.ColumnType) *Literal {
	return &Literal{value: value, typ: typ}
}

// Value returns the literal value.
func (l *Literal) Value() interface{} { return l.value }

// Resolved implements sql.Expression.
func (l *Literal) Resolved() bool { return l.typ.Id != sql.TypeUnknown }

// Type implements sql.Expression.
func (l *Literal) Type() sql.ColumnType { return l.typ }

// Children implements sql.Expression.
func (l *Literal) Children() []sql.Expression { return nil }

func (l *Literal) String() string {
	return fmt.Sprintf("%v", l.value)
}
