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

// Var is a reference to a column of a range table entry: the entry's
// 1-based index and the 1-based attribute number within it.
type Var struct {
	varNo    int
	varAttno int
	typ      sql.ColumnType
}

var _ sql.Expression = (*Var)(nil)

// NewVar creates a Var referencing the given attribute of the given range
// table entry.
func NewVar(varNo, varAttno int, typ sql.ColumnType) *Var {
	return &Var{varNo: varNo, varAttno: varAttno, typ: typ}
}

// VarNo returns the 1-based range table index the Var refers to.
func (v *Var) VarNo() int { return v.varNo }

// VarAttno returns the 1-based attribute number the Var refers to.
func (v *Var) VarAttno() int { return v.varAttno }

// Resolved implements sql.Expression.
func (v *Var) Resolved() bool { return v.typ.Id != sql.TypeUnknown }

// Type implements sql.Expression.
func (v *Var) Type() sql.ColumnType { return v.typ }

// Children implements sql.Expression.
func (v *Var) Children() []sql.Expression { return nil }

func (v *Var) String() string {
	return fmt.Sprintf("var(%d.%d)", v.varNo, v.varAttno)
}
