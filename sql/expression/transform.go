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
	"github.com/dolthub/go-fkjoin/sql"
)

// Transformer is the default expression transformer. It type-checks the
// equality conjunctions the ON-clause builder assembles; hosts with a full
// expression engine supply their own sql.ExprTransformer instead.
type Transformer struct{}

var _ sql.ExprTransformer = Transformer{}

// NewTransformer returns the default transformer.
func NewTransformer() Transformer {
	return Transformer{}
}

// TransformExpr implements sql.ExprTransformer.
func (t Transformer) TransformExpr(ctx *sql.Context, e sql.Expression, kind sql.ExprKind) (sql.Expression, error) {
	if err := t.check(e); err != nil {
		return nil, err
	}
	return e, nil
}

func (t Transformer) check(e sql.Expression) error {
	switch e := e.(type) {
	case *Var:
		if !e.Resolved() {
			return sql.ErrUnresolvedExpression.New(e)
		}
		return nil
	case *Equals:
		if err := t.check(e.Left()); err != nil {
			return err
		}
		if err := t.check(e.Right()); err != nil {
			return err
		}
		if !e.Left().Type().ComparableTo(e.Right().Type()) {
			return sql.ErrNoEqualityOperator.New(e.Left().Type(), e.Right().Type())
		}
		return nil
	case *And:
		if err := t.check(e.Left()); err != nil {
			return err
		}
		if err := t.check(e.Right()); err != nil {
			return err
		}
		if e.Left().Type().Id != sql.TypeBool || e.Right().Type().Id != sql.TypeBool {
			return sql.ErrArgumentMustBeBoolean.New("AND")
		}
		return nil
	default:
		for _, child := range e.Children() {
			if err := t.check(child); err != nil {
				return err
			}
		}
		return nil
	}
}

// CoerceToBoolean implements sql.ExprTransformer.
func (t Transformer) CoerceToBoolean(ctx *sql.Context, e sql.Expression, construct string) (sql.Expression, error) {
	if e.Type().Id != sql.TypeBool {
		return nil, sql.ErrArgumentMustBeBoolean.New(construct)
	}
	return e, nil
}
