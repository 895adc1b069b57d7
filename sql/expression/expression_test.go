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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-fkjoin/sql"
)

var (
	int4Type = sql.ColumnType{Id: sql.TypeInt4}
	int8Type = sql.ColumnType{Id: sql.TypeInt8}
	textType = sql.ColumnType{Id: sql.TypeText}
)

func TestJoinAnd(t *testing.T) {
	require := require.New(t)

	a := NewEquals(NewVar(1, 1, int4Type), NewVar(2, 1, int4Type))
	b := NewEquals(NewVar(1, 2, int4Type), NewVar(2, 2, int4Type))
	c := NewEquals(NewVar(1, 3, int4Type), NewVar(2, 3, int4Type))

	require.Nil(JoinAnd())
	require.Equal(a, JoinAnd(a))
	require.Equal(NewAnd(a, b), JoinAnd(a, b))
	require.Equal(NewAnd(NewAnd(a, b), c), JoinAnd(a, b, c))
}

func TestEqualsType(t *testing.T) {
	require := require.New(t)

	eq := NewEquals(NewVar(1, 1, int4Type), NewVar(2, 1, int4Type))
	require.Equal(sql.BooleanType, eq.Type())
	require.True(eq.Resolved())
	require.Len(eq.Children(), 2)
}

func TestTransformerAcceptsComparable(t *testing.T) {
	require := require.New(t)

	tf := NewTransformer()
	ctx := sql.NewEmptyContext()

	// Same family, different widths.
	eq := NewEquals(NewVar(1, 1, int4Type), NewVar(2, 1, int8Type))
	out, err := tf.TransformExpr(ctx, eq, sql.ExprKindJoinOn)
	require.NoError(err)
	require.Equal(eq, out)

	out, err = tf.CoerceToBoolean(ctx, out, "FOREIGN KEY JOIN")
	require.NoError(err)
	require.Equal(eq, out)

	conj := JoinAnd(eq, NewEquals(NewVar(1, 2, textType), NewVar(2, 2, textType)))
	out, err = tf.TransformExpr(ctx, conj, sql.ExprKindJoinOn)
	require.NoError(err)
	require.Equal(conj, out)
}

func TestTransformerRejectsIncomparable(t *testing.T) {
	require := require.New(t)

	tf := NewTransformer()
	ctx := sql.NewEmptyContext()

	eq := NewEquals(NewVar(1, 1, textType), NewVar(2, 1, int4Type))
	_, err := tf.TransformExpr(ctx, eq, sql.ExprKindJoinOn)
	require.Error(err)
	require.True(sql.ErrNoEqualityOperator.Is(err))
}

func TestTransformerRejectsUnresolvedVar(t *testing.T) {
	require := require.New(t)

	tf := NewTransformer()
	ctx := sql.NewEmptyContext()

	eq := NewEquals(NewVar(1, 1, sql.ColumnType{}), NewVar(2, 1, int4Type))
	_, err := tf.TransformExpr(ctx, eq, sql.ExprKindJoinOn)
	require.Error(err)
	require.True(sql.ErrUnresolvedExpression.Is(err))
}

func TestCoerceToBooleanRejectsNonBoolean(t *testing.T) {
	require := require.New(t)

	tf := NewTransformer()
	ctx := sql.NewEmptyContext()

	_, err := tf.CoerceToBoolean(ctx, NewVar(1, 1, int4Type), "FOREIGN KEY JOIN")
	require.Error(err)
	require.True(sql.ErrArgumentMustBeBoolean.Is(err))
	require.Contains(err.Error(), "FOREIGN KEY JOIN")
}

func TestAndRequiresBooleanArguments(t *testing.T) {
	require := require.New(t)

	tf := NewTransformer()
	ctx := sql.NewEmptyContext()

	and := NewAnd(NewVar(1, 1, int4Type), NewLiteral(true, sql.BooleanType))
	_, err := tf.TransformExpr(ctx, and, sql.ExprKindJoinOn)
	require.Error(err)
	require.True(sql.ErrArgumentMustBeBoolean.Is(err))
}
