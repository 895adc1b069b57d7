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

package sql

// Node is a node of a query's join tree.
type Node interface {
	// String returns a human-readable representation of the node, used in
	// log output and error messages.
	String() string
}

// Expression is a node of an expression tree.
type Expression interface {
	// Resolved reports whether the expression and all its children carry
	// complete type information.
	Resolved() bool
	// Type returns the type of the value the expression produces.
	Type() ColumnType
	// Children returns the immediate children of this expression.
	Children() []Expression
	// String returns a human-readable representation of the expression.
	String() string
}

// ExprKind tells an expression transformer in which clause of a query the
// expression being checked appears.
type ExprKind byte

const (
	ExprKindNone ExprKind = iota
	// ExprKindJoinOn is the ON clause of a join.
	ExprKindJoinOn
)

// ExprTransformer type-checks expression trees assembled during analysis.
// The full transformer lives with the host; the expression package provides
// a default good enough for equality conjunctions.
type ExprTransformer interface {
	// TransformExpr type-checks an expression in the given clause context
	// and returns the checked expression.
	TransformExpr(ctx *Context, e Expression, kind ExprKind) (Expression, error)
	// CoerceToBoolean verifies that the expression produces a boolean,
	// reporting failures against the named construct.
	CoerceToBoolean(ctx *Context, e Expression, construct string) (Expression, error)
}

// CommandType is the statement kind of a Query.
type CommandType byte

const (
	CmdUnknown CommandType = iota
	CmdSelect
	CmdInsert
	CmdUpdate
	CmdDelete
	CmdUtility
)

func (c CommandType) String() string {
	switch c {
	case CmdSelect:
		return "SELECT"
	case CmdInsert:
		return "INSERT"
	case CmdUpdate:
		return "UPDATE"
	case CmdDelete:
		return "DELETE"
	case CmdUtility:
		return "UTILITY"
	default:
		return "UNKNOWN"
	}
}

// JoinType is the type of a join.
type JoinType byte

const (
	JoinInner JoinType = iota
	JoinLeft
	JoinRight
	JoinFull
)

func (t JoinType) String() string {
	switch t {
	case JoinInner:
		return "InnerJoin"
	case JoinLeft:
		return "LeftJoin"
	case JoinRight:
		return "RightJoin"
	case JoinFull:
		return "FullJoin"
	default:
		return "UnknownJoin"
	}
}

// FKDirection orients a foreign key join: FKFrom makes the named other
// relation the referencing side, FKTo makes it the referenced side.
type FKDirection byte

const (
	FKFrom FKDirection = iota
	FKTo
)

func (d FKDirection) String() string {
	if d == FKFrom {
		return "FROM"
	}
	return "TO"
}
