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

import (
	"gopkg.in/src-d/go-errors.v1"
)

var (
	// ErrTableRefNotFound is returned when the alias named by a foreign
	// key join is not visible on the other side of the join.
	ErrTableRefNotFound = errors.NewKind("table reference %q not found")

	// ErrKeyColumnsMixedTables is returned when the key columns of one
	// side resolve to more than one underlying relation.
	ErrKeyColumnsMixedTables = errors.NewKind("all key columns must belong to the same table")

	// ErrColumnNotFound is returned when a named key column is absent
	// from the named side's visible columns.
	ErrColumnNotFound = errors.NewKind("column %q does not exist in %s table")

	// ErrAmbiguousColumn is returned when a named key column appears more
	// than once in a side's visible columns.
	ErrAmbiguousColumn = errors.NewKind("common column name %q appears more than once in %s table")

	// ErrColumnCountMismatch is returned when the two key column lists
	// have different lengths.
	ErrColumnCountMismatch = errors.NewKind("number of referencing and referenced columns for foreign key disagree")

	// ErrNoForeignKeyConstraint is returned when no FOREIGN KEY constraint
	// matches the referencing relation, referenced relation, and column
	// pairs of the join.
	ErrNoForeignKeyConstraint = errors.NewKind("there is no foreign key constraint on table %q (%s) referencing table %q (%s)")

	// ErrNoUniquenessPreservation is returned when the referenced side of
	// the join no longer guarantees uniqueness of the referenced key.
	ErrNoUniquenessPreservation = errors.NewKind("foreign key join violation: referenced relation does not preserve uniqueness of keys")

	// ErrNoRowPreservation is returned when the referenced side of the
	// join no longer guarantees all rows of the referenced table.
	ErrNoRowPreservation = errors.NewKind("foreign key join violation: referenced relation does not preserve all rows")

	// ErrUnsupportedRelationKind is returned for relation kinds a foreign
	// key join cannot drill through (sequences, foreign tables, ...).
	ErrUnsupportedRelationKind = errors.NewKind("foreign key joins involving this type of relation are not supported: %s")

	// ErrUnsupportedRteKind is returned for range table entry kinds the
	// join tree analysis does not support.
	ErrUnsupportedRteKind = errors.NewKind("foreign key joins involving this range table entry kind are not supported: %s")

	// ErrRecursiveCte is returned when a foreign key join side drills into
	// a recursive common table expression.
	ErrRecursiveCte = errors.NewKind("foreign key joins involving recursive common table expressions are not supported")

	// ErrNotColumnReference is returned when a join alias column that a
	// key column maps to is an expression rather than a column reference.
	ErrNotColumnReference = errors.NewKind("foreign key joins require direct column references, found expression")

	// ErrTargetNotColumnReference is returned when a target list entry
	// that a key column maps to is an expression rather than a column
	// reference.
	ErrTargetNotColumnReference = errors.NewKind("target entry %q is an expression, not a direct column reference")

	// ErrGroupColumnNotReference is returned when a grouped relation
	// column that a key column maps to is not a simple column reference.
	ErrGroupColumnNotReference = errors.NewKind("GROUP BY column %d is not a simple column reference")

	// ErrGroupByNoValidColumns is returned when a grouped relation yields
	// no usable columns to drill through.
	ErrGroupByNoValidColumns = errors.NewKind("no valid columns found in GROUP BY for foreign key join")

	// ErrUnsupportedQueryShape is returned when a drilled query uses a
	// feature the analysis rejects: non-SELECT commands, DISTINCT,
	// grouping sets, or set-returning target expressions.
	ErrUnsupportedQueryShape = errors.NewKind("foreign key joins not supported for these relations")

	// ErrSetOperationsNotSupported is returned when a drilled query is a
	// set operation tree.
	ErrSetOperationsNotSupported = errors.NewKind("foreign key joins involving set operations are not supported")

	// ErrUnsupportedJoinTreeNode is returned for join tree node shapes the
	// analysis does not support, including joins with no resolved foreign
	// key annotation.
	ErrUnsupportedJoinTreeNode = errors.NewKind("unsupported node type in foreign key join traversal")

	// ErrCteNotFound reports a reference to a CTE that no enclosing query
	// defines. It indicates a malformed query tree.
	ErrCteNotFound = errors.NewKind("could not find CTE %q")

	// ErrAttnumOutOfRange reports an attribute number with no matching
	// column. It indicates a malformed query tree.
	ErrAttnumOutOfRange = errors.NewKind("attribute %d out of range for %q")

	// ErrUnresolvedExpression reports an expression with incomplete type
	// information reaching the transformer. It indicates a malformed
	// query tree.
	ErrUnresolvedExpression = errors.NewKind("expression %s is not resolved")

	// ErrNoEqualityOperator is returned by the expression transformer when
	// no equality operator exists between two types.
	ErrNoEqualityOperator = errors.NewKind("operator does not exist: %s = %s")

	// ErrArgumentMustBeBoolean is returned when a construct requiring a
	// boolean argument receives some other type.
	ErrArgumentMustBeBoolean = errors.NewKind("argument of %s must be type boolean")

	// ErrRelationNotFound is returned by catalogs for unknown relation
	// ids.
	ErrRelationNotFound = errors.NewKind("relation %d not found")
)

// SQLSTATE class codes for the stable error categories.
const (
	CodeUndefinedTable      = "42P01"
	CodeUndefinedColumn     = "42703"
	CodeAmbiguousColumn     = "42702"
	CodeInvalidForeignKey   = "42830"
	CodeUndefinedObject     = "42704"
	CodeFeatureNotSupported = "0A000"
	CodeUndefinedFunction   = "42883"
	CodeDatatypeMismatch    = "42804"
	CodeInternalError       = "XX000"
)

// ErrorCode maps an analysis error to its SQLSTATE class code. Unrecognized
// errors map to the internal error class.
func ErrorCode(err error) string {
	switch {
	case ErrTableRefNotFound.Is(err), ErrKeyColumnsMixedTables.Is(err):
		return CodeUndefinedTable
	case ErrColumnNotFound.Is(err):
		return CodeUndefinedColumn
	case ErrAmbiguousColumn.Is(err):
		return CodeAmbiguousColumn
	case ErrColumnCountMismatch.Is(err),
		ErrNoUniquenessPreservation.Is(err),
		ErrNoRowPreservation.Is(err):
		return CodeInvalidForeignKey
	case ErrNoForeignKeyConstraint.Is(err):
		return CodeUndefinedObject
	case ErrUnsupportedRelationKind.Is(err),
		ErrUnsupportedRteKind.Is(err),
		ErrRecursiveCte.Is(err),
		ErrNotColumnReference.Is(err),
		ErrTargetNotColumnReference.Is(err),
		ErrGroupColumnNotReference.Is(err),
		ErrGroupByNoValidColumns.Is(err),
		ErrUnsupportedQueryShape.Is(err),
		ErrSetOperationsNotSupported.Is(err),
		ErrUnsupportedJoinTreeNode.Is(err):
		return CodeFeatureNotSupported
	case ErrNoEqualityOperator.Is(err):
		return CodeUndefinedFunction
	case ErrArgumentMustBeBoolean.Is(err):
		return CodeDatatypeMismatch
	default:
		return CodeInternalError
	}
}
