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
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorCode(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{ErrTableRefNotFound.New("xx"), CodeUndefinedTable},
		{ErrKeyColumnsMixedTables.New(), CodeUndefinedTable},
		{ErrColumnNotFound.New("c9", "referenced"), CodeUndefinedColumn},
		{ErrAmbiguousColumn.New("c1", "referencing"), CodeAmbiguousColumn},
		{ErrColumnCountMismatch.New(), CodeInvalidForeignKey},
		{ErrNoUniquenessPreservation.New(), CodeInvalidForeignKey},
		{ErrNoRowPreservation.New(), CodeInvalidForeignKey},
		{ErrNoForeignKeyConstraint.New("t2", "c3", "t1", "c1"), CodeUndefinedObject},
		{ErrUnsupportedRelationKind.New(RelSequence), CodeFeatureNotSupported},
		{ErrRecursiveCte.New(), CodeFeatureNotSupported},
		{ErrNotColumnReference.New(), CodeFeatureNotSupported},
		{ErrSetOperationsNotSupported.New(), CodeFeatureNotSupported},
		{ErrUnsupportedQueryShape.New(), CodeFeatureNotSupported},
		{ErrNoEqualityOperator.New(ColumnType{Id: TypeText}, ColumnType{Id: TypeInt4}), CodeUndefinedFunction},
		{ErrArgumentMustBeBoolean.New("FOREIGN KEY JOIN"), CodeDatatypeMismatch},
		{ErrCteNotFound.New("c"), CodeInternalError},
		{errors.New("anything else"), CodeInternalError},
	}

	for _, tc := range cases {
		require.Equal(t, tc.code, ErrorCode(tc.err), "error: %v", tc.err)
	}
}

func TestErrorKindsDistinct(t *testing.T) {
	require := require.New(t)

	err := ErrNoRowPreservation.New()
	require.True(ErrNoRowPreservation.Is(err))
	require.False(ErrNoUniquenessPreservation.Is(err))
}
