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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUniquenessSet(t *testing.T) {
	require := require.New(t)

	a := RteId{Level: 0, RtIndex: 1}
	b := RteId{Level: 0, RtIndex: 2}
	inner := RteId{Level: 1, RtIndex: 1}

	var s UniquenessSet
	require.False(s.Contains(a))

	s = UniquenessSet{a, inner}
	require.True(s.Contains(a))
	require.True(s.Contains(inner))
	require.False(s.Contains(b))

	// Identity is the (level, index) pair, not the index alone.
	require.False(s.Contains(RteId{Level: 1, RtIndex: 2}))
}

func TestFDSet(t *testing.T) {
	require := require.New(t)

	a := RteId{Level: 0, RtIndex: 1}
	b := RteId{Level: 0, RtIndex: 2}

	var s FDSet
	require.False(s.HasSelfDependency(a))

	s = FDSet{
		{Det: b, Dep: a},
		{Det: a, Dep: a},
		{Det: a, Dep: a},
	}

	// Duplicates are allowed and inert.
	require.True(s.HasSelfDependency(a))
	require.False(s.HasSelfDependency(b))
	require.True(s.Contains(FuncDep{Det: b, Dep: a}))
	require.False(s.Contains(FuncDep{Det: a, Dep: b}))
}

func TestPropertySetStrings(t *testing.T) {
	require := require.New(t)

	a := RteId{Level: 0, RtIndex: 1}
	require.Equal("{rte(0.1)}", UniquenessSet{a}.String())
	require.Equal("{rte(0.1)->rte(0.1)}", FDSet{{Det: a, Dep: a}}.String())
}
