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

package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-fkjoin/memory"
	"github.com/dolthub/go-fkjoin/sql"
)

// pairCatalog builds p (x, y) and q (qx, qy) with a two-column key
// q (qx, qy) references p (x, y).
func pairCatalog() *memory.Catalog {
	cat := memory.NewCatalog()
	cat.AddTable("p", 0,
		sql.Column{Name: "x", Type: int4Type, NotNull: true},
		sql.Column{Name: "y", Type: int4Type, NotNull: true},
	)
	cat.AddUniqueIndex("p", "p_pkey", 1, 2)
	cat.AddTable("q", 0,
		sql.Column{Name: "qx", Type: int4Type, NotNull: true},
		sql.Column{Name: "qy", Type: int4Type},
	)
	cat.AddForeignKey("q_fkey", 0, "q", []int{1, 2}, "p", []int{1, 2})
	return cat
}

func TestFindForeignKeyPairMatching(t *testing.T) {
	require := require.New(t)

	cat := pairCatalog()
	a := New(cat, nil)
	ctx := sql.NewEmptyContext()
	p := mustRelId(t, cat, "p")
	q := mustRelId(t, cat, "q")

	// Pairs match in declaration order.
	id, ok, err := a.findForeignKey(ctx, q, p, []int{1, 2}, []int{1, 2})
	require.NoError(err)
	require.True(ok)
	require.NotZero(id)

	// Pairs match in any order across pairs.
	id2, ok, err := a.findForeignKey(ctx, q, p, []int{2, 1}, []int{2, 1})
	require.NoError(err)
	require.True(ok)
	require.Equal(id, id2)

	// Pairs are order-sensitive within each pair.
	_, ok, err = a.findForeignKey(ctx, q, p, []int{1, 2}, []int{2, 1})
	require.NoError(err)
	require.False(ok)

	// Wrong arity.
	_, ok, err = a.findForeignKey(ctx, q, p, []int{1}, []int{1})
	require.NoError(err)
	require.False(ok)

	// Wrong referenced relation.
	_, ok, err = a.findForeignKey(ctx, q, q, []int{1, 2}, []int{1, 2})
	require.NoError(err)
	require.False(ok)
}

func TestReferencingColsUnique(t *testing.T) {
	require := require.New(t)

	cat := pairCatalog()
	a := New(cat, nil)
	ctx := sql.NewEmptyContext()
	p := mustRelId(t, cat, "p")

	// Exact key set, order-insensitive.
	unique, err := a.referencingColsUnique(ctx, p, []int{1, 2})
	require.NoError(err)
	require.True(unique)

	unique, err = a.referencingColsUnique(ctx, p, []int{2, 1})
	require.NoError(err)
	require.True(unique)

	// A subset of a unique key is not itself unique.
	unique, err = a.referencingColsUnique(ctx, p, []int{1})
	require.NoError(err)
	require.False(unique)

	// Non-unique indexes never qualify.
	cat.AddIndex("q", "q_qx_idx", 1)
	q := mustRelId(t, cat, "q")
	unique, err = a.referencingColsUnique(ctx, q, []int{1})
	require.NoError(err)
	require.False(unique)
}

func TestReferencingColsNotNull(t *testing.T) {
	require := require.New(t)

	cat := pairCatalog()
	a := New(cat, nil)
	ctx := sql.NewEmptyContext()
	q := mustRelId(t, cat, "q")

	notNull, err := a.referencingColsNotNull(ctx, q, []int{1})
	require.NoError(err)
	require.True(notNull)

	// qy is nullable.
	notNull, err = a.referencingColsNotNull(ctx, q, []int{1, 2})
	require.NoError(err)
	require.False(notNull)
}

func TestUniqueIndexCoversColumns(t *testing.T) {
	require := require.New(t)

	cat := pairCatalog()
	ctx := sql.NewEmptyContext()
	rel, err := cat.OpenRelation(ctx, mustRelId(t, cat, "p"))
	require.NoError(err)
	defer rel.Close()

	// The grouped columns may be a superset of the index key.
	require.True(uniqueIndexCoversColumns(rel, map[int]struct{}{1: {}, 2: {}}))
	require.False(uniqueIndexCoversColumns(rel, map[int]struct{}{1: {}}))
}

func TestGroupByUniquenessRemapsGroupRte(t *testing.T) {
	require := require.New(t)

	cat := newTestCatalog()
	a := New(cat, nil)

	// SELECT c1 FROM t1 GROUP BY c1 where the target list points at an
	// RteGroup entry whose expressions reference the base relation.
	t1 := mustRelId(t, cat, "t1")
	t1Rte := tableRte(sql.RteId{Level: 1, RtIndex: 1}, t1, "t1", "c1", "c2")
	groupRte := &sql.RangeTblEntry{
		Id:   sql.RteId{Level: 1, RtIndex: 2},
		Kind: sql.RteGroup,
		GroupExprs: []sql.Expression{
			newVar(1, 1),
		},
	}
	query := &sql.Query{
		Command:    sql.CmdSelect,
		RangeTable: []*sql.RangeTblEntry{t1Rte, groupRte},
		JoinTree:   &sql.FromExpr{FromList: []sql.Node{&sql.RangeTblRef{RtIndex: 1}}},
		TargetList: []*sql.TargetEntry{
			{Expr: newVar(2, 1), Name: "c1"},
		},
		GroupClause: []int{1},
	}

	preserved, uniq, err := a.checkGroupByPreservesUniqueness(sql.NewEmptyContext(), query)
	require.NoError(err)
	require.True(preserved)
	require.Equal(sql.UniquenessSet{t1Rte.Id}, uniq)
}
