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

	"github.com/dolthub/go-fkjoin/memory"
	"github.com/dolthub/go-fkjoin/sql"
	"github.com/dolthub/go-fkjoin/sql/expression"
)

var (
	int4Type = sql.ColumnType{Id: sql.TypeInt4}
	textType = sql.ColumnType{Id: sql.TypeText}
)

// newTestCatalog builds the reference schema:
//
//	t1 (c1 int4 primary key, c2 int4)
//	t2 (c3 int4 primary key references t1 (c1), c4 int4)
func newTestCatalog() *memory.Catalog {
	cat := memory.NewCatalog()

	cat.AddTable("t1", 0,
		sql.Column{Name: "c1", Type: int4Type, NotNull: true},
		sql.Column{Name: "c2", Type: int4Type},
	)
	cat.AddUniqueIndex("t1", "t1_pkey", 1)

	cat.AddTable("t2", 0,
		sql.Column{Name: "c3", Type: int4Type, NotNull: true},
		sql.Column{Name: "c4", Type: int4Type},
	)
	cat.AddUniqueIndex("t2", "t2_pkey", 1)
	cat.AddForeignKey("t2_c3_fkey", 0, "t2", []int{1}, "t1", []int{1})

	return cat
}

func mustRelId(t *testing.T, cat *memory.Catalog, name string) sql.RelationId {
	t.Helper()
	id, ok := cat.RelationId(name)
	if !ok {
		t.Fatalf("relation %q not in catalog", name)
	}
	return id
}

func tableRte(id sql.RteId, relid sql.RelationId, alias string, cols ...string) *sql.RangeTblEntry {
	return &sql.RangeTblEntry{
		Id:       id,
		Kind:     sql.RteRelation,
		RelId:    relid,
		Alias:    alias,
		ColNames: cols,
	}
}

func nsItemFor(rte *sql.RangeTblEntry, rtindex int, types ...sql.ColumnType) *sql.NamespaceItem {
	cols := make([]sql.NamespaceColumn, len(rte.ColNames))
	for i := range cols {
		cols[i] = sql.NamespaceColumn{VarNo: rtindex, VarAttno: i + 1, Type: types[i]}
	}
	return &sql.NamespaceItem{
		RtIndex:    rtindex,
		Alias:      rte.Alias,
		ColNames:   rte.ColNames,
		RelVisible: true,
		Columns:    cols,
	}
}

func newVar(varNo, attno int) *expression.Var {
	return expression.NewVar(varNo, attno, int4Type)
}

// selectStarFromT1 builds SELECT c1, c2 FROM t1 with the inner t1 entry at
// the given query level.
func selectStarFromT1(t *testing.T, cat *memory.Catalog, level int) *sql.Query {
	t.Helper()
	t1 := mustRelId(t, cat, "t1")
	return &sql.Query{
		Command: sql.CmdSelect,
		RangeTable: []*sql.RangeTblEntry{
			tableRte(sql.RteId{Level: level, RtIndex: 1}, t1, "t1", "c1", "c2"),
		},
		JoinTree: &sql.FromExpr{FromList: []sql.Node{&sql.RangeTblRef{RtIndex: 1}}},
		TargetList: []*sql.TargetEntry{
			{Expr: expression.NewVar(1, 1, int4Type), Name: "c1"},
			{Expr: expression.NewVar(1, 2, int4Type), Name: "c2"},
		},
	}
}

// leftSide builds the left (referenced) side of a test join.
type leftSide func(t *testing.T, cat *memory.Catalog) (*sql.RangeTblEntry, []sql.ColumnType)

func leftBaseTable(t *testing.T, cat *memory.Catalog) (*sql.RangeTblEntry, []sql.ColumnType) {
	t1 := mustRelId(t, cat, "t1")
	return tableRte(sql.RteId{Level: 0, RtIndex: 1}, t1, "t1", "c1", "c2"),
		[]sql.ColumnType{int4Type, int4Type}
}

// leftSubquery wraps SELECT c1, c2 FROM t1 in a from-clause subquery under
// the given alias, applying mutate to the inner query first.
func leftSubquery(alias string, mutate func(q *sql.Query)) leftSide {
	return func(t *testing.T, cat *memory.Catalog) (*sql.RangeTblEntry, []sql.ColumnType) {
		inner := selectStarFromT1(t, cat, 1)
		if mutate != nil {
			mutate(inner)
		}
		rte := &sql.RangeTblEntry{
			Id:       sql.RteId{Level: 0, RtIndex: 1},
			Kind:     sql.RteSubquery,
			Alias:    alias,
			ColNames: []string{"c1", "c2"},
			Subquery: inner,
		}
		return rte, []sql.ColumnType{int4Type, int4Type}
	}
}

// fixture is a prepared FROM <left> JOIN t2 KEY (c3) -> <left> (c1) join,
// ready for ResolveForeignKeyJoin.
type fixture struct {
	cat    *memory.Catalog
	a      *Analyzer
	pstate *sql.ParseState
	join   *sql.JoinExpr
	clause *sql.FkJoinClause
	rItem  *sql.NamespaceItem
	lNs    []*sql.NamespaceItem
}

func newFixture(t *testing.T, left leftSide) *fixture {
	t.Helper()
	cat := newTestCatalog()

	leftRte, leftTypes := left(t, cat)
	t2Rte := tableRte(sql.RteId{Level: 0, RtIndex: 2}, mustRelId(t, cat, "t2"), "t2", "c3", "c4")

	pstate := &sql.ParseState{RangeTable: []*sql.RangeTblEntry{leftRte, t2Rte}}
	lItem := nsItemFor(leftRte, 1, leftTypes...)
	rItem := nsItemFor(t2Rte, 2, int4Type, int4Type)

	clause := &sql.FkJoinClause{
		Direction: sql.FKTo,
		RefAlias:  leftRte.Alias,
		LocalCols: []string{"c3"},
		RefCols:   []string{"c1"},
		Location:  42,
	}
	join := &sql.JoinExpr{
		JoinType: sql.JoinInner,
		Larg:     &sql.RangeTblRef{RtIndex: 1},
		Rarg:     &sql.RangeTblRef{RtIndex: 2},
		FkJoin:   clause,
	}

	return &fixture{
		cat:    cat,
		a:      New(cat, nil),
		pstate: pstate,
		join:   join,
		clause: clause,
		rItem:  rItem,
		lNs:    []*sql.NamespaceItem{lItem},
	}
}

func (f *fixture) resolve() error {
	return f.a.ResolveForeignKeyJoin(sql.NewEmptyContext(), f.pstate, f.join, f.rItem, f.lNs)
}
