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
	"github.com/dolthub/go-fkjoin/sql"
	"github.com/dolthub/go-fkjoin/sql/expression"
)

// drillDownToBaseRel resolves a range table entry and a list of 1-based
// attribute numbers down to the ultimate base table they project from,
// returning the base entry and the corresponding base attribute numbers.
func (a *Analyzer) drillDownToBaseRel(ctx *sql.Context, pstate *sql.ParseState, rte *sql.RangeTblEntry, attnums []int, stack *queryStack) (*sql.RangeTblEntry, []int, error) {
	switch rte.Kind {
	case sql.RteRelation:
		rel, err := a.Catalog.OpenRelation(ctx, rte.RelId)
		if err != nil {
			return nil, nil, err
		}

		switch rel.Kind() {
		case sql.RelView:
			viewQuery := rel.ViewQuery()
			rel.Close()
			return a.drillDownQuery(ctx, pstate, viewQuery, attnums, stack)

		case sql.RelOrdinaryTable, sql.RelPartitionedTable:
			rel.Close()
			return rte, attnums, nil

		default:
			kind := rel.Kind()
			rel.Close()
			return nil, nil, sql.ErrUnsupportedRelationKind.New(kind)
		}

	case sql.RteSubquery:
		return a.drillDownQuery(ctx, pstate, rte.Subquery, attnums, stack)

	case sql.RteCte:
		cte, err := findCTEForRTE(pstate, stack, rte)
		if err != nil {
			return nil, nil, err
		}
		if cte.Recursive {
			return nil, nil, sql.ErrRecursiveCte.New()
		}
		return a.drillDownQuery(ctx, pstate, cte.Query, attnums, stack)

	case sql.RteJoin:
		nextRtIndex := 0
		nextAttnums := make([]int, 0, len(attnums))
		for _, attno := range attnums {
			if attno < 1 || attno > len(rte.JoinAliasVars) {
				return nil, nil, sql.ErrAttnumOutOfRange.New(attno, rte.Alias)
			}
			v, ok := rte.JoinAliasVars[attno-1].(*expression.Var)
			if !ok {
				return nil, nil, sql.ErrNotColumnReference.New()
			}
			if nextRtIndex == 0 {
				nextRtIndex = v.VarNo()
			} else if nextRtIndex != v.VarNo() {
				return nil, nil, sql.ErrKeyColumnsMixedTables.New()
			}
			nextAttnums = append(nextAttnums, v.VarAttno())
		}
		return a.drillDownToBaseRel(ctx, pstate, rteFetch(pstate, stack, nextRtIndex), nextAttnums, stack)

	case sql.RteGroup:
		nextRtIndex := 0
		nextAttnums := make([]int, 0, len(attnums))
		for _, attno := range attnums {
			var v *expression.Var
			if attno > 0 && attno <= len(rte.GroupExprs) {
				v, _ = rte.GroupExprs[attno-1].(*expression.Var)
			}
			if v == nil {
				return nil, nil, sql.ErrGroupColumnNotReference.New(attno)
			}
			if nextRtIndex == 0 {
				nextRtIndex = v.VarNo()
			} else if nextRtIndex != v.VarNo() {
				return nil, nil, sql.ErrKeyColumnsMixedTables.New()
			}
			nextAttnums = append(nextAttnums, v.VarAttno())
		}
		if nextRtIndex == 0 {
			return nil, nil, sql.ErrGroupByNoValidColumns.New()
		}
		return a.drillDownToBaseRel(ctx, pstate, rteFetch(pstate, stack, nextRtIndex), nextAttnums, stack)

	default:
		return nil, nil, sql.ErrUnsupportedRteKind.New(rte.Kind)
	}
}

// drillDownQuery continues a drill-down through the target list of a
// derived query: a view body, a subquery, or a CTE body.
func (a *Analyzer) drillDownQuery(ctx *sql.Context, pstate *sql.ParseState, query *sql.Query, attnums []int, stack *queryStack) (*sql.RangeTblEntry, []int, error) {
	if query.SetOperations {
		return nil, nil, sql.ErrSetOperationsNotSupported.New()
	}

	// GROUP BY is tolerated here; whether it preserves uniqueness is
	// decided during join tree analysis. DISTINCT is fatal: once
	// duplicates are removed there is no way to re-establish determinism
	// for the foreign key checks.
	if query.Command != sql.CmdSelect ||
		query.Distinct ||
		query.GroupingSets ||
		query.HasTargetSRFs {
		return nil, nil, sql.ErrUnsupportedQueryShape.New()
	}

	nextRtIndex := 0
	nextAttnums := make([]int, 0, len(attnums))
	for _, attno := range attnums {
		if attno < 1 || attno > len(query.TargetList) {
			return nil, nil, sql.ErrAttnumOutOfRange.New(attno, "target list")
		}
		tle := query.TargetList[attno-1]

		v, ok := tle.Expr.(*expression.Var)
		if !ok {
			return nil, nil, sql.ErrTargetNotColumnReference.New(tle.Name)
		}
		if nextRtIndex == 0 {
			nextRtIndex = v.VarNo()
		} else if nextRtIndex != v.VarNo() {
			return nil, nil, sql.ErrKeyColumnsMixedTables.New()
		}
		nextAttnums = append(nextAttnums, v.VarAttno())
	}

	newStack := &queryStack{parent: stack, query: query}
	return a.drillDownToBaseRel(ctx, pstate, query.Rte(nextRtIndex), nextAttnums, newStack)
}

// findCTEForRTE locates the CTE a range table entry references, walking the
// analysis-time query stack by the reference's levelsup and continuing up
// the ParseState chain when the reference outruns the stack.
func findCTEForRTE(pstate *sql.ParseState, stack *queryStack, rte *sql.RangeTblEntry) (*sql.CommonTableExpr, error) {
	levelsup := rte.CteLevelsUp

	for qs := stack; qs != nil; qs = qs.parent {
		if levelsup == 0 {
			for _, cte := range qs.query.CteList {
				if cte.Name == rte.CteName {
					return cte, nil
				}
			}
			return nil, sql.ErrCteNotFound.New(rte.CteName)
		}
		levelsup--
	}

	for ps := pstate; ps != nil; ps = ps.Parent {
		if levelsup == 0 {
			for _, cte := range ps.CteList {
				if cte.Name == rte.CteName {
					return cte, nil
				}
			}
			return nil, sql.ErrCteNotFound.New(rte.CteName)
		}
		levelsup--
	}

	return nil, sql.ErrCteNotFound.New(rte.CteName)
}

// rteFetch resolves a 1-based range table index against the innermost
// query of the stack, or the ParseState when the stack is empty.
func rteFetch(pstate *sql.ParseState, stack *queryStack, rtindex int) *sql.RangeTblEntry {
	if stack != nil {
		return stack.query.Rte(rtindex)
	}
	return pstate.Rte(rtindex)
}
