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
)

// analyzeJoinTree walks a join subtree computing which base relations keep
// their uniqueness and which functional dependency facts hold across the
// subtree's joins. found reports that the distinguished relation target was
// located; from that point on the sets of the subtree containing it are
// propagated unchanged, since the caller only needs the properties below
// the participating relation.
//
// query is the enclosing derived query, nil at the outermost level; stack
// is the chain of entered queries, nil iff query is nil.
func (a *Analyzer) analyzeJoinTree(ctx *sql.Context, pstate *sql.ParseState, n sql.Node, query *sql.Query, target sql.RteId, stack *queryStack) (sql.UniquenessSet, sql.FDSet, bool, error) {
	switch n := n.(type) {
	case *sql.JoinExpr:
		return a.analyzeJoinExpr(ctx, pstate, n, query, target, stack)
	case *sql.RangeTblRef:
		return a.analyzeRangeTblRef(ctx, pstate, n, query, target, stack)
	default:
		return nil, nil, false, sql.ErrUnsupportedJoinTreeNode.New()
	}
}

func (a *Analyzer) analyzeJoinExpr(ctx *sql.Context, pstate *sql.ParseState, join *sql.JoinExpr, query *sql.Query, target sql.RteId, stack *queryStack) (sql.UniquenessSet, sql.FDSet, bool, error) {
	fkjn, ok := join.FkJoin.(*sql.FkJoinNode)
	if !ok {
		return nil, nil, false, sql.ErrUnsupportedJoinTreeNode.New()
	}

	rtable := pstate.RangeTable
	if query != nil {
		rtable = query.RangeTable
	}

	var referencingArg, referencedArg sql.Node
	if fkjn.Direction == sql.FKFrom {
		referencingArg, referencedArg = join.Larg, join.Rarg
	} else {
		referencedArg, referencingArg = join.Larg, join.Rarg
	}

	referencingRte := rtable[fkjn.ReferencingVarno-1]
	referencedRte := rtable[fkjn.ReferencedVarno-1]

	referencingUniqueness, referencingFDs, found, err := a.analyzeJoinTree(ctx, pstate, referencingArg, query, target, stack)
	if err != nil {
		return nil, nil, false, err
	}
	if found || referencingRte.Id == target {
		return referencingUniqueness, referencingFDs, true, nil
	}

	referencedUniqueness, referencedFDs, found, err := a.analyzeJoinTree(ctx, pstate, referencedArg, query, target, stack)
	if err != nil {
		return nil, nil, false, err
	}
	if found || referencedRte.Id == target {
		return referencedUniqueness, referencedFDs, true, nil
	}

	baseReferencingRte, referencingBaseAttnums, err := a.drillDownToBaseRel(ctx, pstate, referencingRte, fkjn.ReferencingAttnums, stack)
	if err != nil {
		return nil, nil, false, err
	}
	baseReferencedRte, _, err := a.drillDownToBaseRel(ctx, pstate, referencedRte, fkjn.ReferencedAttnums, stack)
	if err != nil {
		return nil, nil, false, err
	}

	referencingRelid := baseReferencingRte.RelId
	referencingId := baseReferencingRte.Id
	referencedId := baseReferencedRte.Id

	fkColsUnique, err := a.referencingColsUnique(ctx, referencingRelid, referencingBaseAttnums)
	if err != nil {
		return nil, nil, false, err
	}
	fkColsNotNull, err := a.referencingColsNotNull(ctx, referencingRelid, referencingBaseAttnums)
	if err != nil {
		return nil, nil, false, err
	}

	uniqueness := combineUniqueness(referencingUniqueness, referencedUniqueness, fkColsUnique)
	fds := combineFuncDeps(referencingFDs, referencingId, referencedFDs, referencedId,
		fkColsNotNull, join.JoinType, fkjn.Direction)
	return uniqueness, fds, false, nil
}

func (a *Analyzer) analyzeRangeTblRef(ctx *sql.Context, pstate *sql.ParseState, rtr *sql.RangeTblRef, query *sql.Query, target sql.RteId, stack *queryStack) (sql.UniquenessSet, sql.FDSet, bool, error) {
	rte := rteFetchQuery(pstate, query, rtr.RtIndex)

	var (
		uniqueness sql.UniquenessSet
		fds        sql.FDSet
		innerQuery *sql.Query
	)

	switch rte.Kind {
	case sql.RteRelation:
		rel, err := a.Catalog.OpenRelation(ctx, rte.RelId)
		if err != nil {
			return nil, nil, false, err
		}

		switch rel.Kind() {
		case sql.RelView:
			innerQuery = rel.ViewQuery()
		case sql.RelOrdinaryTable, sql.RelPartitionedTable:
			uniqueness = sql.UniquenessSet{rte.Id}
			if !rel.RowSecurity() && queryUnfiltered(query) {
				fds = sql.FDSet{{Det: rte.Id, Dep: rte.Id}}
			}
		}
		rel.Close()

	case sql.RteSubquery:
		innerQuery = rte.Subquery

	case sql.RteCte:
		cte, err := findCTEForRTE(pstate, stack, rte)
		if err != nil {
			return nil, nil, false, err
		}
		if !cte.Recursive && cte.Query != nil {
			innerQuery = cte.Query
		}

	default:
		return nil, nil, false, sql.ErrUnsupportedRteKind.New(rte.Kind)
	}

	var found bool
	if innerQuery != nil && innerQuery.JoinTree != nil && len(innerQuery.JoinTree.FromList) == 1 {
		// Join analysis cannot cross an implicit cross product, so only
		// single-item from lists are entered; anything else keeps the
		// conservative empty sets.
		newStack := &queryStack{parent: stack, query: innerQuery}

		var err error
		uniqueness, fds, found, err = a.analyzeJoinTree(ctx, pstate, innerQuery.JoinTree.FromList[0], innerQuery, target, newStack)
		if err != nil {
			return nil, nil, false, err
		}

		if len(innerQuery.GroupClause) > 0 {
			log := ctx.GetLogger()
			log.Debugf("analyzeJoinTree: found GROUP BY in inner query, checking uniqueness preservation")

			preserved, groupUniqueness, err := a.checkGroupByPreservesUniqueness(ctx, innerQuery)
			if err != nil {
				return nil, nil, false, err
			}
			if preserved {
				uniqueness = groupUniqueness
			} else {
				log.Debugf("analyzeJoinTree: GROUP BY does not preserve uniqueness, clearing uniqueness preservation")
				uniqueness = nil
			}
		}
	}

	return uniqueness, fds, found, nil
}

// queryUnfiltered reports whether the enclosing query keeps every row of
// its single from item: no WHERE, HAVING, LIMIT, or OFFSET. The outermost
// level has no enclosing query and filters nothing.
func queryUnfiltered(query *sql.Query) bool {
	if query == nil {
		return true
	}
	return (query.JoinTree == nil || query.JoinTree.Quals == nil) &&
		query.LimitOffset == nil &&
		query.LimitCount == nil &&
		query.HavingQual == nil
}

// rteFetchQuery resolves a 1-based range table index against the current
// query, or the ParseState at the outermost level.
func rteFetchQuery(pstate *sql.ParseState, query *sql.Query, rtindex int) *sql.RangeTblEntry {
	if query != nil {
		return query.Rte(rtindex)
	}
	return pstate.Rte(rtindex)
}

// combineUniqueness merges the uniqueness sets of the two sides of a
// foreign key join. Uniqueness always propagates from the referencing
// side; the referenced side's survives only when the foreign key columns
// are themselves a unique key, making the join one-to-one from the
// referencing side.
func combineUniqueness(referencing, referenced sql.UniquenessSet, fkColsUnique bool) sql.UniquenessSet {
	var result sql.UniquenessSet
	result = append(result, referencing...)
	if fkColsUnique {
		result = append(result, referenced...)
	}
	return result
}

// combineFuncDeps merges the functional dependency sets of the two sides
// of a foreign key join.
func combineFuncDeps(referencingFDs sql.FDSet, referencingId sql.RteId,
	referencedFDs sql.FDSet, referencedId sql.RteId,
	fkColsNotNull bool, joinType sql.JoinType, dir sql.FKDirection) sql.FDSet {

	var result sql.FDSet

	// Step 1: an outer join that preserves every referencing tuple keeps
	// all referencing-side dependencies intact.
	referencingPreservedByOuter := false
	if (dir == sql.FKFrom && joinType == sql.JoinLeft) ||
		(dir == sql.FKTo && joinType == sql.JoinRight) ||
		joinType == sql.JoinFull {
		result = append(result, referencingFDs...)
		referencingPreservedByOuter = true
	}

	// Step 2: symmetrically for the referenced side.
	if (dir == sql.FKTo && joinType == sql.JoinLeft) ||
		(dir == sql.FKFrom && joinType == sql.JoinRight) ||
		joinType == sql.JoinFull {
		result = append(result, referencedFDs...)
	}

	// Step 3: a nullable foreign key column can drop referencing rows in
	// an inner join, so no further dependencies can be derived.
	if !fkColsNotNull {
		return result
	}

	// Step 4: deriving anything across the foreign key requires the
	// referenced relation to preserve all its rows.
	if !referencedFDs.HasSelfDependency(referencedId) {
		return result
	}

	// Step 5: every relation that determined the referencing relation
	// still determines everything it determined before the join. Skipped
	// when step 1 already re-emitted the referencing set verbatim.
	if !referencingPreservedByOuter {
		for _, fd := range referencingFDs {
			if fd.Dep != referencingId {
				continue
			}
			for _, src := range referencingFDs {
				if src.Det == fd.Det {
					result = append(result, src)
				}
			}
		}
	}

	// Step 6: Armstrong transitivity across the foreign key bridge
	// referencing -> referenced: for (X, referencing) and (referenced, Z)
	// derive (X, Z).
	for _, fd := range referencingFDs {
		if fd.Dep != referencingId {
			continue
		}
		for _, ed := range referencedFDs {
			if ed.Det == referencedId {
				result = append(result, sql.FuncDep{Det: fd.Det, Dep: ed.Dep})
			}
		}
	}

	return result
}
