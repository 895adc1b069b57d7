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

// findForeignKey looks for a FOREIGN KEY constraint on the referencing
// relation targeting the referenced relation whose column pairs equal the
// supplied attribute pairs. Pairs match order-insensitively across pairs
// but order-sensitively within each pair.
func (a *Analyzer) findForeignKey(ctx *sql.Context, referencing, referenced sql.RelationId, referencingAttnums, referencedAttnums []int) (sql.ConstraintId, bool, error) {
	rel, err := a.Catalog.OpenRelation(ctx, referencing)
	if err != nil {
		return 0, false, err
	}
	defer rel.Close()

	for _, fk := range rel.ForeignKeys() {
		if fk.ReferencedRelation != referenced {
			continue
		}
		if len(fk.LocalColumns) != len(fk.ReferencedColumns) ||
			len(fk.LocalColumns) != len(referencingAttnums) {
			continue
		}

		matched := true
		for i := range fk.LocalColumns {
			pairFound := false
			for j := range referencingAttnums {
				if referencingAttnums[j] == fk.LocalColumns[i] &&
					referencedAttnums[j] == fk.ReferencedColumns[i] {
					pairFound = true
					break
				}
			}
			if !pairFound {
				matched = false
				break
			}
		}
		if matched {
			return fk.Id, true, nil
		}
	}
	return 0, false, nil
}

// referencingColsUnique reports whether the given columns of the relation
// are exactly the key of some unique index, in any order.
func (a *Analyzer) referencingColsUnique(ctx *sql.Context, relid sql.RelationId, attnums []int) (bool, error) {
	rel, err := a.Catalog.OpenRelation(ctx, relid)
	if err != nil {
		return false, err
	}
	defer rel.Close()

	for _, idx := range rel.Indexes() {
		if !idx.Unique || len(idx.KeyColumns) != len(attnums) {
			continue
		}

		matches := true
		for _, attnum := range attnums {
			colFound := false
			for _, key := range idx.KeyColumns {
				if key == attnum {
					colFound = true
					break
				}
			}
			if !colFound {
				matches = false
				break
			}
		}
		if matches {
			return true, nil
		}
	}
	return false, nil
}

// referencingColsNotNull reports whether every listed column of the
// relation carries a NOT NULL marker.
func (a *Analyzer) referencingColsNotNull(ctx *sql.Context, relid sql.RelationId, attnums []int) (bool, error) {
	rel, err := a.Catalog.OpenRelation(ctx, relid)
	if err != nil {
		return false, err
	}
	defer rel.Close()

	columns := rel.Columns()
	for _, attnum := range attnums {
		if attnum < 1 || attnum > len(columns) {
			return false, sql.ErrAttnumOutOfRange.New(attnum, rel.Name())
		}
		if !columns[attnum-1].NotNull {
			return false, nil
		}
	}
	return true, nil
}

// uniqueIndexCoversColumns reports whether some unique index of the open
// relation has a key that is a subset of the given column set.
func uniqueIndexCoversColumns(rel sql.Relation, columns map[int]struct{}) bool {
	for _, idx := range rel.Indexes() {
		if !idx.Unique {
			continue
		}

		covered := true
		for _, key := range idx.KeyColumns {
			if _, ok := columns[key]; !ok {
				covered = false
				break
			}
		}
		if covered {
			return true
		}
	}
	return false
}

// checkGroupByPreservesUniqueness checks whether a query's GROUP BY clause
// preserves uniqueness: every grouping expression must be a bare column
// reference, all to the same relation, and that relation must be a base
// table with a unique index whose key is a subset of the grouped columns.
// On success it returns the uniqueness set to install: just the base
// table's identity.
func (a *Analyzer) checkGroupByPreservesUniqueness(ctx *sql.Context, query *sql.Query) (bool, sql.UniquenessSet, error) {
	log := ctx.GetLogger()

	if len(query.GroupClause) == 0 {
		return false, nil, nil
	}

	groupCols := make(map[int]struct{})
	groupVarno := 0
	for _, ref := range query.GroupClause {
		if ref < 1 || ref > len(query.TargetList) {
			return false, nil, sql.ErrAttnumOutOfRange.New(ref, "target list")
		}
		tle := query.TargetList[ref-1]

		v, ok := tle.Expr.(*expression.Var)
		if !ok {
			log.Debugf("group by item %d is not a bare column reference", ref)
			return false, nil, nil
		}

		if groupVarno == 0 {
			groupVarno = v.VarNo()
		} else if groupVarno != v.VarNo() {
			log.Debugf("group by columns span relations %d and %d", groupVarno, v.VarNo())
			return false, nil, nil
		}
		groupCols[v.VarAttno()] = struct{}{}
	}

	if len(groupCols) == 0 || groupVarno == 0 {
		return false, nil, nil
	}

	baseRte := query.Rte(groupVarno)
	var baseRteId sql.RteId

	if baseRte.Kind == sql.RteGroup {
		// Remap through the grouped relation's expressions onto the
		// relation actually being grouped.
		if len(baseRte.GroupExprs) == 0 {
			return false, nil, nil
		}

		underlyingVarno := 0
		underlyingCols := make(map[int]struct{})
		for _, expr := range baseRte.GroupExprs {
			v, ok := expr.(*expression.Var)
			if !ok {
				return false, nil, nil
			}
			if underlyingVarno == 0 {
				underlyingVarno = v.VarNo()
			} else if underlyingVarno != v.VarNo() {
				return false, nil, nil
			}
			underlyingCols[v.VarAttno()] = struct{}{}
		}
		if underlyingVarno == 0 {
			return false, nil, nil
		}

		underlyingRte := query.Rte(underlyingVarno)
		if underlyingRte.Kind != sql.RteRelation || underlyingRte.RelId == 0 {
			return false, nil, nil
		}
		baseRte = underlyingRte
		baseRteId = underlyingRte.Id
		groupCols = underlyingCols
	} else if baseRte.Kind != sql.RteRelation || baseRte.RelId == 0 {
		return false, nil, nil
	} else {
		baseRteId = baseRte.Id
	}

	rel, err := a.Catalog.OpenRelation(ctx, baseRte.RelId)
	if err != nil {
		return false, nil, err
	}
	covered := uniqueIndexCoversColumns(rel, groupCols)
	rel.Close()

	log.Debugf("group by uniqueness check on %s: %v", baseRteId, covered)

	if !covered {
		return false, nil, nil
	}
	return true, sql.UniquenessSet{baseRteId}, nil
}
