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
	"strings"

	"github.com/dolthub/go-fkjoin/sql"
)

// ResolveForeignKeyJoin validates the foreign key join carried by the given
// join node and rewrites it. On success the join's Quals holds the equality
// conjunction and FkJoin holds the resolved *sql.FkJoinNode; on failure the
// join is left untouched.
//
// rItem is the namespace item of the join's right-hand child; lNamespace is
// the namespace visible on the left-hand side, where the other relation of
// the KEY clause is looked up.
func (a *Analyzer) ResolveForeignKeyJoin(ctx *sql.Context, pstate *sql.ParseState, join *sql.JoinExpr, rItem *sql.NamespaceItem, lNamespace []*sql.NamespaceItem) error {
	clause, ok := join.FkJoin.(*sql.FkJoinClause)
	if !ok {
		return sql.ErrUnsupportedJoinTreeNode.New()
	}

	span, ctx := ctx.Span("analyzer.resolve_fk_join")
	defer span.Finish()

	log := ctx.GetLogger().WithField("location", clause.Location)

	var otherRel *sql.NamespaceItem
	for _, nsi := range lNamespace {
		if !nsi.RelVisible {
			continue
		}
		if nsi.Alias == clause.RefAlias {
			otherRel = nsi
			break
		}
	}
	if otherRel == nil {
		return sql.ErrTableRefNotFound.New(clause.RefAlias)
	}

	if len(clause.RefCols) != len(clause.LocalCols) {
		return sql.ErrColumnCountMismatch.New()
	}

	var (
		referencingRel, referencedRel   *sql.NamespaceItem
		referencingCols, referencedCols []string
		referencingArg, referencedArg   sql.Node
	)
	if clause.Direction == sql.FKFrom {
		referencingRel, referencedRel = otherRel, rItem
		referencingCols, referencedCols = clause.RefCols, clause.LocalCols
		referencingArg, referencedArg = join.Larg, join.Rarg
	} else {
		referencedRel, referencingRel = otherRel, rItem
		referencedCols, referencingCols = clause.RefCols, clause.LocalCols
		referencedArg, referencingArg = join.Larg, join.Rarg
	}

	referencingRte := pstate.Rte(referencingRel.RtIndex)
	referencedRte := pstate.Rte(referencedRel.RtIndex)

	referencingAttnums, err := resolveColumns(referencingCols, referencingRel, "referencing")
	if err != nil {
		return err
	}
	referencedAttnums, err := resolveColumns(referencedCols, referencedRel, "referenced")
	if err != nil {
		return err
	}

	baseReferencingRte, referencingBaseAttnums, err := a.drillDownToBaseRel(ctx, pstate, referencingRte, referencingAttnums, nil)
	if err != nil {
		return err
	}
	baseReferencedRte, referencedBaseAttnums, err := a.drillDownToBaseRel(ctx, pstate, referencedRte, referencedAttnums, nil)
	if err != nil {
		return err
	}

	referencingRelid := baseReferencingRte.RelId
	referencedRelid := baseReferencedRte.RelId
	referencedId := baseReferencedRte.Id

	fkid, found, err := a.findForeignKey(ctx, referencingRelid, referencedRelid, referencingBaseAttnums, referencedBaseAttnums)
	if err != nil {
		return err
	}
	if !found {
		return sql.ErrNoForeignKeyConstraint.New(
			a.relationDisplayName(ctx, referencingRte),
			strings.Join(referencingCols, ", "),
			a.relationDisplayName(ctx, referencedRte),
			strings.Join(referencedCols, ", "))
	}

	if _, _, _, err := a.analyzeJoinTree(ctx, pstate, referencingArg, nil, referencingRte.Id, nil); err != nil {
		return err
	}
	referencedUniqueness, referencedFDs, _, err := a.analyzeJoinTree(ctx, pstate, referencedArg, nil, referencedRte.Id, nil)
	if err != nil {
		return err
	}

	if !referencedUniqueness.Contains(referencedId) {
		log.Debugf("referenced uniqueness set %s does not contain %s", referencedUniqueness, referencedId)
		return sql.ErrNoUniquenessPreservation.New()
	}
	if !referencedFDs.HasSelfDependency(referencedId) {
		// The self pair certifies the referenced side is unfiltered: any
		// WHERE, HAVING, LIMIT, OFFSET, or row level security at a leaf
		// removes it.
		log.Debugf("referenced dependency set %s lacks the self pair for %s", referencedFDs, referencedId)
		return sql.ErrNoRowPreservation.New()
	}

	quals, err := a.buildOnClause(ctx, referencingRel.Columns, referencingAttnums, referencedRel.Columns, referencedAttnums)
	if err != nil {
		return err
	}

	join.Quals = quals
	join.FkJoin = &sql.FkJoinNode{
		Direction:          clause.Direction,
		ReferencingVarno:   referencingRel.RtIndex,
		ReferencingAttnums: referencingAttnums,
		ReferencedVarno:    referencedRel.RtIndex,
		ReferencedAttnums:  referencedAttnums,
		Constraint:         fkid,
		Location:           clause.Location,
	}
	return nil
}

// resolveColumns maps column names to 1-based attribute positions within
// the item's visible columns.
func resolveColumns(cols []string, item *sql.NamespaceItem, side string) ([]int, error) {
	attnums := make([]int, 0, len(cols))
	for _, name := range cols {
		index := -1
		for i, colname := range item.ColNames {
			if colname != name {
				continue
			}
			if index >= 0 {
				return nil, sql.ErrAmbiguousColumn.New(name, side)
			}
			index = i
		}
		if index < 0 {
			return nil, sql.ErrColumnNotFound.New(name, side)
		}
		attnums = append(attnums, index+1)
	}
	return attnums, nil
}

// relationDisplayName names a range table entry for error messages: its
// alias, the catalog name of its relation, or a placeholder for anonymous
// derived tables.
func (a *Analyzer) relationDisplayName(ctx *sql.Context, rte *sql.RangeTblEntry) string {
	if rte.Alias != "" {
		return rte.Alias
	}
	if rte.Kind == sql.RteRelation && rte.RelId != 0 {
		rel, err := a.Catalog.OpenRelation(ctx, rte.RelId)
		if err == nil {
			name := rel.Name()
			rel.Close()
			return name
		}
	}
	return "<unnamed derived table>"
}
