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
	"fmt"
	"strings"
)

// RteKind discriminates the variants of a range table entry.
type RteKind byte

const (
	// RteRelation is a reference to a cataloged relation: an ordinary
	// table, a partitioned table, or a view. The relation kind is read
	// from the catalog, not stored on the entry.
	RteRelation RteKind = iota
	// RteSubquery is a subquery in FROM.
	RteSubquery
	// RteCte is a reference to a common table expression.
	RteCte
	// RteJoin is the alias entry of a JOIN; its columns are references to
	// columns of the joined inputs.
	RteJoin
	// RteGroup is the grouped relation produced by GROUP BY; its columns
	// are the grouping expressions.
	RteGroup
)

func (k RteKind) String() string {
	switch k {
	case RteRelation:
		return "relation"
	case RteSubquery:
		return "subquery"
	case RteCte:
		return "cte"
	case RteJoin:
		return "join"
	case RteGroup:
		return "group"
	default:
		return "unknown"
	}
}

// RteId is the stable identity of a range table entry. Two ids are equal
// iff they denote the same entry at the same query level, so values can be
// compared with ==.
type RteId struct {
	Level   int
	RtIndex int
}

func (id RteId) String() string {
	return fmt.Sprintf("rte(%d.%d)", id.Level, id.RtIndex)
}

// RangeTblEntry is one entry of a query's range table. Only the fields of
// the active Kind are meaningful.
type RangeTblEntry struct {
	Id       RteId
	Kind     RteKind
	Alias    string
	ColNames []string

	// RelId is the cataloged relation, for RteRelation.
	RelId RelationId

	// Subquery is the subselect, for RteSubquery.
	Subquery *Query

	// CteName and CteLevelsUp locate the CTE definition, for RteCte.
	// CteLevelsUp counts enclosing queries between the reference and the
	// query whose WITH list defines the CTE.
	CteName     string
	CteLevelsUp int

	// JoinAliasVars are the join alias columns, for RteJoin. Each entry is
	// normally a Var referencing a column of one of the join inputs.
	JoinAliasVars []Expression

	// GroupExprs are the grouping expressions, for RteGroup.
	GroupExprs []Expression
}

// TargetEntry is one output column of a query.
type TargetEntry struct {
	Expr Expression
	Name string
}

// CommonTableExpr is one WITH-list entry.
type CommonTableExpr struct {
	Name      string
	Query     *Query
	Recursive bool
}

// Query is an analyzed query tree. Only the fields the foreign key join
// analysis reads are modeled.
type Query struct {
	Command    CommandType
	RangeTable []*RangeTblEntry
	JoinTree   *FromExpr
	TargetList []*TargetEntry

	// GroupClause holds 1-based references into TargetList for each
	// GROUP BY item.
	GroupClause []int

	HavingQual  Expression
	LimitCount  Expression
	LimitOffset Expression

	Distinct      bool
	GroupingSets  bool
	SetOperations bool
	HasTargetSRFs bool

	CteList []*CommonTableExpr
}

// Rte returns the range table entry with the given 1-based index.
func (q *Query) Rte(rtindex int) *RangeTblEntry {
	return q.RangeTable[rtindex-1]
}

// FromExpr is the top of a query's join tree: the FROM list plus the WHERE
// qualifications.
type FromExpr struct {
	FromList []Node
	Quals    Expression
}

func (f *FromExpr) String() string {
	items := make([]string, len(f.FromList))
	for i, n := range f.FromList {
		items[i] = n.String()
	}
	return fmt.Sprintf("From(%s)", strings.Join(items, ", "))
}

// RangeTblRef is a leaf of the join tree referencing a range table entry by
// its 1-based index.
type RangeTblRef struct {
	RtIndex int
}

func (r *RangeTblRef) String() string {
	return fmt.Sprintf("rtref(%d)", r.RtIndex)
}

// JoinExpr is an explicit join of two join tree nodes. For a foreign key
// join, FkJoin carries a *FkJoinClause before validation and a *FkJoinNode
// once the join has been resolved and its ON clause rewritten.
type JoinExpr struct {
	JoinType JoinType
	Larg     Node
	Rarg     Node
	Quals    Expression
	FkJoin   Node
}

func (j *JoinExpr) String() string {
	return fmt.Sprintf("%s(%s, %s)", j.JoinType, j.Larg, j.Rarg)
}

// FkJoinClause is the raw KEY (...) join specification produced by the
// grammar: a direction, the alias of the other relation, and the two column
// name lists. Location is the statement offset of the construct, kept for
// diagnostics.
type FkJoinClause struct {
	Direction FKDirection
	RefAlias  string
	LocalCols []string
	RefCols   []string
	Location  int
}

func (c *FkJoinClause) String() string {
	return fmt.Sprintf("fkjoin %s KEY (%s) %s (%s)",
		c.Direction, strings.Join(c.LocalCols, ", "), c.RefAlias, strings.Join(c.RefCols, ", "))
}

// FkJoinNode is the resolved form of a foreign key join, stamped on the
// JoinExpr after validation.
type FkJoinNode struct {
	Direction          FKDirection
	ReferencingVarno   int
	ReferencingAttnums []int
	ReferencedVarno    int
	ReferencedAttnums  []int
	Constraint         ConstraintId
	Location           int
}

func (n *FkJoinNode) String() string {
	return fmt.Sprintf("fkjoin %s referencing=%d%v referenced=%d%v constraint=%d",
		n.Direction, n.ReferencingVarno, n.ReferencingAttnums,
		n.ReferencedVarno, n.ReferencedAttnums, n.Constraint)
}

// NamespaceColumn describes one visible column at a program point: the
// range table index and attribute it refers to, plus its type.
type NamespaceColumn struct {
	VarNo    int
	VarAttno int
	Type     ColumnType
}

// NamespaceItem is one relation visible at a program point.
type NamespaceItem struct {
	RtIndex    int
	Alias      string
	ColNames   []string
	RelVisible bool
	Columns    []NamespaceColumn
}

// ParseState carries the analysis-time state of one query level: its range
// table, visible namespace, WITH list, and a link to the enclosing level.
type ParseState struct {
	RangeTable []*RangeTblEntry
	Namespace  []*NamespaceItem
	CteList    []*CommonTableExpr
	Parent     *ParseState
}

// Rte returns the range table entry with the given 1-based index.
func (p *ParseState) Rte(rtindex int) *RangeTblEntry {
	return p.RangeTable[rtindex-1]
}
