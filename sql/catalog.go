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

// RelationId identifies a cataloged relation.
type RelationId uint32

// ConstraintId identifies a cataloged constraint.
type ConstraintId uint32

// IndexId identifies a cataloged index.
type IndexId uint32

// RelKind is the kind of a cataloged relation.
type RelKind byte

const (
	RelOrdinaryTable RelKind = iota
	RelPartitionedTable
	RelView
	RelMaterializedView
	RelSequence
	RelForeignTable
)

func (k RelKind) String() string {
	switch k {
	case RelOrdinaryTable:
		return "table"
	case RelPartitionedTable:
		return "partitioned table"
	case RelView:
		return "view"
	case RelMaterializedView:
		return "materialized view"
	case RelSequence:
		return "sequence"
	case RelForeignTable:
		return "foreign table"
	default:
		return "unknown relation kind"
	}
}

// Column is the catalog description of one relation column.
type Column struct {
	Name    string
	Type    ColumnType
	NotNull bool
}

// Index is the catalog description of one index. KeyColumns are 1-based
// attribute numbers of the indexed relation; expression index columns are
// not modeled.
type Index struct {
	Id         IndexId
	Name       string
	Unique     bool
	KeyColumns []int
}

// ForeignKey is the catalog description of one FOREIGN KEY constraint on a
// relation. LocalColumns and ReferencedColumns are paired positionally, as
// conkey/confkey are.
type ForeignKey struct {
	Id                 ConstraintId
	Name               string
	ReferencedRelation RelationId
	LocalColumns       []int
	ReferencedColumns  []int
}

// Relation is an open handle on a cataloged relation. The handle holds the
// catalog's shared access lock; Close releases it. Handles are not used
// across recursive descents into subqueries.
type Relation interface {
	ID() RelationId
	Name() string
	Kind() RelKind
	Columns() []Column
	Indexes() []Index
	ForeignKeys() []ForeignKey
	// ViewQuery returns the defining query of a view, nil for any other
	// relation kind.
	ViewQuery() *Query
	// RowSecurity reports whether row level security is active for the
	// relation.
	RowSecurity() bool
	Close()
}

// Catalog provides relation metadata to the analyzer.
type Catalog interface {
	// OpenRelation opens the relation under the catalog's shared access
	// lock. The caller must Close the returned handle.
	OpenRelation(ctx *Context, id RelationId) (Relation, error)
}
