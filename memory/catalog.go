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

// Package memory provides an in-memory sql.Catalog, primarily for tests
// and examples.
package memory

import (
	"sync"

	"github.com/dolthub/go-fkjoin/sql"
)

// Catalog is an in-memory catalog of relations.
type Catalog struct {
	mu      sync.RWMutex
	rels    map[sql.RelationId]*Relation
	byName  map[string]sql.RelationId
	nextOid sql.RelationId
}

var _ sql.Catalog = (*Catalog)(nil)

// NewCatalog returns a new empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		rels:    make(map[sql.RelationId]*Relation),
		byName:  make(map[string]sql.RelationId),
		nextOid: 16384,
	}
}

// Relation is a relation of an in-memory catalog. An open Relation holds
// the catalog's shared lock until Close.
type Relation struct {
	cat *Catalog

	id          sql.RelationId
	name        string
	kind        sql.RelKind
	columns     []sql.Column
	indexes     []sql.Index
	fks         []sql.ForeignKey
	view        *sql.Query
	rowSecurity bool

	nextIndexId      sql.IndexId
	nextConstraintId sql.ConstraintId
}

var _ sql.Relation = (*Relation)(nil)

// OpenRelation implements sql.Catalog. The returned handle holds the
// catalog's shared lock; callers must Close it.
func (c *Catalog) OpenRelation(ctx *sql.Context, id sql.RelationId) (sql.Relation, error) {
	c.mu.RLock()
	rel, ok := c.rels[id]
	if !ok {
		c.mu.RUnlock()
		return nil, sql.ErrRelationNotFound.New(id)
	}
	return rel, nil
}

// RelationId returns the id of the named relation, or false if absent.
func (c *Catalog) RelationId(name string) (sql.RelationId, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.byName[name]
	return id, ok
}

// AddTable adds an ordinary table with the given columns and returns its
// id. An explicit id of zero assigns the next free oid.
func (c *Catalog) AddTable(name string, id sql.RelationId, columns ...sql.Column) sql.RelationId {
	return c.addRelation(name, id, sql.RelOrdinaryTable, columns, nil)
}

// AddPartitionedTable adds a partitioned table with the given columns and
// returns its id.
func (c *Catalog) AddPartitionedTable(name string, id sql.RelationId, columns ...sql.Column) sql.RelationId {
	return c.addRelation(name, id, sql.RelPartitionedTable, columns, nil)
}

// AddView adds a view with the given defining query and returns its id.
func (c *Catalog) AddView(name string, id sql.RelationId, columns []sql.Column, query *sql.Query) sql.RelationId {
	return c.addRelation(name, id, sql.RelView, columns, query)
}

// AddRelationOfKind adds a relation of an arbitrary kind, for exercising
// the unsupported-kind paths.
func (c *Catalog) AddRelationOfKind(name string, id sql.RelationId, kind sql.RelKind, columns ...sql.Column) sql.RelationId {
	return c.addRelation(name, id, kind, columns, nil)
}

func (c *Catalog) addRelation(name string, id sql.RelationId, kind sql.RelKind, columns []sql.Column, view *sql.Query) sql.RelationId {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id == 0 {
		id = c.nextOid
		c.nextOid++
	}
	c.rels[id] = &Relation{
		cat:              c,
		id:               id,
		name:             name,
		kind:             kind,
		columns:          columns,
		view:             view,
		nextIndexId:      1,
		nextConstraintId: 1,
	}
	c.byName[name] = id
	return id
}

// AddUniqueIndex adds a unique index over the named table's 1-based key
// columns.
func (c *Catalog) AddUniqueIndex(table, index string, keyColumns ...int) {
	c.addIndex(table, index, true, keyColumns)
}

// AddIndex adds a non-unique index over the named table's 1-based key
// columns.
func (c *Catalog) AddIndex(table, index string, keyColumns ...int) {
	c.addIndex(table, index, false, keyColumns)
}

func (c *Catalog) addIndex(table, index string, unique bool, keyColumns []int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rel := c.rels[c.byName[table]]
	rel.indexes = append(rel.indexes, sql.Index{
		Id:         rel.nextIndexId,
		Name:       index,
		Unique:     unique,
		KeyColumns: keyColumns,
	})
	rel.nextIndexId++
}

// AddForeignKey adds a FOREIGN KEY constraint from the named table's local
// columns to the referenced table's columns, paired positionally, and
// returns the constraint id. An explicit id of zero assigns the table's
// next free constraint id.
func (c *Catalog) AddForeignKey(name string, id sql.ConstraintId, table string, localColumns []int, referenced string, referencedColumns []int) sql.ConstraintId {
	c.mu.Lock()
	defer c.mu.Unlock()

	rel := c.rels[c.byName[table]]
	if id == 0 {
		id = rel.nextConstraintId
		rel.nextConstraintId++
	}
	rel.fks = append(rel.fks, sql.ForeignKey{
		Id:                 id,
		Name:               name,
		ReferencedRelation: c.byName[referenced],
		LocalColumns:       localColumns,
		ReferencedColumns:  referencedColumns,
	})
	return id
}

// SetRowSecurity toggles row level security on the named relation.
func (c *Catalog) SetRowSecurity(table string, enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rels[c.byName[table]].rowSecurity = enabled
}

// ID implements sql.Relation.
func (r *Relation) ID() sql.RelationId { return r.id }

// Name implements sql.Relation.
func (r *Relation) Name() string { return r.name }

// Kind implements sql.Relation.
func (r *Relation) Kind() sql.RelKind { return r.kind }

// Columns implements sql.Relation.
func (r *Relation) Columns() []sql.Column { return r.columns }

// Indexes implements sql.Relation.
func (r *Relation) Indexes() []sql.Index { return r.indexes }

// ForeignKeys implements sql.Relation.
func (r *Relation) ForeignKeys() []sql.ForeignKey { return r.fks }

// ViewQuery implements sql.Relation.
func (r *Relation) ViewQuery() *sql.Query { return r.view }

// RowSecurity implements sql.Relation.
func (r *Relation) RowSecurity() bool { return r.rowSecurity }

// Close implements sql.Relation, releasing the catalog's shared lock.
func (r *Relation) Close() {
	r.cat.mu.RUnlock()
}
