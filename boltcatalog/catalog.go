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

// Package boltcatalog provides a sql.Catalog persisted in a BoltDB file,
// for analyzing against a catalog snapshot without the originating
// database. Views are parse-time objects and are not persisted; snapshots
// hold base relation metadata only.
package boltcatalog

import (
	"encoding/binary"
	"encoding/json"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"

	"github.com/dolthub/go-fkjoin/sql"
)

var (
	relationsBucket = []byte("relations")
	namesBucket     = []byte("relation_names")
)

// Definition is the stored description of one relation.
type Definition struct {
	Id          sql.RelationId   `json:"id"`
	Name        string           `json:"name"`
	Kind        sql.RelKind      `json:"kind"`
	Columns     []sql.Column     `json:"columns"`
	Indexes     []sql.Index      `json:"indexes,omitempty"`
	ForeignKeys []sql.ForeignKey `json:"foreign_keys,omitempty"`
	RowSecurity bool             `json:"row_security,omitempty"`
}

// Catalog is a catalog snapshot stored in a BoltDB file.
type Catalog struct {
	db *bolt.DB
}

var _ sql.Catalog = (*Catalog)(nil)

// Open opens or creates a snapshot file.
func Open(path string) (*Catalog, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "opening catalog snapshot %s", path)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(relationsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(namesBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "initializing catalog snapshot")
	}

	return &Catalog{db: db}, nil
}

// Close closes the snapshot file.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// PutRelation stores or replaces a relation definition. Views cannot be
// persisted.
func (c *Catalog) PutRelation(def Definition) error {
	if def.Kind == sql.RelView {
		return errors.New("views cannot be stored in a catalog snapshot")
	}
	if def.Id == 0 {
		return errors.New("relation definition needs an id")
	}

	value, err := json.Marshal(def)
	if err != nil {
		return errors.Wrapf(err, "encoding relation %s", def.Name)
	}

	return c.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(relationsBucket).Put(oidKey(def.Id), value); err != nil {
			return err
		}
		return tx.Bucket(namesBucket).Put([]byte(def.Name), oidKey(def.Id))
	})
}

// RelationId returns the id of the named relation, or false if absent.
func (c *Catalog) RelationId(name string) (sql.RelationId, bool, error) {
	var id sql.RelationId
	var found bool
	err := c.db.View(func(tx *bolt.Tx) error {
		key := tx.Bucket(namesBucket).Get([]byte(name))
		if key != nil {
			id = sql.RelationId(binary.BigEndian.Uint32(key))
			found = true
		}
		return nil
	})
	return id, found, err
}

// OpenRelation implements sql.Catalog. The snapshot is read under a bolt
// read transaction; the returned handle is a decoded copy, so Close is
// trivial.
func (c *Catalog) OpenRelation(ctx *sql.Context, id sql.RelationId) (sql.Relation, error) {
	var def Definition
	var found bool

	err := c.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(relationsBucket).Get(oidKey(id))
		if value == nil {
			return nil
		}
		found = true
		return json.Unmarshal(value, &def)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "reading relation %d", id)
	}
	if !found {
		return nil, sql.ErrRelationNotFound.New(id)
	}

	return snapshotRelation{def: def}, nil
}

func oidKey(id sql.RelationId) []byte {
	key := make([]byte, 4)
	binary.BigEndian.PutUint32(key, uint32(id))
	return key
}

type snapshotRelation struct {
	def Definition
}

var _ sql.Relation = snapshotRelation{}

func (r snapshotRelation) ID() sql.RelationId            { return r.def.Id }
func (r snapshotRelation) Name() string                  { return r.def.Name }
func (r snapshotRelation) Kind() sql.RelKind             { return r.def.Kind }
func (r snapshotRelation) Columns() []sql.Column         { return r.def.Columns }
func (r snapshotRelation) Indexes() []sql.Index          { return r.def.Indexes }
func (r snapshotRelation) ForeignKeys() []sql.ForeignKey { return r.def.ForeignKeys }
func (r snapshotRelation) ViewQuery() *sql.Query         { return nil }
func (r snapshotRelation) RowSecurity() bool             { return r.def.RowSecurity }
func (r snapshotRelation) Close()                        {}
