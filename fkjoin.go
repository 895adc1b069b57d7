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

// Package fkjoin validates and rewrites foreign key joins: joins specified
// by naming a declared FOREIGN KEY constraint instead of spelling out the
// equality predicates. Given a parsed join carrying a KEY clause, the
// analyzer locates the constraint in the catalog, proves that the
// referenced side of the join still preserves both the uniqueness of the
// referenced key and all rows of the underlying table, and replaces the
// join's ON clause with the equivalent equality conjunction.
package fkjoin

import (
	"github.com/dolthub/go-fkjoin/sql"
	"github.com/dolthub/go-fkjoin/sql/analyzer"
)

// Config for an Analyzer.
type Config struct {
	// Transformer type-checks the rewritten ON clauses. Nil selects the
	// default expression transformer.
	Transformer sql.ExprTransformer
}

// Analyzer is the library entry point, bound to a catalog.
type Analyzer struct {
	Catalog sql.Catalog

	inner *analyzer.Analyzer
}

// New creates an Analyzer over the given catalog with custom
// configuration. Use NewDefault for the default settings.
func New(catalog sql.Catalog, cfg *Config) *Analyzer {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Analyzer{
		Catalog: catalog,
		inner:   analyzer.New(catalog, cfg.Transformer),
	}
}

// NewDefault creates an Analyzer over the given catalog with the default
// expression transformer.
func NewDefault(catalog sql.Catalog) *Analyzer {
	return New(catalog, nil)
}

// ResolveJoin validates the foreign key join carried by join and rewrites
// its ON clause. rItem is the namespace item of the join's right-hand
// child and lNamespace the namespace visible on its left-hand side.
func (a *Analyzer) ResolveJoin(ctx *sql.Context, pstate *sql.ParseState, join *sql.JoinExpr, rItem *sql.NamespaceItem, lNamespace []*sql.NamespaceItem) error {
	return a.inner.ResolveForeignKeyJoin(ctx, pstate, join, rItem, lNamespace)
}
