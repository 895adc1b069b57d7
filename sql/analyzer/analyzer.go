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

// Analyzer validates foreign key joins against a catalog and rewrites them
// into equality joins.
type Analyzer struct {
	Catalog     sql.Catalog
	Transformer sql.ExprTransformer
}

// New creates an Analyzer over the given catalog. A nil transformer selects
// the default expression transformer.
func New(catalog sql.Catalog, transformer sql.ExprTransformer) *Analyzer {
	if transformer == nil {
		transformer = expression.NewTransformer()
	}
	return &Analyzer{
		Catalog:     catalog,
		Transformer: transformer,
	}
}

// queryStack is the lexical chain of queries entered during analysis,
// innermost first. CTE references index into it with their levelsup.
type queryStack struct {
	parent *queryStack
	query  *sql.Query
}
