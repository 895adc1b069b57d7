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

// buildOnClause assembles the equality conjunction replacing a foreign key
// join's ON clause: one referencing = referenced comparison per column
// pair, conjoined, type-checked, and coerced to boolean.
func (a *Analyzer) buildOnClause(ctx *sql.Context, lCols []sql.NamespaceColumn, lAttnums []int, rCols []sql.NamespaceColumn, rAttnums []int) (sql.Expression, error) {
	andArgs := make([]sql.Expression, 0, len(lAttnums))
	for i := range lAttnums {
		lc := lCols[lAttnums[i]-1]
		rc := rCols[rAttnums[i]-1]

		andArgs = append(andArgs, expression.NewEquals(
			expression.NewVar(lc.VarNo, lc.VarAttno, lc.Type),
			expression.NewVar(rc.VarNo, rc.VarAttno, rc.Type),
		))
	}

	result := expression.JoinAnd(andArgs...)

	result, err := a.Transformer.TransformExpr(ctx, result, sql.ExprKindJoinOn)
	if err != nil {
		return nil, err
	}
	return a.Transformer.CoerceToBoolean(ctx, result, "FOREIGN KEY JOIN")
}
