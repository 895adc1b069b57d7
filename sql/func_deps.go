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

// UniquenessSet is the set of base relations whose tuples remain unique
// after all joins of an analyzed subtree.
type UniquenessSet []RteId

// Contains reports whether the set holds the given relation identity.
func (s UniquenessSet) Contains(id RteId) bool {
	for _, m := range s {
		if m == id {
			return true
		}
	}
	return false
}

func (s UniquenessSet) String() string {
	parts := make([]string, len(s))
	for i, m := range s {
		parts[i] = m.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// FuncDep states that relation Det functionally determines relation Dep in
// the analyzed subtree. The self pair (R, R) states that R preserves all
// its rows.
type FuncDep struct {
	Det RteId
	Dep RteId
}

func (d FuncDep) String() string {
	return fmt.Sprintf("%s->%s", d.Det, d.Dep)
}

// FDSet is a collection of functional dependency facts. It is logically a
// set but may carry duplicate pairs; every consumer decision is
// existential, so duplicates are inert.
type FDSet []FuncDep

// HasSelfDependency reports whether the set holds the row preservation
// fact (id, id).
func (s FDSet) HasSelfDependency(id RteId) bool {
	for _, d := range s {
		if d.Det == id && d.Dep == id {
			return true
		}
	}
	return false
}

// Contains reports whether the set holds the given pair.
func (s FDSet) Contains(d FuncDep) bool {
	for _, m := range s {
		if m == d {
			return true
		}
	}
	return false
}

func (s FDSet) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = d.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
