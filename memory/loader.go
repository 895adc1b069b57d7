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

package memory

import (
	"io/ioutil"

	"github.com/mitchellh/hashstructure"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	yaml "gopkg.in/yaml.v2"

	"github.com/dolthub/go-fkjoin/sql"
)

// Schema fixture document. Flag fields are loosely typed so fixtures may
// write true, "true", or 1.
type schemaDoc struct {
	Tables []tableDoc `yaml:"tables"`
}

type tableDoc struct {
	Name        string      `yaml:"name"`
	Partitioned interface{} `yaml:"partitioned"`
	RowSecurity interface{} `yaml:"row_security"`
	Columns     []columnDoc `yaml:"columns"`
	Indexes     []indexDoc  `yaml:"indexes"`
	ForeignKeys []fkDoc     `yaml:"foreign_keys"`
}

type columnDoc struct {
	Name    string      `yaml:"name"`
	Type    string      `yaml:"type"`
	NotNull interface{} `yaml:"notnull"`
}

type indexDoc struct {
	Name    string      `yaml:"name"`
	Unique  interface{} `yaml:"unique"`
	Columns []string    `yaml:"columns"`
}

type fkDoc struct {
	Name       string   `yaml:"name"`
	Columns    []string `yaml:"columns"`
	References refDoc   `yaml:"references"`
}

type refDoc struct {
	Table   string   `yaml:"table"`
	Columns []string `yaml:"columns"`
}

// LoadCatalog builds a Catalog from a YAML schema document. Relation and
// constraint oids are derived by hashing the definition names, so loading
// the same document twice yields identical identifiers.
func LoadCatalog(data []byte) (*Catalog, error) {
	var doc schemaDoc
	if err := yaml.UnmarshalStrict(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parsing schema document")
	}

	cat := NewCatalog()

	for _, td := range doc.Tables {
		columns := make([]sql.Column, 0, len(td.Columns))
		for _, cd := range td.Columns {
			typeId, ok := sql.TypeIdFromName(cd.Type)
			if !ok {
				return nil, errors.Errorf("table %s column %s: unknown type %q", td.Name, cd.Name, cd.Type)
			}
			columns = append(columns, sql.Column{
				Name:    cd.Name,
				Type:    sql.ColumnType{Id: typeId},
				NotNull: cast.ToBool(cd.NotNull),
			})
		}

		oid, err := stableOid(td.Name)
		if err != nil {
			return nil, errors.Wrapf(err, "hashing table %s", td.Name)
		}

		if cast.ToBool(td.Partitioned) {
			cat.AddPartitionedTable(td.Name, sql.RelationId(oid), columns...)
		} else {
			cat.AddTable(td.Name, sql.RelationId(oid), columns...)
		}
		if cast.ToBool(td.RowSecurity) {
			cat.SetRowSecurity(td.Name, true)
		}
	}

	for _, td := range doc.Tables {
		for _, id := range td.Indexes {
			keyColumns, err := columnNumbers(doc, td.Name, id.Columns)
			if err != nil {
				return nil, errors.Wrapf(err, "index %s", id.Name)
			}
			if cast.ToBool(id.Unique) {
				cat.AddUniqueIndex(td.Name, id.Name, keyColumns...)
			} else {
				cat.AddIndex(td.Name, id.Name, keyColumns...)
			}
		}

		for _, fk := range td.ForeignKeys {
			if _, ok := cat.RelationId(fk.References.Table); !ok {
				return nil, errors.Errorf("foreign key %s references unknown table %q", fk.Name, fk.References.Table)
			}
			localColumns, err := columnNumbers(doc, td.Name, fk.Columns)
			if err != nil {
				return nil, errors.Wrapf(err, "foreign key %s", fk.Name)
			}
			referencedColumns, err := columnNumbers(doc, fk.References.Table, fk.References.Columns)
			if err != nil {
				return nil, errors.Wrapf(err, "foreign key %s", fk.Name)
			}

			cid, err := stableOid(fk.Name)
			if err != nil {
				return nil, errors.Wrapf(err, "hashing foreign key %s", fk.Name)
			}
			cat.AddForeignKey(fk.Name, sql.ConstraintId(cid), td.Name, localColumns, fk.References.Table, referencedColumns)
		}
	}

	return cat, nil
}

// LoadCatalogFile builds a Catalog from a YAML schema file.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "loading schema %s", path)
	}
	return LoadCatalog(data)
}

func columnNumbers(doc schemaDoc, table string, names []string) ([]int, error) {
	var td *tableDoc
	for i := range doc.Tables {
		if doc.Tables[i].Name == table {
			td = &doc.Tables[i]
			break
		}
	}
	if td == nil {
		return nil, errors.Errorf("unknown table %q", table)
	}

	attnums := make([]int, 0, len(names))
	for _, name := range names {
		attnum := 0
		for i, cd := range td.Columns {
			if cd.Name == name {
				attnum = i + 1
				break
			}
		}
		if attnum == 0 {
			return nil, errors.Errorf("unknown column %q of table %q", name, table)
		}
		attnums = append(attnums, attnum)
	}
	return attnums, nil
}

func stableOid(v interface{}) (uint32, error) {
	h, err := hashstructure.Hash(v, nil)
	if err != nil {
		return 0, err
	}
	oid := uint32(h ^ h>>32)
	if oid == 0 {
		oid = 1
	}
	return oid, nil
}
