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

// TypeId identifies a scalar column type. The analyzer only ever compares
// types, so the set is deliberately small.
type TypeId uint32

const (
	TypeUnknown TypeId = iota
	TypeBool
	TypeInt2
	TypeInt4
	TypeInt8
	TypeFloat4
	TypeFloat8
	TypeNumeric
	TypeText
	TypeVarchar
	TypeChar
	TypeBytea
	TypeDate
	TypeTimestamp
	TypeTimestampTZ
	TypeUUID
)

// CollationId identifies a collation. Zero is the default collation.
type CollationId uint32

// ColumnType is the complete type descriptor of a column or expression.
type ColumnType struct {
	Id        TypeId
	Typmod    int32
	Collation CollationId
}

var typeNames = map[TypeId]string{
	TypeBool:        "bool",
	TypeInt2:        "int2",
	TypeInt4:        "int4",
	TypeInt8:        "int8",
	TypeFloat4:      "float4",
	TypeFloat8:      "float8",
	TypeNumeric:     "numeric",
	TypeText:        "text",
	TypeVarchar:     "varchar",
	TypeChar:        "char",
	TypeBytea:       "bytea",
	TypeDate:        "date",
	TypeTimestamp:   "timestamp",
	TypeTimestampTZ: "timestamptz",
	TypeUUID:        "uuid",
}

func (t ColumnType) String() string {
	if name, ok := typeNames[t.Id]; ok {
		return name
	}
	return "unknown"
}

// typeFamily groups types that share an equality operator.
type typeFamily byte

const (
	familyNone typeFamily = iota
	familyBool
	familyNumber
	familyString
	familyBinary
	familyDatetime
	familyUUID
)

func (t TypeId) family() typeFamily {
	switch t {
	case TypeBool:
		return familyBool
	case TypeInt2, TypeInt4, TypeInt8, TypeFloat4, TypeFloat8, TypeNumeric:
		return familyNumber
	case TypeText, TypeVarchar, TypeChar:
		return familyString
	case TypeBytea:
		return familyBinary
	case TypeDate, TypeTimestamp, TypeTimestampTZ:
		return familyDatetime
	case TypeUUID:
		return familyUUID
	default:
		return familyNone
	}
}

// ComparableTo reports whether an equality operator exists between values
// of this type and the other.
func (t ColumnType) ComparableTo(o ColumnType) bool {
	f := t.Id.family()
	return f != familyNone && f == o.Id.family()
}

// TypeIdFromName maps a type name, as written in schema fixtures, to its
// TypeId.
func TypeIdFromName(name string) (TypeId, bool) {
	for id, n := range typeNames {
		if n == name {
			return id, true
		}
	}
	switch name {
	case "boolean":
		return TypeBool, true
	case "smallint":
		return TypeInt2, true
	case "int", "integer":
		return TypeInt4, true
	case "bigint":
		return TypeInt8, true
	case "real":
		return TypeFloat4, true
	case "double precision":
		return TypeFloat8, true
	case "character varying":
		return TypeVarchar, true
	}
	return TypeUnknown, false
}

// BooleanType is the type descriptor boolean expressions produce.
var BooleanType = ColumnType{Id: TypeBool}
