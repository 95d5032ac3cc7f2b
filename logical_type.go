package parquetmeta

import (
	"fmt"
)

// LogicalTypeKind identifies the member of the LogicalType union. The values
// are the thrift field ids of the union members.
type LogicalTypeKind int16

const (
	LogicalTypeString    LogicalTypeKind = 1
	LogicalTypeMap       LogicalTypeKind = 2
	LogicalTypeList      LogicalTypeKind = 3
	LogicalTypeEnum      LogicalTypeKind = 4
	LogicalTypeDecimal   LogicalTypeKind = 5
	LogicalTypeDate      LogicalTypeKind = 6
	LogicalTypeTime      LogicalTypeKind = 7
	LogicalTypeTimestamp LogicalTypeKind = 8
	LogicalTypeInteger   LogicalTypeKind = 10
	LogicalTypeUnknown   LogicalTypeKind = 11
	LogicalTypeJSON      LogicalTypeKind = 12
	LogicalTypeBSON      LogicalTypeKind = 13
	LogicalTypeUUID      LogicalTypeKind = 14
	LogicalTypeFloat16   LogicalTypeKind = 15
	LogicalTypeVariant   LogicalTypeKind = 16
	LogicalTypeGeometry  LogicalTypeKind = 17
	LogicalTypeGeography LogicalTypeKind = 18
)

var logicalTypeNames = map[LogicalTypeKind]string{
	LogicalTypeString:    "STRING",
	LogicalTypeMap:       "MAP",
	LogicalTypeList:      "LIST",
	LogicalTypeEnum:      "ENUM",
	LogicalTypeDecimal:   "DECIMAL",
	LogicalTypeDate:      "DATE",
	LogicalTypeTime:      "TIME",
	LogicalTypeTimestamp: "TIMESTAMP",
	LogicalTypeInteger:   "INT",
	LogicalTypeUnknown:   "UNKNOWN",
	LogicalTypeJSON:      "JSON",
	LogicalTypeBSON:      "BSON",
	LogicalTypeUUID:      "UUID",
	LogicalTypeFloat16:   "FLOAT16",
	LogicalTypeVariant:   "VARIANT",
	LogicalTypeGeometry:  "GEOMETRY",
	LogicalTypeGeography: "GEOGRAPHY",
}

func (k LogicalTypeKind) String() string {
	if n, ok := logicalTypeNames[k]; ok {
		return n
	}
	return fmt.Sprintf("<UNSET(%d)>", int16(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k LogicalTypeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// TimeUnit is the unit of TIME and TIMESTAMP logical types.
type TimeUnit int16

const (
	TimeUnitMillis TimeUnit = 1
	TimeUnitMicros TimeUnit = 2
	TimeUnitNanos  TimeUnit = 3
)

var timeUnitNames = map[TimeUnit]string{
	TimeUnitMillis: "MILLIS",
	TimeUnitMicros: "MICROS",
	TimeUnitNanos:  "NANOS",
}

func (u TimeUnit) String() string {
	if n, ok := timeUnitNames[u]; ok {
		return n
	}
	return fmt.Sprintf("<UNSET(%d)>", int16(u))
}

// MarshalText implements encoding.TextMarshaler.
func (u TimeUnit) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// EdgeInterpolationAlgorithm is used by the GEOGRAPHY logical type.
type EdgeInterpolationAlgorithm int32

const (
	EdgeSpherical EdgeInterpolationAlgorithm = 0
	EdgeVincenty  EdgeInterpolationAlgorithm = 1
	EdgeThomas    EdgeInterpolationAlgorithm = 2
	EdgeAndoyer   EdgeInterpolationAlgorithm = 3
	EdgeKarney    EdgeInterpolationAlgorithm = 4
)

var edgeAlgorithmNames = map[EdgeInterpolationAlgorithm]string{
	EdgeSpherical: "SPHERICAL",
	EdgeVincenty:  "VINCENTY",
	EdgeThomas:    "THOMAS",
	EdgeAndoyer:   "ANDOYER",
	EdgeKarney:    "KARNEY",
}

func (a EdgeInterpolationAlgorithm) String() string {
	return enumName(edgeAlgorithmNames, a)
}

// MarshalText implements encoding.TextMarshaler.
func (a EdgeInterpolationAlgorithm) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a EdgeInterpolationAlgorithm) valid() bool {
	return a >= EdgeSpherical && a <= EdgeKarney
}

// LogicalType is the semantic annotation of a schema element. Kind selects the
// union member; only the parameter struct matching Kind is set.
type LogicalType struct {
	Kind      LogicalTypeKind `json:"kind" yaml:"kind"`
	Decimal   *DecimalType    `json:"decimal,omitempty" yaml:"decimal,omitempty"`
	Time      *TimeType       `json:"time,omitempty" yaml:"time,omitempty"`
	Timestamp *TimeType       `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Integer   *IntType        `json:"integer,omitempty" yaml:"integer,omitempty"`
	Variant   *VariantType    `json:"variant,omitempty" yaml:"variant,omitempty"`
	Geometry  *GeometryType   `json:"geometry,omitempty" yaml:"geometry,omitempty"`
	Geography *GeographyType  `json:"geography,omitempty" yaml:"geography,omitempty"`
}

// DecimalType holds the DECIMAL parameters.
type DecimalType struct {
	Scale     int32 `json:"scale" yaml:"scale"`
	Precision int32 `json:"precision" yaml:"precision"`
}

// TimeType holds the TIME and TIMESTAMP parameters.
type TimeType struct {
	IsAdjustedToUTC bool     `json:"is_adjusted_to_utc" yaml:"is_adjusted_to_utc"`
	Unit            TimeUnit `json:"unit" yaml:"unit"`
}

// IntType holds the INT parameters.
type IntType struct {
	BitWidth int8 `json:"bit_width" yaml:"bit_width"`
	IsSigned bool `json:"is_signed" yaml:"is_signed"`
}

// VariantType holds the VARIANT parameters.
type VariantType struct {
	SpecificationVersion *int8 `json:"specification_version,omitempty" yaml:"specification_version,omitempty"`
}

// GeometryType holds the GEOMETRY parameters.
type GeometryType struct {
	CRS *string `json:"crs,omitempty" yaml:"crs,omitempty"`
}

// GeographyType holds the GEOGRAPHY parameters.
type GeographyType struct {
	CRS       *string                     `json:"crs,omitempty" yaml:"crs,omitempty"`
	Algorithm *EdgeInterpolationAlgorithm `json:"algorithm,omitempty" yaml:"algorithm,omitempty"`
}

// String returns the annotation as written in a schema definition, e.g.
// "DECIMAL(10, 2)" or "TIMESTAMP(MICROS, true)".
func (lt *LogicalType) String() string {
	if lt == nil {
		return ""
	}
	switch lt.Kind {
	case LogicalTypeDecimal:
		if lt.Decimal != nil {
			return fmt.Sprintf("DECIMAL(%d, %d)", lt.Decimal.Precision, lt.Decimal.Scale)
		}
	case LogicalTypeTime:
		if lt.Time != nil {
			return fmt.Sprintf("TIME(%s, %t)", lt.Time.Unit, lt.Time.IsAdjustedToUTC)
		}
	case LogicalTypeTimestamp:
		if lt.Timestamp != nil {
			return fmt.Sprintf("TIMESTAMP(%s, %t)", lt.Timestamp.Unit, lt.Timestamp.IsAdjustedToUTC)
		}
	case LogicalTypeInteger:
		if lt.Integer != nil {
			return fmt.Sprintf("INT(%d, %t)", lt.Integer.BitWidth, lt.Integer.IsSigned)
		}
	}
	return lt.Kind.String()
}
