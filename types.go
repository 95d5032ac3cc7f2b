package parquetmeta

import (
	"fmt"
	"strings"
)

// Type is the physical type of a column.
type Type int32

// Physical types as numbered in the parquet format. TypeGroup is not part of
// the file format, it marks schema nodes that have children instead of values.
const (
	TypeGroup             Type = -1
	TypeBoolean           Type = 0
	TypeInt32             Type = 1
	TypeInt64             Type = 2
	TypeInt96             Type = 3
	TypeFloat             Type = 4
	TypeDouble            Type = 5
	TypeByteArray         Type = 6
	TypeFixedLenByteArray Type = 7
)

var typeNames = map[Type]string{
	TypeGroup:             "GROUP",
	TypeBoolean:           "BOOLEAN",
	TypeInt32:             "INT32",
	TypeInt64:             "INT64",
	TypeInt96:             "INT96",
	TypeFloat:             "FLOAT",
	TypeDouble:            "DOUBLE",
	TypeByteArray:         "BYTE_ARRAY",
	TypeFixedLenByteArray: "FIXED_LEN_BYTE_ARRAY",
}

func (t Type) String() string {
	return enumName(typeNames, t)
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// TypeFromString returns the physical type with the given name.
func TypeFromString(s string) (Type, error) {
	return enumFromString(typeNames, s)
}

func (t Type) valid() bool {
	return t >= TypeBoolean && t <= TypeFixedLenByteArray
}

// FieldRepetitionType tells if a field may be absent or repeated.
type FieldRepetitionType int32

const (
	Required FieldRepetitionType = 0
	Optional FieldRepetitionType = 1
	Repeated FieldRepetitionType = 2
)

var repetitionNames = map[FieldRepetitionType]string{
	Required: "REQUIRED",
	Optional: "OPTIONAL",
	Repeated: "REPEATED",
}

func (r FieldRepetitionType) String() string {
	return enumName(repetitionNames, r)
}

// MarshalText implements encoding.TextMarshaler.
func (r FieldRepetitionType) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r FieldRepetitionType) valid() bool {
	return r >= Required && r <= Repeated
}

// ConvertedType is the legacy annotation of a schema element, superseded by
// LogicalType but still written by most writers.
type ConvertedType int32

const (
	ConvertedTypeUTF8            ConvertedType = 0
	ConvertedTypeMap             ConvertedType = 1
	ConvertedTypeMapKeyValue     ConvertedType = 2
	ConvertedTypeList            ConvertedType = 3
	ConvertedTypeEnum            ConvertedType = 4
	ConvertedTypeDecimal         ConvertedType = 5
	ConvertedTypeDate            ConvertedType = 6
	ConvertedTypeTimeMillis      ConvertedType = 7
	ConvertedTypeTimeMicros      ConvertedType = 8
	ConvertedTypeTimestampMillis ConvertedType = 9
	ConvertedTypeTimestampMicros ConvertedType = 10
	ConvertedTypeUint8           ConvertedType = 11
	ConvertedTypeUint16          ConvertedType = 12
	ConvertedTypeUint32          ConvertedType = 13
	ConvertedTypeUint64          ConvertedType = 14
	ConvertedTypeInt8            ConvertedType = 15
	ConvertedTypeInt16           ConvertedType = 16
	ConvertedTypeInt32           ConvertedType = 17
	ConvertedTypeInt64           ConvertedType = 18
	ConvertedTypeJSON            ConvertedType = 19
	ConvertedTypeBSON            ConvertedType = 20
	ConvertedTypeInterval        ConvertedType = 21
)

var convertedTypeNames = map[ConvertedType]string{
	ConvertedTypeUTF8:            "UTF8",
	ConvertedTypeMap:             "MAP",
	ConvertedTypeMapKeyValue:     "MAP_KEY_VALUE",
	ConvertedTypeList:            "LIST",
	ConvertedTypeEnum:            "ENUM",
	ConvertedTypeDecimal:         "DECIMAL",
	ConvertedTypeDate:            "DATE",
	ConvertedTypeTimeMillis:      "TIME_MILLIS",
	ConvertedTypeTimeMicros:      "TIME_MICROS",
	ConvertedTypeTimestampMillis: "TIMESTAMP_MILLIS",
	ConvertedTypeTimestampMicros: "TIMESTAMP_MICROS",
	ConvertedTypeUint8:           "UINT_8",
	ConvertedTypeUint16:          "UINT_16",
	ConvertedTypeUint32:          "UINT_32",
	ConvertedTypeUint64:          "UINT_64",
	ConvertedTypeInt8:            "INT_8",
	ConvertedTypeInt16:           "INT_16",
	ConvertedTypeInt32:           "INT_32",
	ConvertedTypeInt64:           "INT_64",
	ConvertedTypeJSON:            "JSON",
	ConvertedTypeBSON:            "BSON",
	ConvertedTypeInterval:        "INTERVAL",
}

func (c ConvertedType) String() string {
	return enumName(convertedTypeNames, c)
}

// MarshalText implements encoding.TextMarshaler.
func (c ConvertedType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ConvertedTypeFromString returns the converted type with the given name.
func ConvertedTypeFromString(s string) (ConvertedType, error) {
	return enumFromString(convertedTypeNames, s)
}

func (c ConvertedType) valid() bool {
	return c >= ConvertedTypeUTF8 && c <= ConvertedTypeInterval
}

// Encoding is a page encoding.
type Encoding int32

const (
	EncodingPlain                Encoding = 0
	EncodingGroupVarInt          Encoding = 1
	EncodingPlainDictionary      Encoding = 2
	EncodingRLE                  Encoding = 3
	EncodingBitPacked            Encoding = 4
	EncodingDeltaBinaryPacked    Encoding = 5
	EncodingDeltaLengthByteArray Encoding = 6
	EncodingDeltaByteArray       Encoding = 7
	EncodingRLEDictionary        Encoding = 8
	EncodingByteStreamSplit      Encoding = 9
)

var encodingNames = map[Encoding]string{
	EncodingPlain:                "PLAIN",
	EncodingGroupVarInt:          "GROUP_VAR_INT",
	EncodingPlainDictionary:      "PLAIN_DICTIONARY",
	EncodingRLE:                  "RLE",
	EncodingBitPacked:            "BIT_PACKED",
	EncodingDeltaBinaryPacked:    "DELTA_BINARY_PACKED",
	EncodingDeltaLengthByteArray: "DELTA_LENGTH_BYTE_ARRAY",
	EncodingDeltaByteArray:       "DELTA_BYTE_ARRAY",
	EncodingRLEDictionary:        "RLE_DICTIONARY",
	EncodingByteStreamSplit:      "BYTE_STREAM_SPLIT",
}

func (e Encoding) String() string {
	return enumName(encodingNames, e)
}

// MarshalText implements encoding.TextMarshaler.
func (e Encoding) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e Encoding) valid() bool {
	return e >= EncodingPlain && e <= EncodingByteStreamSplit
}

// PageType is the type of a data page, used in the encoding stats.
type PageType int32

const (
	PageTypeDataPage       PageType = 0
	PageTypeIndexPage      PageType = 1
	PageTypeDictionaryPage PageType = 2
	PageTypeDataPageV2     PageType = 3
)

var pageTypeNames = map[PageType]string{
	PageTypeDataPage:       "DATA_PAGE",
	PageTypeIndexPage:      "INDEX_PAGE",
	PageTypeDictionaryPage: "DICTIONARY_PAGE",
	PageTypeDataPageV2:     "DATA_PAGE_V2",
}

func (p PageType) String() string {
	return enumName(pageTypeNames, p)
}

// MarshalText implements encoding.TextMarshaler.
func (p PageType) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p PageType) valid() bool {
	return p >= PageTypeDataPage && p <= PageTypeDataPageV2
}

func enumName[E ~int32](names map[E]string, v E) string {
	if n, ok := names[v]; ok {
		return n
	}
	return fmt.Sprintf("<UNSET(%d)>", int32(v))
}

func enumFromString[E ~int32](names map[E]string, s string) (E, error) {
	for v, n := range names {
		if strings.EqualFold(n, s) {
			return v, nil
		}
	}
	return 0, fmt.Errorf("not a valid enum value %q", s)
}
