package parquetmeta

import (
	"encoding/binary"
	"fmt"
	"math"
)

// DecodeStatValue decodes a plain encoded min or max statistics value of a
// column with physical type t. typeLength is only used for
// FIXED_LEN_BYTE_ARRAY columns and is ignored when zero or less.
//
// The result is a bool, int32, int64, float32, float64 or []byte. INT96
// values are returned as their 12 raw bytes. A nil b yields nil.
func DecodeStatValue(t Type, typeLength int32, b []byte) (interface{}, error) {
	if b == nil {
		return nil, nil
	}

	want := func(n int) error {
		if len(b) != n {
			return fmt.Errorf("%s statistics value has %d bytes, expected %d", t, len(b), n)
		}
		return nil
	}

	switch t {
	case TypeBoolean:
		if err := want(1); err != nil {
			return nil, err
		}
		return b[0] != 0, nil
	case TypeInt32:
		if err := want(4); err != nil {
			return nil, err
		}
		return int32(binary.LittleEndian.Uint32(b)), nil
	case TypeInt64:
		if err := want(8); err != nil {
			return nil, err
		}
		return int64(binary.LittleEndian.Uint64(b)), nil
	case TypeInt96:
		if err := want(12); err != nil {
			return nil, err
		}
		return append([]byte(nil), b...), nil
	case TypeFloat:
		if err := want(4); err != nil {
			return nil, err
		}
		return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
	case TypeDouble:
		if err := want(8); err != nil {
			return nil, err
		}
		return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
	case TypeByteArray:
		return append([]byte{}, b...), nil
	case TypeFixedLenByteArray:
		if typeLength > 0 {
			if err := want(int(typeLength)); err != nil {
				return nil, err
			}
		}
		return append([]byte{}, b...), nil
	}

	return nil, fmt.Errorf("no statistics values for type %s", t)
}

// MinMax returns the decoded minimum and maximum of the chunk. Each side
// prefers the min_value/max_value field over the deprecated min/max one.
// Either value is nil when the writer did not record it.
func (c *ColumnMetaData) MinMax() (minValue, maxValue interface{}, err error) {
	if c.Statistics == nil {
		return nil, nil, nil
	}

	minBytes, maxBytes := c.Statistics.MinValue, c.Statistics.MaxValue
	if minBytes == nil {
		minBytes = c.Statistics.Min
	}
	if maxBytes == nil {
		maxBytes = c.Statistics.Max
	}

	if minValue, err = DecodeStatValue(c.Type, 0, minBytes); err != nil {
		return nil, nil, fmt.Errorf("min: %w", err)
	}
	if maxValue, err = DecodeStatValue(c.Type, 0, maxBytes); err != nil {
		return nil, nil, fmt.Errorf("max: %w", err)
	}
	return minValue, maxValue, nil
}
