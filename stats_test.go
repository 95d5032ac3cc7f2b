package parquetmeta

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeStatValue(t *testing.T) {
	le32 := func(v uint32) []byte { return binary.LittleEndian.AppendUint32(nil, v) }
	le64 := func(v uint64) []byte { return binary.LittleEndian.AppendUint64(nil, v) }

	testData := []struct {
		Type    Type
		Len     int32
		Data    []byte
		Want    interface{}
		WantErr bool
	}{
		{Type: TypeBoolean, Data: []byte{1}, Want: true},
		{Type: TypeBoolean, Data: []byte{0}, Want: false},
		{Type: TypeBoolean, Data: []byte{0, 1}, WantErr: true},
		{Type: TypeInt32, Data: le32(uint32(0xfffffffe)), Want: int32(-2)},
		{Type: TypeInt32, Data: []byte{1, 2}, WantErr: true},
		{Type: TypeInt64, Data: le64(math.MaxUint64), Want: int64(-1)},
		{Type: TypeInt64, Data: le32(1), WantErr: true},
		{Type: TypeFloat, Data: le32(math.Float32bits(1.5)), Want: float32(1.5)},
		{Type: TypeDouble, Data: le64(math.Float64bits(-0.25)), Want: float64(-0.25)},
		{Type: TypeDouble, Data: le32(0), WantErr: true},
		{Type: TypeInt96, Data: make([]byte, 12), Want: make([]byte, 12)},
		{Type: TypeInt96, Data: make([]byte, 8), WantErr: true},
		{Type: TypeByteArray, Data: []byte("hello"), Want: []byte("hello")},
		{Type: TypeByteArray, Data: []byte{}, Want: []byte{}},
		{Type: TypeFixedLenByteArray, Len: 3, Data: []byte("abc"), Want: []byte("abc")},
		{Type: TypeFixedLenByteArray, Len: 4, Data: []byte("abc"), WantErr: true},
		{Type: TypeFixedLenByteArray, Data: []byte("abc"), Want: []byte("abc")},
		{Type: TypeGroup, Data: []byte{1}, WantErr: true},
		{Type: TypeInt32, Data: nil, Want: nil},
	}

	for idx, tt := range testData {
		got, err := DecodeStatValue(tt.Type, tt.Len, tt.Data)
		if tt.WantErr {
			require.Error(t, err, "%d. %s", idx, tt.Type)
			continue
		}
		require.NoError(t, err, "%d. %s", idx, tt.Type)
		require.Equal(t, tt.Want, got, "%d. %s", idx, tt.Type)
	}
}

func TestDecodeStatValueCopies(t *testing.T) {
	data := []byte("value")
	got, err := DecodeStatValue(TypeByteArray, 0, data)
	require.NoError(t, err)

	data[0] = 'X'
	require.Equal(t, []byte("value"), got)
}

func TestColumnMinMax(t *testing.T) {
	md := &ColumnMetaData{Type: TypeInt32}

	lo, hi, err := md.MinMax()
	require.NoError(t, err)
	require.Nil(t, lo)
	require.Nil(t, hi)

	md.Statistics = &Statistics{
		Min: binary.LittleEndian.AppendUint32(nil, 1),
		Max: binary.LittleEndian.AppendUint32(nil, 9),
	}
	lo, hi, err = md.MinMax()
	require.NoError(t, err)
	require.Equal(t, int32(1), lo)
	require.Equal(t, int32(9), hi)

	md.Statistics.MinValue = binary.LittleEndian.AppendUint32(nil, 2)
	md.Statistics.MaxValue = binary.LittleEndian.AppendUint32(nil, 8)
	lo, hi, err = md.MinMax()
	require.NoError(t, err)
	require.Equal(t, int32(2), lo)
	require.Equal(t, int32(8), hi)

	md.Statistics.MaxValue = nil
	lo, hi, err = md.MinMax()
	require.NoError(t, err)
	require.Equal(t, int32(2), lo)
	require.Equal(t, int32(9), hi, "max falls back to the deprecated field on its own")

	md.Statistics.MinValue = nil
	md.Statistics.MaxValue = binary.LittleEndian.AppendUint32(nil, 7)
	lo, hi, err = md.MinMax()
	require.NoError(t, err)
	require.Equal(t, int32(1), lo)
	require.Equal(t, int32(7), hi)

	md.Statistics.MaxValue = []byte{1}
	_, _, err = md.MinMax()
	require.Error(t, err)
	require.Contains(t, err.Error(), "max:")
}
