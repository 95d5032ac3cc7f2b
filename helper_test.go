package parquetmeta

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/apache/thrift/lib/go/thrift"
	"github.com/stretchr/testify/require"
)

// footerWriter writes thrift compact encoded footers. It is the encoder the
// reader is tested against.
type footerWriter struct {
	t     testing.TB
	ctx   context.Context
	buf   *thrift.TMemoryBuffer
	proto *thrift.TCompactProtocol
}

func newFooterWriter(t testing.TB) *footerWriter {
	buf := thrift.NewTMemoryBufferLen(1024)
	return &footerWriter{
		t:     t,
		ctx:   context.Background(),
		buf:   buf,
		proto: thrift.NewTCompactProtocolConf(buf, &thrift.TConfiguration{}),
	}
}

func (w *footerWriter) bytes() []byte {
	require.NoError(w.t, w.proto.Flush(w.ctx))
	return append([]byte(nil), w.buf.Bytes()...)
}

func (w *footerWriter) field(id int16, typ thrift.TType) {
	require.NoError(w.t, w.proto.WriteFieldBegin(w.ctx, "", typ, id))
}

func (w *footerWriter) i8(id int16, v int8) {
	w.field(id, thrift.BYTE)
	require.NoError(w.t, w.proto.WriteByte(w.ctx, v))
}

func (w *footerWriter) i16(id int16, v int16) {
	w.field(id, thrift.I16)
	require.NoError(w.t, w.proto.WriteI16(w.ctx, v))
}

func (w *footerWriter) i32(id int16, v int32) {
	w.field(id, thrift.I32)
	require.NoError(w.t, w.proto.WriteI32(w.ctx, v))
}

func (w *footerWriter) i64(id int16, v int64) {
	w.field(id, thrift.I64)
	require.NoError(w.t, w.proto.WriteI64(w.ctx, v))
}

func (w *footerWriter) boolean(id int16, v bool) {
	w.field(id, thrift.BOOL)
	require.NoError(w.t, w.proto.WriteBool(w.ctx, v))
}

func (w *footerWriter) str(id int16, v string) {
	w.field(id, thrift.STRING)
	require.NoError(w.t, w.proto.WriteString(w.ctx, v))
}

func (w *footerWriter) binary(id int16, v []byte) {
	w.field(id, thrift.STRING)
	require.NoError(w.t, w.proto.WriteBinary(w.ctx, v))
}

func (w *footerWriter) structBody(body func()) {
	require.NoError(w.t, w.proto.WriteStructBegin(w.ctx, ""))
	body()
	require.NoError(w.t, w.proto.WriteFieldStop(w.ctx))
	require.NoError(w.t, w.proto.WriteStructEnd(w.ctx))
}

func (w *footerWriter) nested(id int16, body func()) {
	w.field(id, thrift.STRUCT)
	w.structBody(body)
}

func (w *footerWriter) list(id int16, elem thrift.TType, n int, fn func(i int)) {
	w.field(id, thrift.LIST)
	require.NoError(w.t, w.proto.WriteListBegin(w.ctx, elem, n))
	for i := 0; i < n; i++ {
		fn(i)
	}
	require.NoError(w.t, w.proto.WriteListEnd(w.ctx))
}

func (w *footerWriter) structList(id int16, n int, fn func(i int)) {
	w.list(id, thrift.STRUCT, n, func(i int) {
		w.structBody(func() { fn(i) })
	})
}

func (w *footerWriter) fileMetaData(meta *FileMetaData, elements []*SchemaElement) {
	w.structBody(func() {
		w.i32(1, meta.Version)
		w.structList(2, len(elements), func(i int) { w.schemaElement(elements[i]) })
		w.i64(3, meta.NumRows)
		w.structList(4, len(meta.RowGroups), func(i int) { w.rowGroup(meta.RowGroups[i]) })
		if meta.KeyValueMetadata != nil {
			w.keyValues(5, meta.KeyValueMetadata)
		}
		if meta.CreatedBy != nil {
			w.str(6, *meta.CreatedBy)
		}
		if len(meta.ColumnOrders) > 0 {
			w.structList(7, len(meta.ColumnOrders), func(int) {
				w.nested(1, func() {})
			})
		}
	})
}

func (w *footerWriter) schemaElement(se *SchemaElement) {
	if se.Type != nil {
		w.i32(1, int32(*se.Type))
	}
	if se.TypeLength != nil {
		w.i32(2, *se.TypeLength)
	}
	if se.RepetitionType != nil {
		w.i32(3, int32(*se.RepetitionType))
	}
	w.str(4, se.Name)
	if se.NumChildren != nil {
		w.i32(5, *se.NumChildren)
	}
	if se.ConvertedType != nil {
		w.i32(6, int32(*se.ConvertedType))
	}
	if se.Scale != nil {
		w.i32(7, *se.Scale)
	}
	if se.Precision != nil {
		w.i32(8, *se.Precision)
	}
	if se.FieldID != nil {
		w.i32(9, *se.FieldID)
	}
	if se.LogicalType != nil {
		w.nested(10, func() { w.logicalType(se.LogicalType) })
	}
}

func (w *footerWriter) logicalType(lt *LogicalType) {
	timeType := func(tt *TimeType) {
		w.boolean(1, tt.IsAdjustedToUTC)
		w.nested(2, func() {
			w.nested(int16(tt.Unit), func() {})
		})
	}

	w.nested(int16(lt.Kind), func() {
		switch lt.Kind {
		case LogicalTypeDecimal:
			w.i32(1, lt.Decimal.Scale)
			w.i32(2, lt.Decimal.Precision)
		case LogicalTypeTime:
			timeType(lt.Time)
		case LogicalTypeTimestamp:
			timeType(lt.Timestamp)
		case LogicalTypeInteger:
			w.i8(1, lt.Integer.BitWidth)
			w.boolean(2, lt.Integer.IsSigned)
		case LogicalTypeVariant:
			if lt.Variant.SpecificationVersion != nil {
				w.i8(1, *lt.Variant.SpecificationVersion)
			}
		case LogicalTypeGeometry:
			if lt.Geometry.CRS != nil {
				w.str(1, *lt.Geometry.CRS)
			}
		case LogicalTypeGeography:
			if lt.Geography.CRS != nil {
				w.str(1, *lt.Geography.CRS)
			}
			if lt.Geography.Algorithm != nil {
				w.i32(2, int32(*lt.Geography.Algorithm))
			}
		}
	})
}

func (w *footerWriter) rowGroup(rg *RowGroup) {
	w.structList(1, len(rg.Columns), func(i int) { w.columnChunk(rg.Columns[i]) })
	w.i64(2, rg.TotalByteSize)
	w.i64(3, rg.NumRows)
	if len(rg.SortingColumns) > 0 {
		w.structList(4, len(rg.SortingColumns), func(i int) {
			sc := rg.SortingColumns[i]
			w.i32(1, sc.ColumnIdx)
			w.boolean(2, sc.Descending)
			w.boolean(3, sc.NullsFirst)
		})
	}
	if rg.FileOffset != nil {
		w.i64(5, *rg.FileOffset)
	}
	if rg.TotalCompressedSize != nil {
		w.i64(6, *rg.TotalCompressedSize)
	}
	if rg.Ordinal != nil {
		w.i16(7, *rg.Ordinal)
	}
}

func (w *footerWriter) columnChunk(cc *ColumnChunk) {
	if cc.FilePath != nil {
		w.str(1, *cc.FilePath)
	}
	w.i64(2, cc.FileOffset)
	if cc.MetaData != nil {
		w.nested(3, func() { w.columnMetaData(cc.MetaData) })
	}
	if cc.OffsetIndexOffset != nil {
		w.i64(4, *cc.OffsetIndexOffset)
	}
	if cc.OffsetIndexLength != nil {
		w.i32(5, *cc.OffsetIndexLength)
	}
	if cc.ColumnIndexOffset != nil {
		w.i64(6, *cc.ColumnIndexOffset)
	}
	if cc.ColumnIndexLength != nil {
		w.i32(7, *cc.ColumnIndexLength)
	}
}

func (w *footerWriter) columnMetaData(md *ColumnMetaData) {
	w.i32(1, int32(md.Type))
	w.list(2, thrift.I32, len(md.Encodings), func(i int) {
		require.NoError(w.t, w.proto.WriteI32(w.ctx, int32(md.Encodings[i])))
	})
	w.list(3, thrift.STRING, len(md.PathInSchema), func(i int) {
		require.NoError(w.t, w.proto.WriteString(w.ctx, md.PathInSchema[i]))
	})
	w.i32(4, int32(md.Codec))
	w.i64(5, md.NumValues)
	w.i64(6, md.TotalUncompressedSize)
	w.i64(7, md.TotalCompressedSize)
	if md.KeyValueMetadata != nil {
		w.keyValues(8, md.KeyValueMetadata)
	}
	w.i64(9, md.DataPageOffset)
	if md.IndexPageOffset != nil {
		w.i64(10, *md.IndexPageOffset)
	}
	if md.DictionaryPageOffset != nil {
		w.i64(11, *md.DictionaryPageOffset)
	}
	if st := md.Statistics; st != nil {
		w.nested(12, func() {
			if st.Max != nil {
				w.binary(1, st.Max)
			}
			if st.Min != nil {
				w.binary(2, st.Min)
			}
			if st.NullCount != nil {
				w.i64(3, *st.NullCount)
			}
			if st.DistinctCount != nil {
				w.i64(4, *st.DistinctCount)
			}
			if st.MaxValue != nil {
				w.binary(5, st.MaxValue)
			}
			if st.MinValue != nil {
				w.binary(6, st.MinValue)
			}
			if st.IsMaxValueExact != nil {
				w.boolean(7, *st.IsMaxValueExact)
			}
			if st.IsMinValueExact != nil {
				w.boolean(8, *st.IsMinValueExact)
			}
		})
	}
	if len(md.EncodingStats) > 0 {
		w.structList(13, len(md.EncodingStats), func(i int) {
			es := md.EncodingStats[i]
			w.i32(1, int32(es.PageType))
			w.i32(2, int32(es.Encoding))
			w.i32(3, es.Count)
		})
	}
	if md.BloomFilterOffset != nil {
		w.i64(14, *md.BloomFilterOffset)
	}
	if md.BloomFilterLength != nil {
		w.i32(15, *md.BloomFilterLength)
	}
	if ss := md.SizeStatistics; ss != nil {
		w.nested(16, func() {
			if ss.UnencodedByteArrayDataBytes != nil {
				w.i64(1, *ss.UnencodedByteArrayDataBytes)
			}
			histogram := func(id int16, h []int64) {
				if h == nil {
					return
				}
				w.list(id, thrift.I64, len(h), func(i int) {
					require.NoError(w.t, w.proto.WriteI64(w.ctx, h[i]))
				})
			}
			histogram(2, ss.RepetitionLevelHistogram)
			histogram(3, ss.DefinitionLevelHistogram)
		})
	}
}

func (w *footerWriter) keyValues(id int16, kvs KeyValueMetadata) {
	w.structList(id, len(kvs), func(i int) {
		w.str(1, kvs[i].Key)
		if kvs[i].Value != nil {
			w.str(2, *kvs[i].Value)
		}
	})
}

// encodeFooter encodes meta with the schema taken from meta.Schema.
func encodeFooter(t testing.TB, meta *FileMetaData) []byte {
	var elements []*SchemaElement
	if meta.Schema != nil {
		elements = meta.Schema.Elements()
	}
	return encodeFooterElements(t, meta, elements)
}

// encodeFooterElements encodes meta with an explicit flat schema, which does
// not need to form a valid tree.
func encodeFooterElements(t testing.TB, meta *FileMetaData, elements []*SchemaElement) []byte {
	w := newFooterWriter(t)
	w.fileMetaData(meta, elements)
	return w.bytes()
}

// buildFile frames footer as a parquet file with dataLen bytes of column data
// between the head magic and the footer.
func buildFile(footer []byte, dataLen int) []byte {
	data := make([]byte, 0, 12+dataLen+len(footer))
	data = append(data, magic...)
	data = append(data, make([]byte, dataLen)...)
	data = append(data, footer...)
	data = binary.LittleEndian.AppendUint32(data, uint32(len(footer)))
	return append(data, magic...)
}

func mustParseSchema(t testing.TB, text string) *Schema {
	s, err := ParseSchemaDefinition(text)
	require.NoError(t, err)
	return s
}

func strPtr(s string) *string {
	return &s
}

func int32Ptr(i int32) *int32 {
	return &i
}

func int64Ptr(i int64) *int64 {
	return &i
}

func boolPtr(b bool) *bool {
	return &b
}

func typePtr(t Type) *Type {
	return &t
}

func repPtr(r FieldRepetitionType) *FieldRepetitionType {
	return &r
}

func (w *footerWriter) raw(b ...byte) {
	_, err := w.buf.Write(b)
	require.NoError(w.t, err)
}

const testSchema = `message test {
  required int64 id = 1;
  optional binary name (STRING);
  optional group tags (LIST) {
    repeated group list {
      required binary element (STRING);
    }
  }
  optional fixed_len_byte_array(16) price (DECIMAL(38, 2));
  optional int64 ts (TIMESTAMP(MICROS, true));
}
`

const (
	testRowGroups  = 2
	testChunkSize  = 20
	testDataLength = testRowGroups * 5 * testChunkSize
)

// testMetaData returns metadata for a file with two row groups over
// testSchema. Its column chunks fit into testDataLength bytes of data.
func testMetaData(t testing.TB) *FileMetaData {
	schema := mustParseSchema(t, testSchema)

	meta := &FileMetaData{
		Version: 2,
		Schema:  schema,
		KeyValueMetadata: KeyValueMetadata{
			{Key: "writer", Value: strPtr("x")},
			{Key: "writer", Value: strPtr("y")},
			{Key: "flag"},
		},
		CreatedBy: strPtr("parquetmeta test"),
		RowGroups: []*RowGroup{},
	}

	offset := int64(len(magic))
	for i := 0; i < testRowGroups; i++ {
		rg := &RowGroup{
			NumRows:             10,
			FileOffset:          int64Ptr(offset),
			TotalCompressedSize: int64Ptr(int64(len(schema.Columns()) * testChunkSize)),
			Ordinal:             func(o int16) *int16 { return &o }(int16(i)),
			SortingColumns:      []SortingColumn{{ColumnIdx: 0, NullsFirst: true}},
		}
		for _, col := range schema.Columns() {
			md := &ColumnMetaData{
				Type:                  col.Type,
				Encodings:             []Encoding{EncodingPlain, EncodingRLE},
				PathInSchema:          col.Path,
				Codec:                 CompressionCodecSnappy,
				NumValues:             10,
				TotalUncompressedSize: 30,
				TotalCompressedSize:   testChunkSize,
				DataPageOffset:        offset,
				EncodingStats: []PageEncodingStats{
					{PageType: PageTypeDataPage, Encoding: EncodingPlain, Count: 1},
				},
			}
			if col.Type == TypeInt64 {
				lo := binary.LittleEndian.AppendUint64(nil, 1)
				hi := binary.LittleEndian.AppendUint64(nil, 10)
				md.Statistics = &Statistics{
					MinValue:        lo,
					MaxValue:        hi,
					NullCount:       int64Ptr(0),
					IsMinValueExact: boolPtr(true),
					IsMaxValueExact: boolPtr(true),
				}
				md.SizeStatistics = &SizeStatistics{
					RepetitionLevelHistogram: []int64{10},
					DefinitionLevelHistogram: []int64{0, 10},
				}
			}
			rg.Columns = append(rg.Columns, &ColumnChunk{
				FileOffset: offset,
				MetaData:   md,
			})
			rg.TotalByteSize += md.TotalUncompressedSize
			offset += testChunkSize
		}
		meta.NumRows += rg.NumRows
		meta.RowGroups = append(meta.RowGroups, rg)
	}
	for range schema.Columns() {
		meta.ColumnOrders = append(meta.ColumnOrders, ColumnOrder{TypeDefinedOrder: true})
	}

	return meta
}

// testFile returns testMetaData encoded as a complete file.
func testFile(t testing.TB) []byte {
	return buildFile(encodeFooter(t, testMetaData(t)), testDataLength)
}
