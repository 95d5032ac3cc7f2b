package parquetmeta

import (
	"github.com/apache/thrift/lib/go/thrift"
)

// metadataDecoder turns the thrift compact encoded footer into a
// FileMetaData. Fields are matched by id; ids it does not know are skipped so
// that files written against newer versions of the format still decode.
type metadataDecoder struct {
	*thriftReader
	fileSize int64
}

// decodeFileMetaData decodes the footer. The schema is returned as the flat
// element list, it is turned into a tree by resolveSchema.
func decodeFileMetaData(footer []byte, fileSize int64) (*FileMetaData, []*SchemaElement, error) {
	d := &metadataDecoder{
		thriftReader: newThriftReader(footer),
		fileSize:     fileSize,
	}

	meta := &FileMetaData{}
	var elements []*SchemaElement
	var haveVersion, haveSchema, haveNumRows, haveRowGroups bool

	err := d.readStruct(func(id int16, typ thrift.TType) (err error) {
		switch id {
		case 1:
			meta.Version, err = d.i32("version", typ)
			haveVersion = true
		case 2:
			haveSchema = true
			elements = nil
			err = d.list("schema", typ, thrift.STRUCT, func(int) error {
				se, err := d.decodeSchemaElement()
				elements = append(elements, se)
				return err
			})
		case 3:
			meta.NumRows, err = d.i64("num_rows", typ)
			if err == nil && meta.NumRows < 0 {
				d.push("num_rows")
				err = d.errorf("negative row count %d", meta.NumRows)
				d.pop()
			}
			haveNumRows = true
		case 4:
			haveRowGroups = true
			meta.RowGroups = []*RowGroup{}
			err = d.list("row_groups", typ, thrift.STRUCT, func(int) error {
				rg, err := d.decodeRowGroup()
				meta.RowGroups = append(meta.RowGroups, rg)
				return err
			})
		case 5:
			meta.KeyValueMetadata, err = d.decodeKeyValueList("key_value_metadata", typ)
		case 6:
			var s string
			s, err = d.str("created_by", typ)
			meta.CreatedBy = &s
		case 7:
			meta.ColumnOrders = nil
			err = d.list("column_orders", typ, thrift.STRUCT, func(int) error {
				co, err := d.decodeColumnOrder()
				meta.ColumnOrders = append(meta.ColumnOrders, co)
				return err
			})
		default:
			err = d.skip(typ)
		}
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	switch {
	case !haveVersion:
		return nil, nil, d.errorf("required field version is missing")
	case !haveSchema:
		return nil, nil, d.errorf("required field schema is missing")
	case !haveNumRows:
		return nil, nil, d.errorf("required field num_rows is missing")
	case !haveRowGroups:
		return nil, nil, d.errorf("required field row_groups is missing")
	}

	return meta, elements, nil
}

func (d *metadataDecoder) decodeSchemaElement() (*SchemaElement, error) {
	se := &SchemaElement{}
	err := d.readStruct(func(id int16, typ thrift.TType) error {
		switch id {
		case 1:
			t, err := readEnum(d.thriftReader, "type", typ, Type.valid)
			se.Type = &t
			return err
		case 2:
			v, err := d.i32("type_length", typ)
			se.TypeLength = &v
			return err
		case 3:
			rt, err := readEnum(d.thriftReader, "repetition_type", typ, FieldRepetitionType.valid)
			se.RepetitionType = &rt
			return err
		case 4:
			var err error
			se.Name, err = d.str("name", typ)
			return err
		case 5:
			v, err := d.i32("num_children", typ)
			se.NumChildren = &v
			return err
		case 6:
			ct, err := readEnum(d.thriftReader, "converted_type", typ, ConvertedType.valid)
			se.ConvertedType = &ct
			return err
		case 7:
			v, err := d.i32("scale", typ)
			se.Scale = &v
			return err
		case 8:
			v, err := d.i32("precision", typ)
			se.Precision = &v
			return err
		case 9:
			v, err := d.i32("field_id", typ)
			se.FieldID = &v
			return err
		case 10:
			var err error
			se.LogicalType, err = d.decodeLogicalType(typ)
			return err
		default:
			return d.skip(typ)
		}
	})
	return se, err
}

// decodeLogicalType reads the LogicalType union. A union whose member is not
// known to this reader yields nil, the element is then treated as having no
// logical type.
func (d *metadataDecoder) decodeLogicalType(typ thrift.TType) (*LogicalType, error) {
	var lt *LogicalType
	err := d.nested("logicalType", typ, func(id int16, typ thrift.TType) error {
		kind := LogicalTypeKind(id)
		if _, known := logicalTypeNames[kind]; !known {
			return d.skip(typ)
		}

		lt = &LogicalType{Kind: kind}
		name := kind.String()
		switch kind {
		case LogicalTypeDecimal:
			lt.Decimal = &DecimalType{}
			return d.nested(name, typ, func(id int16, typ thrift.TType) (err error) {
				switch id {
				case 1:
					lt.Decimal.Scale, err = d.i32("scale", typ)
				case 2:
					lt.Decimal.Precision, err = d.i32("precision", typ)
				default:
					err = d.skip(typ)
				}
				return err
			})
		case LogicalTypeTime:
			lt.Time = &TimeType{}
			return d.decodeTimeType(name, typ, lt.Time)
		case LogicalTypeTimestamp:
			lt.Timestamp = &TimeType{}
			return d.decodeTimeType(name, typ, lt.Timestamp)
		case LogicalTypeInteger:
			lt.Integer = &IntType{}
			return d.nested(name, typ, func(id int16, typ thrift.TType) (err error) {
				switch id {
				case 1:
					lt.Integer.BitWidth, err = d.i8("bitWidth", typ)
				case 2:
					lt.Integer.IsSigned, err = d.boolean("isSigned", typ)
				default:
					err = d.skip(typ)
				}
				return err
			})
		case LogicalTypeVariant:
			lt.Variant = &VariantType{}
			return d.nested(name, typ, func(id int16, typ thrift.TType) error {
				if id != 1 {
					return d.skip(typ)
				}
				v, err := d.i8("specification_version", typ)
				lt.Variant.SpecificationVersion = &v
				return err
			})
		case LogicalTypeGeometry:
			lt.Geometry = &GeometryType{}
			return d.nested(name, typ, func(id int16, typ thrift.TType) error {
				if id != 1 {
					return d.skip(typ)
				}
				s, err := d.str("crs", typ)
				lt.Geometry.CRS = &s
				return err
			})
		case LogicalTypeGeography:
			lt.Geography = &GeographyType{}
			return d.nested(name, typ, func(id int16, typ thrift.TType) error {
				switch id {
				case 1:
					s, err := d.str("crs", typ)
					lt.Geography.CRS = &s
					return err
				case 2:
					a, err := readEnum(d.thriftReader, "algorithm", typ, EdgeInterpolationAlgorithm.valid)
					lt.Geography.Algorithm = &a
					return err
				default:
					return d.skip(typ)
				}
			})
		default:
			// members without parameters are empty structs.
			return d.nested(name, typ, func(_ int16, typ thrift.TType) error {
				return d.skip(typ)
			})
		}
	})
	return lt, err
}

func (d *metadataDecoder) decodeTimeType(name string, typ thrift.TType, tt *TimeType) error {
	var haveUnit bool
	err := d.nested(name, typ, func(id int16, typ thrift.TType) error {
		switch id {
		case 1:
			var err error
			tt.IsAdjustedToUTC, err = d.boolean("isAdjustedToUTC", typ)
			return err
		case 2:
			return d.nested("unit", typ, func(id int16, typ thrift.TType) error {
				u := TimeUnit(id)
				if _, known := timeUnitNames[u]; !known {
					return d.errorf("unknown time unit %d", id)
				}
				tt.Unit = u
				haveUnit = true
				return d.nested(u.String(), typ, func(_ int16, typ thrift.TType) error {
					return d.skip(typ)
				})
			})
		default:
			return d.skip(typ)
		}
	})
	if err != nil {
		return err
	}
	if !haveUnit {
		d.push(name)
		defer d.pop()
		return d.errorf("required field unit is missing")
	}
	return nil
}

func (d *metadataDecoder) decodeRowGroup() (*RowGroup, error) {
	rg := &RowGroup{}
	var haveColumns bool
	err := d.readStruct(func(id int16, typ thrift.TType) (err error) {
		switch id {
		case 1:
			haveColumns = true
			rg.Columns = []*ColumnChunk{}
			err = d.list("columns", typ, thrift.STRUCT, func(int) error {
				cc, err := d.decodeColumnChunk()
				rg.Columns = append(rg.Columns, cc)
				return err
			})
		case 2:
			rg.TotalByteSize, err = d.nonNegativeI64("total_byte_size", typ)
		case 3:
			rg.NumRows, err = d.nonNegativeI64("num_rows", typ)
		case 4:
			rg.SortingColumns = nil
			err = d.list("sorting_columns", typ, thrift.STRUCT, func(int) error {
				sc, err := d.decodeSortingColumn()
				rg.SortingColumns = append(rg.SortingColumns, sc)
				return err
			})
		case 5:
			var v int64
			v, err = d.nonNegativeI64("file_offset", typ)
			rg.FileOffset = &v
		case 6:
			var v int64
			v, err = d.nonNegativeI64("total_compressed_size", typ)
			rg.TotalCompressedSize = &v
		case 7:
			var v int16
			v, err = d.i16("ordinal", typ)
			rg.Ordinal = &v
		default:
			err = d.skip(typ)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if !haveColumns {
		return nil, d.errorf("required field columns is missing")
	}
	return rg, nil
}

func (d *metadataDecoder) decodeSortingColumn() (sc SortingColumn, err error) {
	err = d.readStruct(func(id int16, typ thrift.TType) (err error) {
		switch id {
		case 1:
			sc.ColumnIdx, err = d.i32("column_idx", typ)
		case 2:
			sc.Descending, err = d.boolean("descending", typ)
		case 3:
			sc.NullsFirst, err = d.boolean("nulls_first", typ)
		default:
			err = d.skip(typ)
		}
		return err
	})
	return sc, err
}

func (d *metadataDecoder) decodeColumnChunk() (*ColumnChunk, error) {
	cc := &ColumnChunk{}
	err := d.readStruct(func(id int16, typ thrift.TType) (err error) {
		switch id {
		case 1:
			var s string
			s, err = d.str("file_path", typ)
			cc.FilePath = &s
		case 2:
			cc.FileOffset, err = d.nonNegativeI64("file_offset", typ)
		case 3:
			cc.MetaData, err = d.decodeColumnMetaData(typ)
		case 4:
			var v int64
			v, err = d.nonNegativeI64("offset_index_offset", typ)
			cc.OffsetIndexOffset = &v
		case 5:
			var v int32
			v, err = d.i32("offset_index_length", typ)
			cc.OffsetIndexLength = &v
		case 6:
			var v int64
			v, err = d.nonNegativeI64("column_index_offset", typ)
			cc.ColumnIndexOffset = &v
		case 7:
			var v int32
			v, err = d.i32("column_index_length", typ)
			cc.ColumnIndexLength = &v
		default:
			err = d.skip(typ)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	// chunks stored in other files can't be checked against this one.
	if cc.MetaData != nil && cc.FilePath == nil {
		start := cc.MetaData.StartOffset()
		if end := start + cc.MetaData.TotalCompressedSize; end < start || end > d.fileSize {
			return nil, d.errorf("column chunk [%d, %d) extends past the end of the file (%d bytes)", start, end, d.fileSize)
		}
	}
	return cc, nil
}

func (d *metadataDecoder) decodeColumnMetaData(typ thrift.TType) (*ColumnMetaData, error) {
	md := &ColumnMetaData{}
	err := d.nested("meta_data", typ, func(id int16, typ thrift.TType) (err error) {
		switch id {
		case 1:
			md.Type, err = readEnum(d.thriftReader, "type", typ, Type.valid)
		case 2:
			md.Encodings = []Encoding{}
			err = d.list("encodings", typ, thrift.I32, func(int) error {
				v, err := d.readI32()
				if err != nil {
					return err
				}
				if e := Encoding(v); !e.valid() {
					return d.errorf("enum value %d out of range", v)
				}
				md.Encodings = append(md.Encodings, Encoding(v))
				return nil
			})
		case 3:
			md.PathInSchema = []string{}
			err = d.list("path_in_schema", typ, thrift.STRING, func(int) error {
				s, err := d.readString()
				md.PathInSchema = append(md.PathInSchema, s)
				return err
			})
		case 4:
			md.Codec, err = readEnum(d.thriftReader, "codec", typ, CompressionCodec.valid)
		case 5:
			md.NumValues, err = d.nonNegativeI64("num_values", typ)
		case 6:
			md.TotalUncompressedSize, err = d.nonNegativeI64("total_uncompressed_size", typ)
		case 7:
			md.TotalCompressedSize, err = d.nonNegativeI64("total_compressed_size", typ)
		case 8:
			md.KeyValueMetadata, err = d.decodeKeyValueList("key_value_metadata", typ)
		case 9:
			md.DataPageOffset, err = d.nonNegativeI64("data_page_offset", typ)
		case 10:
			var v int64
			v, err = d.nonNegativeI64("index_page_offset", typ)
			md.IndexPageOffset = &v
		case 11:
			var v int64
			v, err = d.nonNegativeI64("dictionary_page_offset", typ)
			md.DictionaryPageOffset = &v
		case 12:
			md.Statistics, err = d.decodeStatistics(typ)
		case 13:
			md.EncodingStats = nil
			err = d.list("encoding_stats", typ, thrift.STRUCT, func(int) error {
				es, err := d.decodePageEncodingStats()
				md.EncodingStats = append(md.EncodingStats, es)
				return err
			})
		case 14:
			var v int64
			v, err = d.nonNegativeI64("bloom_filter_offset", typ)
			md.BloomFilterOffset = &v
		case 15:
			var v int32
			v, err = d.i32("bloom_filter_length", typ)
			md.BloomFilterLength = &v
		case 16:
			md.SizeStatistics, err = d.decodeSizeStatistics(typ)
		default:
			err = d.skip(typ)
		}
		return err
	})
	return md, err
}

func (d *metadataDecoder) decodeStatistics(typ thrift.TType) (*Statistics, error) {
	st := &Statistics{}
	err := d.nested("statistics", typ, func(id int16, typ thrift.TType) (err error) {
		switch id {
		case 1:
			st.Max, err = d.binary("max", typ)
		case 2:
			st.Min, err = d.binary("min", typ)
		case 3:
			var v int64
			v, err = d.i64("null_count", typ)
			st.NullCount = &v
		case 4:
			var v int64
			v, err = d.i64("distinct_count", typ)
			st.DistinctCount = &v
		case 5:
			st.MaxValue, err = d.binary("max_value", typ)
		case 6:
			st.MinValue, err = d.binary("min_value", typ)
		case 7:
			var v bool
			v, err = d.boolean("is_max_value_exact", typ)
			st.IsMaxValueExact = &v
		case 8:
			var v bool
			v, err = d.boolean("is_min_value_exact", typ)
			st.IsMinValueExact = &v
		default:
			err = d.skip(typ)
		}
		return err
	})
	return st, err
}

func (d *metadataDecoder) decodePageEncodingStats() (es PageEncodingStats, err error) {
	err = d.readStruct(func(id int16, typ thrift.TType) (err error) {
		switch id {
		case 1:
			es.PageType, err = readEnum(d.thriftReader, "page_type", typ, PageType.valid)
		case 2:
			es.Encoding, err = readEnum(d.thriftReader, "encoding", typ, Encoding.valid)
		case 3:
			es.Count, err = d.i32("count", typ)
		default:
			err = d.skip(typ)
		}
		return err
	})
	return es, err
}

func (d *metadataDecoder) decodeSizeStatistics(typ thrift.TType) (*SizeStatistics, error) {
	ss := &SizeStatistics{}
	histogram := func(name string, typ thrift.TType, dst *[]int64) error {
		*dst = []int64{}
		return d.list(name, typ, thrift.I64, func(int) error {
			v, err := d.readI64()
			*dst = append(*dst, v)
			return err
		})
	}
	err := d.nested("size_statistics", typ, func(id int16, typ thrift.TType) error {
		switch id {
		case 1:
			v, err := d.i64("unencoded_byte_array_data_bytes", typ)
			ss.UnencodedByteArrayDataBytes = &v
			return err
		case 2:
			return histogram("repetition_level_histogram", typ, &ss.RepetitionLevelHistogram)
		case 3:
			return histogram("definition_level_histogram", typ, &ss.DefinitionLevelHistogram)
		default:
			return d.skip(typ)
		}
	})
	return ss, err
}

func (d *metadataDecoder) decodeKeyValueList(name string, typ thrift.TType) (KeyValueMetadata, error) {
	kvs := KeyValueMetadata{}
	err := d.list(name, typ, thrift.STRUCT, func(int) error {
		var kv KeyValue
		err := d.readStruct(func(id int16, typ thrift.TType) (err error) {
			switch id {
			case 1:
				kv.Key, err = d.str("key", typ)
			case 2:
				var s string
				s, err = d.str("value", typ)
				kv.Value = &s
			default:
				err = d.skip(typ)
			}
			return err
		})
		kvs = append(kvs, kv)
		return err
	})
	return kvs, err
}

func (d *metadataDecoder) decodeColumnOrder() (co ColumnOrder, err error) {
	err = d.readStruct(func(id int16, typ thrift.TType) error {
		if id != 1 {
			return d.skip(typ)
		}
		co.TypeDefinedOrder = true
		return d.nested("TYPE_ORDER", typ, func(_ int16, typ thrift.TType) error {
			return d.skip(typ)
		})
	})
	return co, err
}

func (d *metadataDecoder) nonNegativeI64(name string, typ thrift.TType) (int64, error) {
	v, err := d.i64(name, typ)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		d.push(name)
		defer d.pop()
		return 0, d.errorf("negative value %d", v)
	}
	return v, nil
}
