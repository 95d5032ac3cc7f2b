package parquetmeta

// FileMetaData is the decoded footer of a parquet file.
type FileMetaData struct {
	Version          int32            `json:"version" yaml:"version"`
	Schema           *Schema          `json:"schema" yaml:"schema"`
	NumRows          int64            `json:"num_rows" yaml:"num_rows"`
	RowGroups        []*RowGroup      `json:"row_groups" yaml:"row_groups"`
	KeyValueMetadata KeyValueMetadata `json:"key_value_metadata,omitempty" yaml:"key_value_metadata,omitempty"`
	CreatedBy        *string          `json:"created_by,omitempty" yaml:"created_by,omitempty"`
	ColumnOrders     []ColumnOrder    `json:"column_orders,omitempty" yaml:"column_orders,omitempty"`
}

// SchemaElement is one entry of the flat, pre-order schema list as it is
// stored in the footer.
type SchemaElement struct {
	Type           *Type                `json:"type,omitempty" yaml:"type,omitempty"`
	TypeLength     *int32               `json:"type_length,omitempty" yaml:"type_length,omitempty"`
	RepetitionType *FieldRepetitionType `json:"repetition_type,omitempty" yaml:"repetition_type,omitempty"`
	Name           string               `json:"name" yaml:"name"`
	NumChildren    *int32               `json:"num_children,omitempty" yaml:"num_children,omitempty"`
	ConvertedType  *ConvertedType       `json:"converted_type,omitempty" yaml:"converted_type,omitempty"`
	Scale          *int32               `json:"scale,omitempty" yaml:"scale,omitempty"`
	Precision      *int32               `json:"precision,omitempty" yaml:"precision,omitempty"`
	FieldID        *int32               `json:"field_id,omitempty" yaml:"field_id,omitempty"`
	LogicalType    *LogicalType         `json:"logical_type,omitempty" yaml:"logical_type,omitempty"`
}

// RowGroup is a horizontal partition of the file. Columns holds one chunk per
// leaf of the schema, in schema order.
type RowGroup struct {
	Columns             []*ColumnChunk  `json:"columns" yaml:"columns"`
	TotalByteSize       int64           `json:"total_byte_size" yaml:"total_byte_size"`
	NumRows             int64           `json:"num_rows" yaml:"num_rows"`
	SortingColumns      []SortingColumn `json:"sorting_columns,omitempty" yaml:"sorting_columns,omitempty"`
	FileOffset          *int64          `json:"file_offset,omitempty" yaml:"file_offset,omitempty"`
	TotalCompressedSize *int64          `json:"total_compressed_size,omitempty" yaml:"total_compressed_size,omitempty"`
	Ordinal             *int16          `json:"ordinal,omitempty" yaml:"ordinal,omitempty"`
}

// SortingColumn describes the sort order of a row group.
type SortingColumn struct {
	ColumnIdx  int32 `json:"column_idx" yaml:"column_idx"`
	Descending bool  `json:"descending" yaml:"descending"`
	NullsFirst bool  `json:"nulls_first" yaml:"nulls_first"`
}

// ColumnChunk is the location of one column's data within one row group.
type ColumnChunk struct {
	FilePath          *string         `json:"file_path,omitempty" yaml:"file_path,omitempty"`
	FileOffset        int64           `json:"file_offset" yaml:"file_offset"`
	MetaData          *ColumnMetaData `json:"meta_data,omitempty" yaml:"meta_data,omitempty"`
	OffsetIndexOffset *int64          `json:"offset_index_offset,omitempty" yaml:"offset_index_offset,omitempty"`
	OffsetIndexLength *int32          `json:"offset_index_length,omitempty" yaml:"offset_index_length,omitempty"`
	ColumnIndexOffset *int64          `json:"column_index_offset,omitempty" yaml:"column_index_offset,omitempty"`
	ColumnIndexLength *int32          `json:"column_index_length,omitempty" yaml:"column_index_length,omitempty"`
}

// ColumnMetaData describes the pages of a column chunk.
type ColumnMetaData struct {
	Type                  Type                `json:"type" yaml:"type"`
	Encodings             []Encoding          `json:"encodings" yaml:"encodings"`
	PathInSchema          []string            `json:"path_in_schema" yaml:"path_in_schema"`
	Codec                 CompressionCodec    `json:"codec" yaml:"codec"`
	NumValues             int64               `json:"num_values" yaml:"num_values"`
	TotalUncompressedSize int64               `json:"total_uncompressed_size" yaml:"total_uncompressed_size"`
	TotalCompressedSize   int64               `json:"total_compressed_size" yaml:"total_compressed_size"`
	KeyValueMetadata      KeyValueMetadata    `json:"key_value_metadata,omitempty" yaml:"key_value_metadata,omitempty"`
	DataPageOffset        int64               `json:"data_page_offset" yaml:"data_page_offset"`
	IndexPageOffset       *int64              `json:"index_page_offset,omitempty" yaml:"index_page_offset,omitempty"`
	DictionaryPageOffset  *int64              `json:"dictionary_page_offset,omitempty" yaml:"dictionary_page_offset,omitempty"`
	Statistics            *Statistics         `json:"statistics,omitempty" yaml:"statistics,omitempty"`
	EncodingStats         []PageEncodingStats `json:"encoding_stats,omitempty" yaml:"encoding_stats,omitempty"`
	BloomFilterOffset     *int64              `json:"bloom_filter_offset,omitempty" yaml:"bloom_filter_offset,omitempty"`
	BloomFilterLength     *int32              `json:"bloom_filter_length,omitempty" yaml:"bloom_filter_length,omitempty"`
	SizeStatistics        *SizeStatistics     `json:"size_statistics,omitempty" yaml:"size_statistics,omitempty"`
}

// StartOffset returns the offset of the first page of the chunk: the
// dictionary page if there is one, the first data page otherwise.
func (c *ColumnMetaData) StartOffset() int64 {
	if c.DictionaryPageOffset != nil && *c.DictionaryPageOffset > 0 && *c.DictionaryPageOffset < c.DataPageOffset {
		return *c.DictionaryPageOffset
	}
	return c.DataPageOffset
}

// Statistics are the column chunk statistics. The min and max values are
// kept in their plain encoded form, see DecodeStatValue.
type Statistics struct {
	Max             []byte `json:"max,omitempty" yaml:"max,omitempty"`
	Min             []byte `json:"min,omitempty" yaml:"min,omitempty"`
	NullCount       *int64 `json:"null_count,omitempty" yaml:"null_count,omitempty"`
	DistinctCount   *int64 `json:"distinct_count,omitempty" yaml:"distinct_count,omitempty"`
	MaxValue        []byte `json:"max_value,omitempty" yaml:"max_value,omitempty"`
	MinValue        []byte `json:"min_value,omitempty" yaml:"min_value,omitempty"`
	IsMaxValueExact *bool  `json:"is_max_value_exact,omitempty" yaml:"is_max_value_exact,omitempty"`
	IsMinValueExact *bool  `json:"is_min_value_exact,omitempty" yaml:"is_min_value_exact,omitempty"`
}

// PageEncodingStats counts the pages of a column chunk per page type and
// encoding.
type PageEncodingStats struct {
	PageType PageType `json:"page_type" yaml:"page_type"`
	Encoding Encoding `json:"encoding" yaml:"encoding"`
	Count    int32    `json:"count" yaml:"count"`
}

// SizeStatistics are the optional size and level histograms of a chunk.
type SizeStatistics struct {
	UnencodedByteArrayDataBytes *int64  `json:"unencoded_byte_array_data_bytes,omitempty" yaml:"unencoded_byte_array_data_bytes,omitempty"`
	RepetitionLevelHistogram    []int64 `json:"repetition_level_histogram,omitempty" yaml:"repetition_level_histogram,omitempty"`
	DefinitionLevelHistogram    []int64 `json:"definition_level_histogram,omitempty" yaml:"definition_level_histogram,omitempty"`
}

// ColumnOrder is the sort order used for the min/max statistics of a column.
// TYPE_ORDER is the only order defined by the format so far.
type ColumnOrder struct {
	TypeDefinedOrder bool `json:"type_defined_order" yaml:"type_defined_order"`
}
