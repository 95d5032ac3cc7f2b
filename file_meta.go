package parquetmeta

type readerOptions struct {
	maxFooterSize int64
}

// ReaderOption configures ReadParquet.
type ReaderOption func(*readerOptions)

// WithMaxFooterSize rejects files whose footer is larger than n bytes with a
// FormatError. Zero or less means no limit.
func WithMaxFooterSize(n int64) ReaderOption {
	return func(o *readerOptions) {
		o.maxFooterSize = n
	}
}

// ReadParquet decodes the metadata of the complete parquet file held in data.
// It does not read any row data. The returned metadata does not alias data.
//
// Errors are of type *FormatError, *DecodeError or *SchemaError and match
// ErrFormat, ErrDecode and ErrSchema respectively. ReadParquet has no shared
// state and can be called concurrently.
func ReadParquet(data []byte, opts ...ReaderOption) (*FileMetaData, error) {
	var o readerOptions
	for _, opt := range opts {
		opt(&o)
	}

	footer, err := locateFooter(data, o.maxFooterSize)
	if err != nil {
		return nil, err
	}

	meta, elements, err := decodeFileMetaData(footer, int64(len(data)))
	if err != nil {
		return nil, err
	}

	schema, err := resolveSchema(elements, meta.RowGroups)
	if err != nil {
		return nil, err
	}
	meta.Schema = schema

	return meta, nil
}
