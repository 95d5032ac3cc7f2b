package parquetmeta

// CompressionCodec is the codec a column chunk's pages are compressed with.
// The reader only reports it; pages are never decompressed.
type CompressionCodec int32

const (
	CompressionCodecUncompressed CompressionCodec = 0
	CompressionCodecSnappy       CompressionCodec = 1
	CompressionCodecGzip         CompressionCodec = 2
	CompressionCodecLZO          CompressionCodec = 3
	CompressionCodecBrotli       CompressionCodec = 4
	CompressionCodecLZ4          CompressionCodec = 5
	CompressionCodecZstd         CompressionCodec = 6
	CompressionCodecLZ4Raw       CompressionCodec = 7
)

var codecNames = map[CompressionCodec]string{
	CompressionCodecUncompressed: "UNCOMPRESSED",
	CompressionCodecSnappy:       "SNAPPY",
	CompressionCodecGzip:         "GZIP",
	CompressionCodecLZO:          "LZO",
	CompressionCodecBrotli:       "BROTLI",
	CompressionCodecLZ4:          "LZ4",
	CompressionCodecZstd:         "ZSTD",
	CompressionCodecLZ4Raw:       "LZ4_RAW",
}

func (c CompressionCodec) String() string {
	return enumName(codecNames, c)
}

// MarshalText implements encoding.TextMarshaler.
func (c CompressionCodec) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// CompressionCodecFromString returns the codec with the given name.
func CompressionCodecFromString(s string) (CompressionCodec, error) {
	return enumFromString(codecNames, s)
}

func (c CompressionCodec) valid() bool {
	return c >= CompressionCodecUncompressed && c <= CompressionCodecLZ4Raw
}
