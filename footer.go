package parquetmeta

import (
	"bytes"
	"encoding/binary"
)

var (
	magic          = []byte{'P', 'A', 'R', '1'}
	encryptedMagic = []byte{'P', 'A', 'R', 'E'}
)

// minFileSize is the head magic, the footer length and the tail magic.
const minFileSize = 12

// locateFooter validates the framing of a parquet file and returns the thrift
// encoded footer. The returned slice aliases data.
func locateFooter(data []byte, maxFooterSize int64) ([]byte, error) {
	size := int64(len(data))
	if size < minFileSize {
		return nil, formatErrorf("file is %d bytes, at least %d are required", size, minFileSize)
	}

	if !bytes.Equal(data[:4], magic) {
		return nil, formatErrorf("invalid parquet file header %q", data[:4])
	}

	tail := data[size-4:]
	if bytes.Equal(tail, encryptedMagic) {
		return nil, formatErrorf("file has an encrypted footer, which is not supported")
	}
	if !bytes.Equal(tail, magic) {
		return nil, formatErrorf("invalid parquet file footer %q", tail)
	}

	fl := int64(binary.LittleEndian.Uint32(data[size-8 : size-4]))
	if 8+fl > size {
		return nil, formatErrorf("footer length %d exceeds file size %d", fl, size)
	}
	if maxFooterSize > 0 && fl > maxFooterSize {
		return nil, formatErrorf("footer length %d exceeds the limit of %d bytes", fl, maxFooterSize)
	}

	return data[size-8-fl : size-8], nil
}
