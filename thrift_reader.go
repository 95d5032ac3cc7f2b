package parquetmeta

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/apache/thrift/lib/go/thrift"
)

// thriftReader decodes thrift compact encoded structs from an in-memory
// footer. Every declared length is checked against the bytes left in the
// footer before anything is allocated or read, and every error is returned as
// a *DecodeError carrying the path of the field being read.
type thriftReader struct {
	ctx   context.Context
	trans *thrift.TMemoryBuffer
	proto *thrift.TCompactProtocol
	size  int
	path  []string
}

func newThriftReader(data []byte) *thriftReader {
	trans := thrift.NewTMemoryBufferLen(len(data))
	_, _ = trans.Write(data)

	// strings and lists can never be longer than the footer itself.
	limit := len(data)
	if limit > math.MaxInt32 {
		limit = math.MaxInt32
	}
	if limit < 1 {
		limit = 1
	}
	cfg := &thrift.TConfiguration{
		MaxMessageSize: int32(limit),
		MaxFrameSize:   int32(limit),
	}

	return &thriftReader{
		ctx:   context.Background(),
		trans: trans,
		proto: thrift.NewTCompactProtocolConf(trans, cfg),
		size:  len(data),
	}
}

func (r *thriftReader) remaining() uint64 {
	return r.trans.RemainingBytes()
}

func (r *thriftReader) offset() int {
	return r.size - int(r.remaining())
}

func (r *thriftReader) push(name string) {
	r.path = append(r.path, name)
}

func (r *thriftReader) pop() {
	r.path = r.path[:len(r.path)-1]
}

func (r *thriftReader) fieldPath() string {
	var sb strings.Builder
	for i, p := range r.path {
		if i > 0 && !strings.HasPrefix(p, "[") {
			sb.WriteByte('.')
		}
		sb.WriteString(p)
	}
	return sb.String()
}

// fail wraps err into a *DecodeError at the current position. Errors that
// already are decode errors are passed through unchanged.
func (r *thriftReader) fail(err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		return err
	}
	return &DecodeError{
		Field:  r.fieldPath(),
		Offset: r.offset(),
		Err:    err,
	}
}

func (r *thriftReader) errorf(format string, args ...interface{}) error {
	return r.fail(fmt.Errorf(format, args...))
}

func (r *thriftReader) expect(got, want thrift.TType) error {
	if got != want {
		return r.errorf("unexpected wire type %s, expected %s", got, want)
	}
	return nil
}

// readStruct reads one struct, calling field for every field header. field
// must consume the field value, usually through one of the typed helpers or
// skip.
func (r *thriftReader) readStruct(field func(id int16, typ thrift.TType) error) error {
	if _, err := r.proto.ReadStructBegin(r.ctx); err != nil {
		return r.fail(err)
	}

	for {
		_, typ, id, err := r.proto.ReadFieldBegin(r.ctx)
		if err != nil {
			return r.fail(err)
		}
		if typ == thrift.STOP {
			break
		}

		if err := field(id, typ); err != nil {
			return r.fail(err)
		}

		if err := r.proto.ReadFieldEnd(r.ctx); err != nil {
			return r.fail(err)
		}
	}

	if err := r.proto.ReadStructEnd(r.ctx); err != nil {
		return r.fail(err)
	}
	return nil
}

// nested reads a struct valued field.
func (r *thriftReader) nested(name string, typ thrift.TType, field func(id int16, typ thrift.TType) error) error {
	r.push(name)
	defer r.pop()

	if err := r.expect(typ, thrift.STRUCT); err != nil {
		return err
	}
	return r.readStruct(field)
}

// skip consumes a field this reader does not know about.
func (r *thriftReader) skip(typ thrift.TType) error {
	if err := r.proto.Skip(r.ctx, typ); err != nil {
		return r.fail(err)
	}
	return nil
}

// list reads a list valued field whose elements are of type elem and calls
// fn for each element.
func (r *thriftReader) list(name string, typ, elem thrift.TType, fn func(i int) error) error {
	r.push(name)
	defer r.pop()

	if typ != thrift.SET {
		if err := r.expect(typ, thrift.LIST); err != nil {
			return err
		}
	}

	elemType, size, err := r.proto.ReadListBegin(r.ctx)
	if err != nil {
		return r.fail(err)
	}
	if size < 0 {
		return r.errorf("negative list length %d", size)
	}
	// every element takes at least one byte.
	if uint64(size) > r.remaining() {
		return r.errorf("list length %d exceeds the %d bytes left in the footer", size, r.remaining())
	}
	if size > 0 {
		if err := r.expect(elemType, elem); err != nil {
			return err
		}
	}

	for i := 0; i < size; i++ {
		r.push("[" + strconv.Itoa(i) + "]")
		err := fn(i)
		r.pop()
		if err != nil {
			return r.fail(err)
		}
	}

	if err := r.proto.ReadListEnd(r.ctx); err != nil {
		return r.fail(err)
	}
	return nil
}

func (r *thriftReader) i8(name string, typ thrift.TType) (int8, error) {
	r.push(name)
	defer r.pop()

	if err := r.expect(typ, thrift.BYTE); err != nil {
		return 0, err
	}
	v, err := r.proto.ReadByte(r.ctx)
	if err != nil {
		return 0, r.fail(err)
	}
	return v, nil
}

func (r *thriftReader) i16(name string, typ thrift.TType) (int16, error) {
	r.push(name)
	defer r.pop()

	if err := r.expect(typ, thrift.I16); err != nil {
		return 0, err
	}
	v, err := r.proto.ReadI16(r.ctx)
	if err != nil {
		return 0, r.fail(err)
	}
	return v, nil
}

func (r *thriftReader) i32(name string, typ thrift.TType) (int32, error) {
	r.push(name)
	defer r.pop()

	if err := r.expect(typ, thrift.I32); err != nil {
		return 0, err
	}
	v, err := r.proto.ReadI32(r.ctx)
	if err != nil {
		return 0, r.fail(err)
	}
	return v, nil
}

func (r *thriftReader) i64(name string, typ thrift.TType) (int64, error) {
	r.push(name)
	defer r.pop()

	if err := r.expect(typ, thrift.I64); err != nil {
		return 0, err
	}
	v, err := r.proto.ReadI64(r.ctx)
	if err != nil {
		return 0, r.fail(err)
	}
	return v, nil
}

func (r *thriftReader) boolean(name string, typ thrift.TType) (bool, error) {
	r.push(name)
	defer r.pop()

	if err := r.expect(typ, thrift.BOOL); err != nil {
		return false, err
	}
	v, err := r.proto.ReadBool(r.ctx)
	if err != nil {
		return false, r.fail(err)
	}
	return v, nil
}

func (r *thriftReader) binary(name string, typ thrift.TType) ([]byte, error) {
	r.push(name)
	defer r.pop()

	if err := r.expect(typ, thrift.STRING); err != nil {
		return nil, err
	}
	v, err := r.proto.ReadBinary(r.ctx)
	if err != nil {
		return nil, r.fail(err)
	}
	return v, nil
}

func (r *thriftReader) str(name string, typ thrift.TType) (string, error) {
	r.push(name)
	defer r.pop()

	if err := r.expect(typ, thrift.STRING); err != nil {
		return "", err
	}
	v, err := r.proto.ReadString(r.ctx)
	if err != nil {
		return "", r.fail(err)
	}
	return v, nil
}

// readEnum reads an i32 enum value and rejects values outside of its range.
func readEnum[E ~int32](r *thriftReader, name string, typ thrift.TType, valid func(E) bool) (E, error) {
	v, err := r.i32(name, typ)
	if err != nil {
		return 0, err
	}
	e := E(v)
	if !valid(e) {
		r.push(name)
		defer r.pop()
		return 0, r.errorf("enum value %d out of range", v)
	}
	return e, nil
}

// element readers for lists.

func (r *thriftReader) readI64() (int64, error) {
	v, err := r.proto.ReadI64(r.ctx)
	if err != nil {
		return 0, r.fail(err)
	}
	return v, nil
}

func (r *thriftReader) readI32() (int32, error) {
	v, err := r.proto.ReadI32(r.ctx)
	if err != nil {
		return 0, r.fail(err)
	}
	return v, nil
}

func (r *thriftReader) readString() (string, error) {
	v, err := r.proto.ReadString(r.ctx)
	if err != nil {
		return "", r.fail(err)
	}
	return v, nil
}
