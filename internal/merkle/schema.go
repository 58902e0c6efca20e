package merkle

import (
	"encoding/binary"
	"errors"
	"fmt"

	ssz "github.com/ferranbt/fastssz"
)

// ErrSchemaMismatch is returned when the values handed to a schema do not
// match its field description
var ErrSchemaMismatch = errors.New("schema mismatch")

// Kind is the ssz type of a container field
type Kind int

const (
	// Uint is an unsigned integer, Size is the bit width
	Uint Kind = iota

	// Vector is a fixed length byte vector, Size is the length in bytes
	Vector
)

func (k Kind) String() string {
	switch k {
	case Uint:
		return "uint"
	case Vector:
		return "vector"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Field is a single named entry of a fixed size container
type Field struct {
	Name string
	Kind Kind
	Size int
}

// Uint64 describes an uint64 field
func Uint64(name string) Field {
	return Field{Name: name, Kind: Uint, Size: 64}
}

// Bytes describes a byte vector field of size bytes
func Bytes(name string, size int) Field {
	return Field{Name: name, Kind: Vector, Size: size}
}

// Schema is the ordered description of a fixed size container. The order
// of the fields is part of the container identity.
type Schema struct {
	Name   string
	Fields []Field
}

// NewSchema creates a schema for the given fields
func NewSchema(name string, fields ...Field) *Schema {
	return &Schema{
		Name:   name,
		Fields: fields,
	}
}

// HashTreeRoot computes the ssz hash tree root of the container with the given
// field values. Values are matched positionally with the schema fields.
func (s *Schema) HashTreeRoot(values ...interface{}) ([32]byte, error) {
	if len(values) != len(s.Fields) {
		return [32]byte{}, fmt.Errorf("%w: %s expects %d values but %d were given", ErrSchemaMismatch, s.Name, len(s.Fields), len(values))
	}

	hh := ssz.DefaultHasherPool.Get()
	defer ssz.DefaultHasherPool.Put(hh)

	indx := hh.Index()
	for i, field := range s.Fields {
		if err := s.put(hh, field, values[i]); err != nil {
			return [32]byte{}, err
		}
	}
	hh.Merkleize(indx)

	return hh.HashRoot()
}

func (s *Schema) put(hh *ssz.Hasher, field Field, val interface{}) error {
	switch field.Kind {
	case Uint:
		num, ok := toUint64(val)
		if !ok {
			return fmt.Errorf("%w: %s.%s expects an unsigned integer, found %T", ErrSchemaMismatch, s.Name, field.Name, val)
		}
		if field.Size < 64 && num>>uint(field.Size) != 0 {
			return fmt.Errorf("%w: %s.%s value %d overflows uint%d", ErrSchemaMismatch, s.Name, field.Name, num, field.Size)
		}
		switch field.Size {
		case 8:
			hh.PutUint8(uint8(num))
		case 16:
			buf := make([]byte, 2)
			binary.LittleEndian.PutUint16(buf, uint16(num))
			hh.PutBytes(buf)
		case 32:
			hh.PutUint32(uint32(num))
		case 64:
			hh.PutUint64(num)
		default:
			return fmt.Errorf("%w: %s.%s has unsupported width %d", ErrSchemaMismatch, s.Name, field.Name, field.Size)
		}

	case Vector:
		buf, ok := val.([]byte)
		if !ok {
			return fmt.Errorf("%w: %s.%s expects bytes, found %T", ErrSchemaMismatch, s.Name, field.Name, val)
		}
		if len(buf) != field.Size {
			return fmt.Errorf("%w: %s.%s expects %d bytes but found %d", ErrSchemaMismatch, s.Name, field.Name, field.Size, len(buf))
		}
		// vectors over 32 bytes are merkleized over their own chunks
		hh.PutBytes(buf)

	default:
		return fmt.Errorf("%w: %s.%s has unknown kind %s", ErrSchemaMismatch, s.Name, field.Name, field.Kind)
	}
	return nil
}

func toUint64(val interface{}) (uint64, bool) {
	switch obj := val.(type) {
	case uint64:
		return obj, true
	case uint32:
		return uint64(obj), true
	case uint16:
		return uint64(obj), true
	case uint8:
		return uint64(obj), true
	case uint:
		return uint64(obj), true
	default:
		return 0, false
	}
}
