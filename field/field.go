// Package field provides fluent builders for describing entity columns.
// A builder produces an immutable Descriptor that dialects map to their
// native SQL types:
//
//	desc := field.String("email").MaxLen(255).Descriptor()
//	fmt.Println(my.ColumnType(desc)) // varchar(255)
//
// Options a target dialect cannot express (e.g. unsigned integers on
// Postgres) are cleared by the dialect with a warning instead of failing.
package field

import "fmt"

// Type is the semantic storage type of a column.
type Type uint8

// Supported column types.
const (
	TypeInvalid Type = iota
	TypeBool
	TypeTime
	TypeBytes
	TypeUUID
	TypeJSON
	TypeEnum
	TypeString
	TypeText
	TypeInt
	TypeInt64
	TypeUint
	TypeUint64
	TypeFloat32
	TypeFloat64
)

var typeNames = [...]string{
	TypeInvalid: "invalid",
	TypeBool:    "bool",
	TypeTime:    "time",
	TypeBytes:   "bytes",
	TypeUUID:    "uuid",
	TypeJSON:    "json",
	TypeEnum:    "enum",
	TypeString:  "string",
	TypeText:    "text",
	TypeInt:     "int",
	TypeInt64:   "int64",
	TypeUint:    "uint",
	TypeUint64:  "uint64",
	TypeFloat32: "float32",
	TypeFloat64: "float64",
}

// String returns the name of the type.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("invalid(%d)", t)
}

// Numeric reports whether the type is an integer or floating point type.
func (t Type) Numeric() bool {
	return t.Integer() || t == TypeFloat32 || t == TypeFloat64
}

// Integer reports whether the type is an integer type.
func (t Type) Integer() bool {
	switch t {
	case TypeInt, TypeInt64, TypeUint, TypeUint64:
		return true
	}
	return false
}

// Valid reports whether the type is a known column type.
func (t Type) Valid() bool {
	return t > TypeInvalid && int(t) < len(typeNames)
}

// Descriptor describes one column: its semantic type plus the optional
// length, precision and representation flags the dialects consult when
// producing DDL. A Descriptor is immutable once returned by a builder.
type Descriptor struct {
	Name      string            // Column name.
	Type      Type              // Semantic type.
	Size      int               // Length for string/bytes types; 0 keeps the dialect default.
	Precision int               // Numeric precision, or fractional-seconds precision for time.
	Scale     int               // Numeric scale.
	Unsigned  bool              // Unsigned integer representation.
	ZeroFill  bool              // Zero-padded display (MySQL only).
	Fixed     bool              // Fixed-width character/binary type.
	Nillable  bool              // Column accepts NULL.
	Values    []string          // Permitted values for enum columns.
	SchemaTyp map[string]string // Per-dialect SQL type override, keyed by dialect name.
}

// builder is the state shared by all typed builders.
type builder struct {
	desc Descriptor
}

func (b *builder) descriptor() *Descriptor {
	d := b.desc
	if len(b.desc.Values) > 0 {
		d.Values = append([]string(nil), b.desc.Values...)
	}
	if len(b.desc.SchemaTyp) > 0 {
		d.SchemaTyp = make(map[string]string, len(b.desc.SchemaTyp))
		for k, v := range b.desc.SchemaTyp {
			d.SchemaTyp[k] = v
		}
	}
	return &d
}

// StringBuilder builds string columns.
type StringBuilder struct{ builder }

// String returns a builder for a variable length string column.
func String(name string) *StringBuilder {
	b := &StringBuilder{}
	b.desc = Descriptor{Name: name, Type: TypeString}
	return b
}

// Text returns a builder for an unbounded text column.
func Text(name string) *StringBuilder {
	b := &StringBuilder{}
	b.desc = Descriptor{Name: name, Type: TypeText}
	return b
}

// MaxLen sets the maximum length of the string.
func (b *StringBuilder) MaxLen(size int) *StringBuilder {
	b.desc.Size = size
	return b
}

// Fixed makes the column a fixed-width character type.
func (b *StringBuilder) Fixed() *StringBuilder {
	b.desc.Fixed = true
	return b
}

// Nillable allows NULL values.
func (b *StringBuilder) Nillable() *StringBuilder {
	b.desc.Nillable = true
	return b
}

// SchemaType overrides the SQL type per dialect.
func (b *StringBuilder) SchemaType(types map[string]string) *StringBuilder {
	b.desc.SchemaTyp = types
	return b
}

// Descriptor returns the immutable column descriptor.
func (b *StringBuilder) Descriptor() *Descriptor { return b.descriptor() }

// IntBuilder builds integer columns.
type IntBuilder struct{ builder }

// Int returns a builder for a 32-bit integer column.
func Int(name string) *IntBuilder {
	b := &IntBuilder{}
	b.desc = Descriptor{Name: name, Type: TypeInt}
	return b
}

// Int64 returns a builder for a 64-bit integer column.
func Int64(name string) *IntBuilder {
	b := &IntBuilder{}
	b.desc = Descriptor{Name: name, Type: TypeInt64}
	return b
}

// Uint returns a builder for an unsigned 32-bit integer column.
func Uint(name string) *IntBuilder {
	b := &IntBuilder{}
	b.desc = Descriptor{Name: name, Type: TypeUint, Unsigned: true}
	return b
}

// Uint64 returns a builder for an unsigned 64-bit integer column.
func Uint64(name string) *IntBuilder {
	b := &IntBuilder{}
	b.desc = Descriptor{Name: name, Type: TypeUint64, Unsigned: true}
	return b
}

// ZeroFill enables zero-padded display. Only MySQL honors it.
func (b *IntBuilder) ZeroFill() *IntBuilder {
	b.desc.ZeroFill = true
	return b
}

// Nillable allows NULL values.
func (b *IntBuilder) Nillable() *IntBuilder {
	b.desc.Nillable = true
	return b
}

// SchemaType overrides the SQL type per dialect.
func (b *IntBuilder) SchemaType(types map[string]string) *IntBuilder {
	b.desc.SchemaTyp = types
	return b
}

// Descriptor returns the immutable column descriptor.
func (b *IntBuilder) Descriptor() *Descriptor { return b.descriptor() }

// FloatBuilder builds floating point and fixed precision columns.
type FloatBuilder struct{ builder }

// Float returns a builder for a 64-bit floating point column.
func Float(name string) *FloatBuilder {
	b := &FloatBuilder{}
	b.desc = Descriptor{Name: name, Type: TypeFloat64}
	return b
}

// Float32 returns a builder for a 32-bit floating point column.
func Float32(name string) *FloatBuilder {
	b := &FloatBuilder{}
	b.desc = Descriptor{Name: name, Type: TypeFloat32}
	return b
}

// Precision sets a fixed numeric precision and scale, producing a
// DECIMAL/NUMERIC column where supported.
func (b *FloatBuilder) Precision(precision, scale int) *FloatBuilder {
	b.desc.Precision = precision
	b.desc.Scale = scale
	return b
}

// Nillable allows NULL values.
func (b *FloatBuilder) Nillable() *FloatBuilder {
	b.desc.Nillable = true
	return b
}

// SchemaType overrides the SQL type per dialect.
func (b *FloatBuilder) SchemaType(types map[string]string) *FloatBuilder {
	b.desc.SchemaTyp = types
	return b
}

// Descriptor returns the immutable column descriptor.
func (b *FloatBuilder) Descriptor() *Descriptor { return b.descriptor() }

// BoolBuilder builds boolean columns.
type BoolBuilder struct{ builder }

// Bool returns a builder for a boolean column.
func Bool(name string) *BoolBuilder {
	b := &BoolBuilder{}
	b.desc = Descriptor{Name: name, Type: TypeBool}
	return b
}

// Nillable allows NULL values.
func (b *BoolBuilder) Nillable() *BoolBuilder {
	b.desc.Nillable = true
	return b
}

// Descriptor returns the immutable column descriptor.
func (b *BoolBuilder) Descriptor() *Descriptor { return b.descriptor() }

// TimeBuilder builds date/time columns.
type TimeBuilder struct{ builder }

// Time returns a builder for a timestamp column.
func Time(name string) *TimeBuilder {
	b := &TimeBuilder{}
	b.desc = Descriptor{Name: name, Type: TypeTime}
	return b
}

// Precision sets the fractional-seconds precision. Dialects clamp it to
// their supported range.
func (b *TimeBuilder) Precision(fsp int) *TimeBuilder {
	b.desc.Precision = fsp
	return b
}

// Nillable allows NULL values.
func (b *TimeBuilder) Nillable() *TimeBuilder {
	b.desc.Nillable = true
	return b
}

// SchemaType overrides the SQL type per dialect.
func (b *TimeBuilder) SchemaType(types map[string]string) *TimeBuilder {
	b.desc.SchemaTyp = types
	return b
}

// Descriptor returns the immutable column descriptor.
func (b *TimeBuilder) Descriptor() *Descriptor { return b.descriptor() }

// BytesBuilder builds binary columns.
type BytesBuilder struct{ builder }

// Bytes returns a builder for a binary column.
func Bytes(name string) *BytesBuilder {
	b := &BytesBuilder{}
	b.desc = Descriptor{Name: name, Type: TypeBytes}
	return b
}

// MaxLen sets the maximum length in bytes.
func (b *BytesBuilder) MaxLen(size int) *BytesBuilder {
	b.desc.Size = size
	return b
}

// Fixed makes the column a fixed-width binary type.
func (b *BytesBuilder) Fixed() *BytesBuilder {
	b.desc.Fixed = true
	return b
}

// Nillable allows NULL values.
func (b *BytesBuilder) Nillable() *BytesBuilder {
	b.desc.Nillable = true
	return b
}

// Descriptor returns the immutable column descriptor.
func (b *BytesBuilder) Descriptor() *Descriptor { return b.descriptor() }

// UUIDBuilder builds UUID columns.
type UUIDBuilder struct{ builder }

// UUID returns a builder for a UUID column.
func UUID(name string) *UUIDBuilder {
	b := &UUIDBuilder{}
	b.desc = Descriptor{Name: name, Type: TypeUUID}
	return b
}

// Nillable allows NULL values.
func (b *UUIDBuilder) Nillable() *UUIDBuilder {
	b.desc.Nillable = true
	return b
}

// Descriptor returns the immutable column descriptor.
func (b *UUIDBuilder) Descriptor() *Descriptor { return b.descriptor() }

// JSONBuilder builds JSON document columns.
type JSONBuilder struct{ builder }

// JSON returns a builder for a JSON column.
func JSON(name string) *JSONBuilder {
	b := &JSONBuilder{}
	b.desc = Descriptor{Name: name, Type: TypeJSON}
	return b
}

// Nillable allows NULL values.
func (b *JSONBuilder) Nillable() *JSONBuilder {
	b.desc.Nillable = true
	return b
}

// Descriptor returns the immutable column descriptor.
func (b *JSONBuilder) Descriptor() *Descriptor { return b.descriptor() }

// EnumBuilder builds enumerated columns.
type EnumBuilder struct{ builder }

// Enum returns a builder for an enum column.
func Enum(name string) *EnumBuilder {
	b := &EnumBuilder{}
	b.desc = Descriptor{Name: name, Type: TypeEnum}
	return b
}

// Values sets the permitted values.
func (b *EnumBuilder) Values(values ...string) *EnumBuilder {
	b.desc.Values = values
	return b
}

// Nillable allows NULL values.
func (b *EnumBuilder) Nillable() *EnumBuilder {
	b.desc.Nillable = true
	return b
}

// Descriptor returns the immutable column descriptor.
func (b *EnumBuilder) Descriptor() *Descriptor { return b.descriptor() }
