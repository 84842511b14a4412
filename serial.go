package lambdacalc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strconv"
	"unicode/utf8"

	"github.com/unixpickle/serializer"
)

// formatVersion is the version marker written with every node.
const formatVersion uint16 = 1

const typePrefix = "github.com/dylnb/lambdacalc."

func init() {
	serializer.RegisterTypedDeserializer((&record{}).SerializerType(), deserializeRecord)
	serializer.RegisterTypedDeserializer(exprList(nil).SerializerType(), deserializeExprList)
	serializer.RegisterTypedDeserializer(typeList(nil).SerializerType(), deserializeTypeList)

	serializer.RegisterTypedDeserializer((&Atomic{}).SerializerType(), deserializeAtomic)
	serializer.RegisterTypedDeserializer((&TypeVar{}).SerializerType(), deserializeTypeVar)
	serializer.RegisterTypedDeserializer((&Composite{}).SerializerType(), deserializeComposite)
	serializer.RegisterTypedDeserializer((&Product{}).SerializerType(), deserializeProduct)

	serializer.RegisterTypedDeserializer((&Ident{}).SerializerType(), deserializeIdent)
	serializer.RegisterTypedDeserializer((&Binder{}).SerializerType(), deserializeBinder)
	serializer.RegisterTypedDeserializer((&Binary{}).SerializerType(), deserializeBinary)
	serializer.RegisterTypedDeserializer((&Unary{}).SerializerType(), deserializeUnary)
	serializer.RegisterTypedDeserializer((&NAry{}).SerializerType(), deserializeNAry)
	serializer.RegisterTypedDeserializer((&GApp{}).SerializerType(), deserializeGApp)
}

// MarshalExpr encodes e with its variant names and version markers. The
// result is ErrNotSerializable if e contains a meaning bracket.
func MarshalExpr(e Expr) ([]byte, error) {
	if HasMeaningBrackets(e) {
		return nil, ErrNotSerializable
	}
	return serializer.SerializeAny(e)
}

// UnmarshalExpr decodes an expression encoded by MarshalExpr.
func UnmarshalExpr(d []byte) (Expr, error) {
	var e Expr
	if err := serializer.DeserializeAny(d, &e); err != nil {
		return nil, err
	}
	return e, nil
}

// MarshalType encodes t.
func MarshalType(t Type) ([]byte, error) {
	return serializer.SerializeAny(t)
}

// UnmarshalType decodes a type encoded by MarshalType.
func UnmarshalType(d []byte) (Type, error) {
	var t Type
	if err := serializer.DeserializeAny(d, &t); err != nil {
		return nil, err
	}
	return t, nil
}

// SaveExprs writes a sequence of expressions to a file.
func SaveExprs(path string, es []Expr) error {
	for _, e := range es {
		if HasMeaningBrackets(e) {
			return ErrNotSerializable
		}
	}
	return serializer.SaveAny(path, exprList(es))
}

// LoadExprs reads expressions written by SaveExprs.
func LoadExprs(path string) ([]Expr, error) {
	var l exprList
	if err := serializer.LoadAny(path, &l); err != nil {
		return nil, err
	}
	return l, nil
}

// record is the header of a serialized node: the version marker and the
// node's scalar fields.
type record struct {
	version uint16
	fields  []string
}

func header(fields ...string) *record {
	return &record{version: formatVersion, fields: fields}
}

func (r *record) SerializerType() string { return typePrefix + "record" }

func (r *record) Serialize() ([]byte, error) {
	var b bytes.Buffer
	binary.Write(&b, binary.LittleEndian, r.version)
	binary.Write(&b, binary.LittleEndian, uint32(len(r.fields)))
	for _, f := range r.fields {
		binary.Write(&b, binary.LittleEndian, uint32(len(f)))
		b.WriteString(f)
	}
	return b.Bytes(), nil
}

var errShortRecord = errors.New("lambdacalc: truncated record")

func deserializeRecord(d []byte) (*record, error) {
	rd := bytes.NewReader(d)
	var r record
	var n uint32
	if err := binary.Read(rd, binary.LittleEndian, &r.version); err != nil {
		return nil, errShortRecord
	}
	if err := binary.Read(rd, binary.LittleEndian, &n); err != nil {
		return nil, errShortRecord
	}
	if int64(n) > int64(rd.Len()) {
		return nil, errShortRecord
	}
	r.fields = make([]string, n)
	for i := range r.fields {
		var k uint32
		if err := binary.Read(rd, binary.LittleEndian, &k); err != nil {
			return nil, errShortRecord
		}
		if int64(k) > int64(rd.Len()) {
			return nil, errShortRecord
		}
		s := make([]byte, k)
		rd.Read(s)
		r.fields[i] = string(s)
	}
	return &r, nil
}

// check validates the version marker and field count of a record read for the
// variant named typ.
func (r *record) check(typ string, fields int) error {
	if r.version != formatVersion {
		return &FormatVersionError{Type: typ, Version: r.version}
	}
	if len(r.fields) != fields {
		return errors.New("lambdacalc: malformed " + typ + " record")
	}
	return nil
}

// exprList is a serializable sequence of expressions, written as a count
// followed by the expressions.
type exprList []Expr

func (l exprList) SerializerType() string { return typePrefix + "exprList" }

func (l exprList) Serialize() ([]byte, error) {
	objs := make([]interface{}, len(l))
	for i, e := range l {
		objs[i] = e
	}
	return serializeList(objs)
}

func deserializeExprList(d []byte) (exprList, error) {
	n, rest, err := listCount(d)
	if err != nil {
		return nil, err
	}
	l := make(exprList, n)
	outs := make([]interface{}, n)
	for i := range l {
		outs[i] = &l[i]
	}
	if n > 0 {
		if err := serializer.DeserializeAny(rest, outs...); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// typeList is a serializable sequence of types.
type typeList []Type

func (l typeList) SerializerType() string { return typePrefix + "typeList" }

func (l typeList) Serialize() ([]byte, error) {
	objs := make([]interface{}, len(l))
	for i, t := range l {
		objs[i] = t
	}
	return serializeList(objs)
}

func deserializeTypeList(d []byte) (typeList, error) {
	n, rest, err := listCount(d)
	if err != nil {
		return nil, err
	}
	l := make(typeList, n)
	outs := make([]interface{}, n)
	for i := range l {
		outs[i] = &l[i]
	}
	if n > 0 {
		if err := serializer.DeserializeAny(rest, outs...); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func serializeList(objs []interface{}) ([]byte, error) {
	var b bytes.Buffer
	binary.Write(&b, binary.LittleEndian, uint32(len(objs)))
	if len(objs) > 0 {
		d, err := serializer.SerializeAny(objs...)
		if err != nil {
			return nil, err
		}
		b.Write(d)
	}
	return b.Bytes(), nil
}

func listCount(d []byte) (int, []byte, error) {
	if len(d) < 4 {
		return 0, nil, errShortRecord
	}
	n := binary.LittleEndian.Uint32(d)
	if int64(n) > int64(len(d)) {
		return 0, nil, errShortRecord
	}
	return int(n), d[4:], nil
}

// symbolField decodes a type symbol.
func symbolField(s string) (rune, error) {
	r, sz := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || sz != len(s) {
		return 0, errors.New("lambdacalc: bad type symbol " + strconv.Quote(s))
	}
	return r, nil
}

// intField decodes an operator or index field.
func intField(s string, lo, hi int) (int, error) {
	k, err := strconv.Atoi(s)
	if err != nil || k < lo || k > hi {
		return 0, errors.New("lambdacalc: bad field " + strconv.Quote(s))
	}
	return k, nil
}

func (t *Atomic) SerializerType() string    { return typePrefix + "Atomic" }
func (t *TypeVar) SerializerType() string   { return typePrefix + "TypeVar" }
func (t *Composite) SerializerType() string { return typePrefix + "Composite" }
func (t *Product) SerializerType() string   { return typePrefix + "Product" }

func (t *Atomic) Serialize() ([]byte, error) {
	return serializer.SerializeAny(header(string(t.sym)))
}

func (t *TypeVar) Serialize() ([]byte, error) {
	return serializer.SerializeAny(header(string(t.sym)))
}

func (t *Composite) Serialize() ([]byte, error) {
	return serializer.SerializeAny(header(), t.left, t.right)
}

func (t *Product) Serialize() ([]byte, error) {
	return serializer.SerializeAny(header(), typeList(t.subs))
}

func deserializeAtomic(d []byte) (*Atomic, error) {
	var r *record
	if err := serializer.DeserializeAny(d, &r); err != nil {
		return nil, err
	}
	if err := r.check("Atomic", 1); err != nil {
		return nil, err
	}
	sym, err := symbolField(r.fields[0])
	if err != nil {
		return nil, err
	}
	return NewAtomic(sym), nil
}

func deserializeTypeVar(d []byte) (*TypeVar, error) {
	var r *record
	if err := serializer.DeserializeAny(d, &r); err != nil {
		return nil, err
	}
	if err := r.check("TypeVar", 1); err != nil {
		return nil, err
	}
	sym, err := symbolField(r.fields[0])
	if err != nil {
		return nil, err
	}
	return NewTypeVar(sym), nil
}

func deserializeComposite(d []byte) (*Composite, error) {
	var r *record
	var left, right Type
	if err := serializer.DeserializeAny(d, &r, &left, &right); err != nil {
		return nil, err
	}
	if err := r.check("Composite", 0); err != nil {
		return nil, err
	}
	return NewComposite(left, right), nil
}

func deserializeProduct(d []byte) (*Product, error) {
	var r *record
	var subs typeList
	if err := serializer.DeserializeAny(d, &r, &subs); err != nil {
		return nil, err
	}
	if err := r.check("Product", 0); err != nil {
		return nil, err
	}
	if len(subs) < 2 {
		return nil, errors.New("lambdacalc: product type with fewer than two subtypes")
	}
	return NewProduct(subs...), nil
}

func (id *Ident) SerializerType() string          { return typePrefix + "Ident" }
func (x *Binder) SerializerType() string          { return typePrefix + "Binder" }
func (x *Binary) SerializerType() string          { return typePrefix + "Binary" }
func (x *Unary) SerializerType() string           { return typePrefix + "Unary" }
func (x *NAry) SerializerType() string            { return typePrefix + "NAry" }
func (x *GApp) SerializerType() string            { return typePrefix + "GApp" }
func (x *MeaningBracket) SerializerType() string { return typePrefix + "MeaningBracket" }

func (id *Ident) Serialize() ([]byte, error) {
	flags := "v"
	if id.constant {
		flags = "c"
	}
	if id.explicit {
		flags += "x"
	}
	return serializer.SerializeAny(header(id.name, flags), id.typ)
}

func (x *Binder) Serialize() ([]byte, error) {
	return serializer.SerializeAny(header(strconv.Itoa(int(x.op))), x.v, x.body)
}

func (x *Binary) Serialize() ([]byte, error) {
	return serializer.SerializeAny(header(strconv.Itoa(int(x.op))), x.left, x.right)
}

func (x *Unary) Serialize() ([]byte, error) {
	return serializer.SerializeAny(header(strconv.Itoa(int(x.op))), x.x)
}

func (x *NAry) Serialize() ([]byte, error) {
	return serializer.SerializeAny(header(strconv.Itoa(int(x.op))), exprList(x.elems))
}

func (x *GApp) Serialize() ([]byte, error) {
	return serializer.SerializeAny(header(strconv.Itoa(x.index)), x.typ)
}

// Serialize always fails: a meaning bracket refers to a logical form node,
// which is not part of the expression.
func (x *MeaningBracket) Serialize() ([]byte, error) {
	return nil, ErrNotSerializable
}

func deserializeIdent(d []byte) (*Ident, error) {
	var r *record
	var t Type
	if err := serializer.DeserializeAny(d, &r, &t); err != nil {
		return nil, err
	}
	if err := r.check("Ident", 2); err != nil {
		return nil, err
	}
	id := &Ident{name: r.fields[0], typ: t}
	switch r.fields[1] {
	case "v":
	case "vx":
		id.explicit = true
	case "c":
		id.constant = true
	case "cx":
		id.constant, id.explicit = true, true
	default:
		return nil, errors.New("lambdacalc: bad identifier flags " + strconv.Quote(r.fields[1]))
	}
	return id, nil
}

func deserializeBinder(d []byte) (*Binder, error) {
	var r *record
	var v *Ident
	var body Expr
	if err := serializer.DeserializeAny(d, &r, &v, &body); err != nil {
		return nil, err
	}
	if err := r.check("Binder", 1); err != nil {
		return nil, err
	}
	op, err := intField(r.fields[0], int(Lambda), int(Gamma))
	if err != nil {
		return nil, err
	}
	return NewBinder(BinderOp(op), v, body), nil
}

func deserializeBinary(d []byte) (*Binary, error) {
	var r *record
	var left, right Expr
	if err := serializer.DeserializeAny(d, &r, &left, &right); err != nil {
		return nil, err
	}
	if err := r.check("Binary", 1); err != nil {
		return nil, err
	}
	op, err := intField(r.fields[0], int(FunApp), int(SetWithGenerator))
	if err != nil {
		return nil, err
	}
	return NewBinary(BinaryOp(op), left, right), nil
}

func deserializeUnary(d []byte) (*Unary, error) {
	var r *record
	var x Expr
	if err := serializer.DeserializeAny(d, &r, &x); err != nil {
		return nil, err
	}
	if err := r.check("Unary", 1); err != nil {
		return nil, err
	}
	op, err := intField(r.fields[0], int(Not), int(Cardinality))
	if err != nil {
		return nil, err
	}
	return NewUnary(UnaryOp(op), x), nil
}

func deserializeNAry(d []byte) (*NAry, error) {
	var r *record
	var elems exprList
	if err := serializer.DeserializeAny(d, &r, &elems); err != nil {
		return nil, err
	}
	if err := r.check("NAry", 1); err != nil {
		return nil, err
	}
	op, err := intField(r.fields[0], int(ArgList), int(SetWithElements))
	if err != nil {
		return nil, err
	}
	if NAryOp(op) == ArgList && len(elems) < 2 {
		return nil, errors.New("lambdacalc: argument list with fewer than two elements")
	}
	return &NAry{op: NAryOp(op), elems: elems}, nil
}

func deserializeGApp(d []byte) (*GApp, error) {
	var r *record
	var t Type
	if err := serializer.DeserializeAny(d, &r, &t); err != nil {
		return nil, err
	}
	if err := r.check("GApp", 1); err != nil {
		return nil, err
	}
	k, err := strconv.Atoi(r.fields[0])
	if err != nil {
		return nil, errors.New("lambdacalc: bad assignment index " + strconv.Quote(r.fields[0]))
	}
	return NewGApp(k, t), nil
}
