package codec

import "reflect"

// Table maps Go types to codecs. It is immutable once built.
type Table struct {
	codecs map[reflect.Type]Codec
}

// NewTable returns a table holding codecs. A later codec replaces an earlier one of the same type.
func NewTable(codecs ...Codec) *Table {
	t := &Table{codecs: make(map[reflect.Type]Codec, len(codecs))}
	for _, c := range codecs {
		t.codecs[c.Type()] = c
	}

	return t
}

// Defaults returns a table with codecs for string, bool, int, int64 and float64.
func Defaults() *Table {
	return NewTable(String(), Bool(), Int(), Int64(), Float64())
}

// Lookup returns the codec of t.
func (t *Table) Lookup(typ reflect.Type) (Codec, bool) {
	if t == nil || typ == nil {
		return nil, false
	}

	c, ok := t.codecs[typ]

	return c, ok
}

// With returns a copy of the table extended with codecs.
func (t *Table) With(codecs ...Codec) *Table {
	all := make([]Codec, 0, len(t.codecs)+len(codecs))
	for _, c := range t.codecs {
		all = append(all, c)
	}

	return NewTable(append(all, codecs...)...)
}

// Len returns the number of codecs in the table.
func (t *Table) Len() int { return len(t.codecs) }
