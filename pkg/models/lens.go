package models

import "strconv"

// Lens addresses one field of a document. D is the document (or sub-record)
// pointer type and T the field type.
type Lens[D, T any] struct {
	name string
	ref  func(D) *T
}

// Field returns a lens named name that reaches its field through ref.
func Field[D, T any](name string, ref func(D) *T) Lens[D, T] {
	return Lens[D, T]{name: name, ref: ref}
}

// Name returns the dotted path of the field, e.g. "features[2].title".
func (l Lens[D, T]) Name() string {
	return l.name
}

// Ref returns a pointer to the field inside d, or nil when the path does not
// resolve for d.
func (l Lens[D, T]) Ref(d D) *T {
	if l.ref == nil {
		return nil
	}
	return l.ref(d)
}

// Get returns the value of the field.
func (l Lens[D, T]) Get(d D) (T, bool) {
	if p := l.Ref(d); p != nil {
		return *p, true
	}
	var zero T
	return zero, false
}

// Then reaches inner through the nested section addressed by outer.
func Then[D, M, T any](outer Lens[D, M], inner Lens[*M, T]) Lens[D, T] {
	return Lens[D, T]{
		name: outer.name + "." + inner.name,
		ref: func(d D) *T {
			m := outer.Ref(d)
			if m == nil {
				return nil
			}
			return inner.Ref(m)
		},
	}
}

// Item addresses the element at index of the list addressed by list.
func Item[D, E any](list Lens[D, []E], index int) Lens[D, E] {
	return Lens[D, E]{
		name: list.name + "[" + strconv.Itoa(index) + "]",
		ref: func(d D) *E {
			s := list.Ref(d)
			if s == nil || index < 0 || index >= len(*s) {
				return nil
			}
			return &(*s)[index]
		},
	}
}

// At addresses field of the element at index of list.
func At[D, E, T any](list Lens[D, []E], index int, field Lens[*E, T]) Lens[D, T] {
	return Then(Item(list, index), field)
}
