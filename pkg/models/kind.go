package models

// Kind names a document kind.
type Kind string

const (
	KindProduct Kind = "product"
	KindProject Kind = "project"
	KindBlog    Kind = "blog"
)

func (k Kind) String() string { return string(k) }

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindProduct, KindProject, KindBlog:
		return true
	}
	return false
}

// Document is implemented by every editable content document.
type Document interface {
	// Kind returns the document kind.
	Kind() Kind

	// Key returns the identifier the list cache matches records by.
	// It is empty for documents the server has not assigned an identifier yet.
	Key() string

	// Media returns every media slot of the document, including the ones nested in
	// list elements and section rows. The pointers alias the document.
	Media() []*MediaRef

	// Finalize recomputes the position-derived values of the document.
	Finalize()
}
