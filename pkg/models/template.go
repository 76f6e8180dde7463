package models

import "github.com/mohae/deepcopy"

// Template describes how documents of one kind are created and loaded for editing.
type Template[D Document] struct {
	Kind Kind

	// KeyRequired reports that a new document needs a caller-chosen key
	// before it can be created.
	KeyRequired bool

	// KeyImmutable reports that the key of a persisted document never changes.
	KeyImmutable bool

	blank      func() D
	fromRecord func(D) D
}

// Blank returns a new, empty document.
func (t Template[D]) Blank() D {
	return t.blank()
}

// FromRecord maps a persisted record into its editable form. The record is
// copied; absent lists and sections become their empty forms. A nil record
// yields a blank document.
func (t Template[D]) FromRecord(rec D) D {
	if isNil(rec) {
		return t.blank()
	}
	return t.fromRecord(rec)
}

var (
	Products = Template[*Product]{
		Kind:         KindProduct,
		KeyRequired:  true,
		KeyImmutable: true,
		blank:        NewProduct,
		fromRecord:   productFromRecord,
	}
	Projects = Template[*Project]{
		Kind:       KindProject,
		blank:      NewProject,
		fromRecord: projectFromRecord,
	}
	BlogPosts = Template[*BlogPost]{
		Kind:       KindBlog,
		blank:      NewBlogPost,
		fromRecord: blogPostFromRecord,
	}
)

// Blank returns a blank document of the given kind, or nil for an unknown kind.
func Blank(kind Kind) Document {
	switch kind {
	case KindProduct:
		return NewProduct()
	case KindProject:
		return NewProject()
	case KindBlog:
		return NewBlogPost()
	}
	return nil
}

// Clone returns a deep copy of d. Pending media files are carried over.
func Clone[D Document](d D) D {
	return copyOf(d)
}

func copyOf[D any](d D) D {
	return deepcopy.Copy(d).(D)
}

func isNil[D Document](d D) bool {
	var doc Document = d
	if doc == nil {
		return true
	}
	switch v := doc.(type) {
	case *Product:
		return v == nil
	case *Project:
		return v == nil
	case *BlogPost:
		return v == nil
	}
	return false
}
