// Package form holds the document being edited on an admin screen and applies
// discrete edits to it.
//
// Every edit works on a deep copy of the current document and swaps it in
// whole, so a document returned by Controller.Document is never modified
// afterwards. Edits addressing a list index that does not exist, or a field
// path that does not resolve, are ignored and reported as not applied.
package form

import (
	"sync"

	"github.com/lumenworks/contentkit/pkg/models"
)

// Controller holds the current document of one kind.
type Controller[D models.Document] struct {
	mu     sync.RWMutex
	tmpl   models.Template[D]
	doc    D
	origin string
	rev    uint64
}

// New returns a controller holding a blank document.
func New[D models.Document](tmpl models.Template[D]) *Controller[D] {
	return &Controller[D]{tmpl: tmpl, doc: tmpl.Blank()}
}

// Template returns the template the controller creates documents from.
func (c *Controller[D]) Template() models.Template[D] {
	return c.tmpl
}

// Document returns the current document. The returned value must be treated
// as read-only.
func (c *Controller[D]) Document() D {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.doc
}

// Origin returns the key of the persisted record loaded into the form, or ""
// when the form holds a new document.
func (c *Controller[D]) Origin() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.origin
}

// Revision returns a counter incremented by every applied change.
func (c *Controller[D]) Revision() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rev
}

// Load replaces the form with the editable form of rec.
func (c *Controller[D]) Load(rec D) {
	doc := c.tmpl.FromRecord(rec)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.doc = doc
	c.origin = doc.Key()
	c.rev++
}

// Reset replaces the form with a blank document.
func (c *Controller[D]) Reset() {
	doc := c.tmpl.Blank()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.doc = doc
	c.origin = ""
	c.rev++
}

// ResetIf resets the form when it holds the persisted record with the given key.
func (c *Controller[D]) ResetIf(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if key == "" || c.origin != key {
		return false
	}
	c.doc = c.tmpl.Blank()
	c.origin = ""
	c.rev++
	return true
}

func (c *Controller[D]) apply(edit func(D) bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := models.Clone(c.doc)
	if !edit(next) {
		return false
	}
	c.doc = next
	c.rev++
	return true
}

// SetPendingMedia records f as the file to upload for slot. The stored path
// the slot held is kept until the upload succeeds.
func (c *Controller[D]) SetPendingMedia(slot models.Lens[D, models.MediaRef], f models.File) bool {
	return c.apply(func(d D) bool {
		m := slot.Ref(d)
		if m == nil {
			return false
		}
		*m = m.WithPending(f)
		return true
	})
}

// ClearMedia empties slot.
func (c *Controller[D]) ClearMedia(slot models.Lens[D, models.MediaRef]) bool {
	return SetScalar(c, slot, models.MediaRef{})
}
