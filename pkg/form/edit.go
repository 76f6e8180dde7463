package form

import "github.com/lumenworks/contentkit/pkg/models"

// SetScalar sets the field addressed by field to v.
func SetScalar[D models.Document, T any](c *Controller[D], field models.Lens[D, T], v T) bool {
	return c.apply(func(d D) bool {
		p := field.Ref(d)
		if p == nil {
			return false
		}
		*p = v
		return true
	})
}

// Append adds item to the end of list.
func Append[D models.Document, E any](c *Controller[D], list models.Lens[D, []E], item E) bool {
	return c.apply(func(d D) bool {
		s := list.Ref(d)
		if s == nil {
			return false
		}
		*s = append(*s, item)
		return true
	})
}

// Remove deletes the element at index from list; later elements shift down.
func Remove[D models.Document, E any](c *Controller[D], list models.Lens[D, []E], index int) bool {
	return c.apply(func(d D) bool {
		s := list.Ref(d)
		if s == nil || index < 0 || index >= len(*s) {
			return false
		}
		*s = append((*s)[:index], (*s)[index+1:]...)
		return true
	})
}

// UpdateItemField sets field of the element at index of list to v.
func UpdateItemField[D models.Document, E, T any](c *Controller[D], list models.Lens[D, []E], index int, field models.Lens[*E, T], v T) bool {
	return SetScalar(c, models.At(list, index, field), v)
}
