package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lumenworks/contentkit/pkg/constants"
)

// MediaState is the state a MediaRef is in.
type MediaState int

const (
	MediaEmpty MediaState = iota
	MediaStored
	MediaPending
)

func (s MediaState) String() string {
	switch s {
	case MediaStored:
		return "stored"
	case MediaPending:
		return "pending"
	default:
		return "empty"
	}
}

// File is a locally selected file waiting to be uploaded.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// FileFromPath returns a File reading from the local filesystem.
func FileFromPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}
	return File{
		Name: filepath.Base(path),
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// FileFromBytes returns a File backed by an in-memory buffer.
func FileFromBytes(name string, data []byte) File {
	return File{
		Name: name,
		Size: int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// MediaRef is a media slot. The zero value is an empty slot.
type MediaRef struct {
	path    string
	pending *File
}

// StoredMedia returns a slot pointing at previously uploaded media.
func StoredMedia(path string) MediaRef {
	return MediaRef{path: path}
}

// State returns the state of the slot.
func (m MediaRef) State() MediaState {
	switch {
	case m.pending != nil:
		return MediaPending
	case m.path != "":
		return MediaStored
	default:
		return MediaEmpty
	}
}

// Path returns the stored path. For a pending slot this is the path it held
// before the file was selected.
func (m MediaRef) Path() string {
	return m.path
}

// Pending returns the file waiting to be uploaded, if any.
func (m MediaRef) Pending() (File, bool) {
	if m.pending == nil {
		return File{}, false
	}
	return *m.pending, true
}

// WithPending returns a pending slot for f that remembers the current stored path.
func (m MediaRef) WithPending(f File) MediaRef {
	return MediaRef{path: m.path, pending: &f}
}

// IsZero reports whether the slot is empty.
func (m MediaRef) IsZero() bool {
	return m.State() == MediaEmpty
}

// DeepCopy implements deepcopy.Interface; the unexported fields would otherwise be lost.
func (m MediaRef) DeepCopy() interface{} {
	if m.pending == nil {
		return MediaRef{path: m.path}
	}
	f := *m.pending
	return MediaRef{path: m.path, pending: &f}
}

func (m MediaRef) String() string {
	if f, ok := m.Pending(); ok {
		return "pending:" + f.Name
	}
	return m.path
}

func (m MediaRef) MarshalJSON() ([]byte, error) {
	if m.pending != nil {
		return nil, fmt.Errorf("%w: %s", constants.ErrPendingMedia, m.pending.Name)
	}
	return json.Marshal(m.path)
}

func (m *MediaRef) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = MediaRef{}
		return nil
	}
	var path string
	if err := json.Unmarshal(data, &path); err != nil {
		return fmt.Errorf("media reference must be a string path: %w", err)
	}
	*m = MediaRef{path: path}
	return nil
}

// Unresolved returns the media slots of d that still hold a pending file.
func Unresolved(d Document) []*MediaRef {
	var out []*MediaRef
	for _, m := range d.Media() {
		if m != nil && m.State() == MediaPending {
			out = append(out, m)
		}
	}
	return out
}
