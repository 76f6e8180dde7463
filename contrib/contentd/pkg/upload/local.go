package upload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage writes objects into a directory the server serves under
// URLPrefix.
type LocalStorage struct {
	Dir       string
	URLPrefix string
}

// NewLocalStorage creates dir when missing.
func NewLocalStorage(dir, urlPrefix string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStorage{Dir: dir, URLPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

func (l *LocalStorage) Put(_ context.Context, obj Object) (string, error) {
	name := filepath.Base(obj.Name)
	if err := os.WriteFile(filepath.Join(l.Dir, name), obj.Data, 0o644); err != nil {
		return "", err
	}
	return l.URLPrefix + "/" + name, nil
}
