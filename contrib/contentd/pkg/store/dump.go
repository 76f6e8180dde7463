package store

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/lumenworks/contentkit/pkg/constants"
	"github.com/lumenworks/contentkit/pkg/models"
)

// DumpFormat is the first line of every dump.
const DumpFormat = "CONTENTD-DUMP/1"

type dumpRecord struct {
	Kind      models.Kind     `json:"kind"`
	ID        string          `json:"id"`
	Slug      string          `json:"slug,omitempty"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Dump writes every record of b to w: the format line, then one JSON record
// per line, grouped by kind in creation order. It returns the number of
// records written.
func Dump(ctx context.Context, b Backend, w io.Writer) (int, error) {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, DumpFormat); err != nil {
		return 0, fmt.Errorf("failed to write dump header: %w", err)
	}
	enc := json.NewEncoder(bw)
	n := 0
	for _, kind := range []models.Kind{models.KindProduct, models.KindProject, models.KindBlog} {
		recs, err := b.List(ctx, kind)
		if err != nil {
			return n, fmt.Errorf("failed to dump %s records: %w", kind, err)
		}
		for _, rec := range recs {
			if err := enc.Encode(dumpRecord{
				Kind:      rec.Kind,
				ID:        rec.ID,
				Slug:      rec.Slug,
				Data:      json.RawMessage(rec.Data),
				CreatedAt: rec.CreatedAt,
				UpdatedAt: rec.UpdatedAt,
			}); err != nil {
				return n, fmt.Errorf("failed to write %s %q: %w", rec.Kind, rec.ID, err)
			}
			n++
		}
	}
	if err := bw.Flush(); err != nil {
		return n, fmt.Errorf("failed to flush dump: %w", err)
	}
	return n, nil
}

// RestoreOptions controls Restore.
type RestoreOptions struct {
	// SkipExisting skips records whose id or slug is already taken instead of
	// failing.
	SkipExisting bool
}

// Restore inserts the records of a dump read from r into b, keeping their ids
// and timestamps. It returns the number of records inserted.
func Restore(ctx context.Context, b Backend, r io.Reader, opts RestoreOptions) (int, error) {
	br := bufio.NewReader(r)
	header, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("failed to read dump header: %w", err)
	}
	if trimNewline(header) != DumpFormat {
		return 0, fmt.Errorf("unsupported dump format %q", trimNewline(header))
	}

	dec := json.NewDecoder(br)
	n := 0
	for line := 1; ; line++ {
		var rec dumpRecord
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return n, nil
			}
			return n, fmt.Errorf("record %d: %w", line, err)
		}
		if !rec.Kind.Valid() || rec.ID == "" {
			return n, fmt.Errorf("record %d: invalid kind %q or id %q", line, rec.Kind, rec.ID)
		}
		err := b.Insert(ctx, Record{
			Kind:      rec.Kind,
			ID:        rec.ID,
			Slug:      rec.Slug,
			Data:      []byte(rec.Data),
			CreatedAt: rec.CreatedAt,
			UpdatedAt: rec.UpdatedAt,
		})
		if err != nil {
			if opts.SkipExisting && errors.Is(err, constants.ErrConflict) {
				continue
			}
			return n, fmt.Errorf("record %d: %w", line, err)
		}
		n++
	}
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
