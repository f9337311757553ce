package photo

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// MetadataResolver fetches creation timestamps for scan entries. It is only
// invoked when a date filter is active, and only over entries that already
// survived the cheaper predicates.
type MetadataResolver struct {
	fs  afero.Fs
	dir string
}

// NewMetadataResolver creates a resolver for files under dir.
func NewMetadataResolver(fs afero.Fs, dir string) *MetadataResolver {
	return &MetadataResolver{fs: fs, dir: dir}
}

// Resolve stats every entry concurrently and returns a copy of the batch
// with CreatedAt populated, preserving order. The join is all-or-nothing: a
// single lookup failure fails the whole batch, since a partially resolved
// set cannot be safely date-filtered.
func (r *MetadataResolver) Resolve(ctx context.Context, entries []FileEntry) ([]FileEntry, error) {
	resolved := make([]FileEntry, len(entries))

	g, _ := errgroup.WithContext(ctx)
	for i, entry := range entries {
		g.Go(func() error {
			info, err := r.fs.Stat(filepath.Join(r.dir, entry.Name))
			if err != nil {
				return NewPipelineError(ErrScan,
					fmt.Sprintf("failed to stat %s", entry.Name)).WithCause(err)
			}
			entry.CreatedAt = info.ModTime()
			resolved[i] = entry
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return resolved, nil
}
