package photo

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// allowedExtensions is the set of image extensions served by the library.
var allowedExtensions = map[string]struct{}{
	".jpg": {},
	".png": {},
}

var digitRun = regexp.MustCompile(`[0-9]+`)

// FileEntry is one classified file from a directory scan. CreatedAt stays
// zero until the metadata resolver populates it.
type FileEntry struct {
	Name         string
	Extension    string
	NumericToken *int
	CreatedAt    time.Time
}

// Lister enumerates a photo directory and classifies its entries.
type Lister struct {
	fs  afero.Fs
	dir string
}

// NewLister creates a Lister over the given directory.
func NewLister(fs afero.Fs, dir string) *Lister {
	return &Lister{fs: fs, dir: dir}
}

// List returns the classified entries of the photo directory in listing
// order. Files without an allowed image extension are excluded here, before
// any other predicate runs. A directory read failure is fatal for the
// whole request.
func (l *Lister) List() ([]FileEntry, error) {
	infos, err := afero.ReadDir(l.fs, l.dir)
	if err != nil {
		return nil, NewPipelineError(ErrScan, "failed to read photos directory").WithCause(err)
	}

	entries := make([]FileEntry, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(info.Name()))
		if _, ok := allowedExtensions[ext]; !ok {
			continue
		}

		entries = append(entries, FileEntry{
			Name:         info.Name(),
			Extension:    ext,
			NumericToken: extractNumericToken(info.Name()),
		})
	}

	return entries, nil
}

// extractNumericToken returns the first contiguous run of digits in name,
// or nil if the name contains none.
func extractNumericToken(name string) *int {
	run := digitRun.FindString(name)
	if run == "" {
		return nil
	}

	token, err := strconv.Atoi(run)
	if err != nil {
		// A digit run longer than an int can hold carries no useful token.
		return nil
	}

	return &token
}
