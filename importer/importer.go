// Package importer copies a picked media file to the well-known location
// vidsel plays imports from.
package importer

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/vidsel-cli/vidsel/filesystem"
	"github.com/vidsel-cli/vidsel/log"
	"github.com/vidsel-cli/vidsel/media"
	"github.com/vidsel-cli/vidsel/where"
)

// ErrNotAFile is returned when the picked path is a directory.
var ErrNotAFile = errors.New("not a regular file")

// Import copies src to where.Imported, replacing any earlier import, and
// returns the item for the copy. The copy is written to a temporary file
// first so a failed import never leaves a truncated video behind.
func Import(src string) (media.Item, error) {
	fs := filesystem.API()

	stat, err := fs.Stat(src)
	if err != nil {
		return media.Item{}, fmt.Errorf("import %s: %w", src, err)
	}
	if stat.IsDir() {
		return media.Item{}, fmt.Errorf("import %s: %w", src, ErrNotAFile)
	}

	in, err := fs.Open(src)
	if err != nil {
		return media.Item{}, fmt.Errorf("import %s: %w", src, err)
	}
	defer in.Close()

	dst := where.Imported(strings.ToLower(filepath.Ext(src)))

	tmp, err := afero.TempFile(fs.Fs, filepath.Dir(dst), ".import-*")
	if err != nil {
		return media.Item{}, fmt.Errorf("import %s: %w", src, err)
	}

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		_ = fs.Remove(tmp.Name())
		return media.Item{}, fmt.Errorf("import %s: copy: %w", src, err)
	}

	if err := tmp.Close(); err != nil {
		_ = fs.Remove(tmp.Name())
		return media.Item{}, fmt.Errorf("import %s: %w", src, err)
	}

	if err := fs.Rename(tmp.Name(), dst); err != nil {
		_ = fs.Remove(tmp.Name())
		return media.Item{}, fmt.Errorf("import %s: %w", src, err)
	}

	log.Infof("imported %s to %s", src, dst)
	return media.Item{Location: dst, Title: media.New(src).Title}, nil
}
