// Package cache prunes the media cache directory.
package cache

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/vidsel-cli/vidsel/filesystem"
	"github.com/vidsel-cli/vidsel/log"
	"github.com/vidsel-cli/vidsel/util"
)

// TTL is how long an imported copy is kept after its last write.
const TTL = 7 * 24 * time.Hour

// CollectGarbage removes files under dir not written for ttl, and import
// temp files older than an hour. It returns the number of removed files.
func CollectGarbage(dir string, ttl time.Duration) int {
	fs := filesystem.API()
	now := time.Now()
	var removed int

	_ = afero.Walk(fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}

		age := now.Sub(info.ModTime())
		abandoned := strings.HasPrefix(info.Name(), ".import-") && age > time.Hour
		if age <= ttl && !abandoned {
			return nil
		}

		if err := fs.Remove(path); err != nil {
			log.Warnf("cache: remove %s: %v", path, err)
			return nil
		}
		removed++
		return nil
	})

	if removed > 0 {
		log.Infof("cache: removed %s from %s", util.Quantify(removed, "stale file", "stale files"), dir)
	}
	return removed
}
