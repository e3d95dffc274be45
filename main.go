// Command vidsel picks videos and plays them from the terminal.
package main

import (
	"github.com/samber/lo"
	"github.com/vidsel-cli/vidsel/cmd"
	"github.com/vidsel-cli/vidsel/config"
	"github.com/vidsel-cli/vidsel/internal/cache"
	"github.com/vidsel-cli/vidsel/log"
	"github.com/vidsel-cli/vidsel/util"
	"github.com/vidsel-cli/vidsel/where"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	go func() {
		_ = util.Delete(where.Temp())
		cache.CollectGarbage(where.Media(), cache.TTL)
	}()

	cmd.Execute()
}
