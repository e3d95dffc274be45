package version

import (
	"fmt"

	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/vidsel-cli/vidsel/color"
	"github.com/vidsel-cli/vidsel/constant"
	"github.com/vidsel-cli/vidsel/icon"
	"github.com/vidsel-cli/vidsel/key"
	"github.com/vidsel-cli/vidsel/style"
	"github.com/vidsel-cli/vidsel/util"
)

const releasePage = "https://github.com/vidsel-cli/vidsel/releases/tag/v"

// upgrade returns latest when it is newer than current.
func upgrade(latest, current string) mo.Option[string] {
	if cmp, err := Compare(latest, current); err != nil || cmp <= 0 {
		return mo.None[string]()
	}
	return mo.Some(latest)
}

// Notify prints a notice when cli.version_check is on and a newer release
// exists. Lookup failures are silent.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable(fmt.Sprintf("%s looking for a newer release", icon.Get(icon.Progress)))
	latest, err := Latest()
	erase()
	if err != nil {
		return
	}

	if v, ok := upgrade(latest, constant.Version).Get(); ok {
		fmt.Printf(
			"\n%s %s %s is out, you have %s\n  %s\n\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			constant.Vidsel,
			style.Bold(v),
			style.Faint(constant.Version),
			style.Faint(releasePage+v),
		)
	}
}
