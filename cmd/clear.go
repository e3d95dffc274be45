package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vidsel-cli/vidsel/color"
	"github.com/vidsel-cli/vidsel/filesystem"
	"github.com/vidsel-cli/vidsel/icon"
	"github.com/vidsel-cli/vidsel/style"
	"github.com/vidsel-cli/vidsel/util"
	"github.com/vidsel-cli/vidsel/where"
)

// clearable lists what clear can remove, keyed by flag name.
var clearable = []location{
	{name: "cache", flag: "cache", short: "c", path: where.Cache},
	{name: "imported media", flag: "media", short: "m", path: where.Media},
	{name: "playback history", flag: "history", short: "s", path: where.History},
	{name: "logs", flag: "logs", short: "l", path: where.Logs},
}

// removeLocation deletes path and reports how much it freed.
func removeLocation(path string) (freed uint64, err error) {
	_, freed = usage(path)
	return freed, filesystem.API().RemoveAll(path)
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, l := range clearable {
		clearCmd.Flags().BoolP(l.flag, l.short, false, "Remove "+l.name)
	}
	clearCmd.Flags().BoolP("all", "a", false, "Remove everything listed above")
}

var clearCmd = &cobra.Command{
	Use:     "clear",
	Short:   "Remove the cache, imported media, playback history or logs",
	Example: "  vidsel clear --media --cache",
	Run: func(cmd *cobra.Command, args []string) {
		all := lo.Must(cmd.Flags().GetBool("all"))
		chosen := lo.Filter(clearable, func(l location, _ int) bool {
			return all || lo.Must(cmd.Flags().GetBool(l.flag))
		})

		if len(chosen) == 0 {
			handleErr(cmd.Help())
			return
		}

		for _, l := range chosen {
			erase := util.PrintErasable(fmt.Sprintf("%s removing %s", icon.Get(icon.Progress), l.name))
			freed, err := removeLocation(l.path())
			erase()
			handleErr(err)

			fmt.Printf(
				"%s removed %s %s\n",
				style.Fg(color.Green)(icon.Get(icon.Success)),
				l.name,
				style.Faint("("+humanize.Bytes(freed)+")"),
			)
		}
	},
}
