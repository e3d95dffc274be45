package cmd

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vidsel-cli/vidsel/color"
	"github.com/vidsel-cli/vidsel/icon"
	"github.com/vidsel-cli/vidsel/importer"
	"github.com/vidsel-cli/vidsel/media"
	"github.com/vidsel-cli/vidsel/style"
	"github.com/vidsel-cli/vidsel/util"
)

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().BoolP("play", "p", false, "Play the imported copy right away")
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Copy a video into the media cache",
	Long: `Copy a video into the media cache, replacing the previous import.
The copy keeps playing even if the original is moved or its drive is unmounted.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		erase := util.PrintErasable(fmt.Sprintf("%s Importing %s...", icon.Get(icon.Import), args[0]))
		item, err := importer.Import(args[0])
		erase()
		handleErr(err)

		fmt.Printf("%s imported %s to %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(item.Title),
			style.Faint(item.Location),
		)

		if lo.Must(cmd.Flags().GetBool("play")) {
			handleErr(play([]media.Item{item}, item.Location, 0, false))
		}
	},
}
