package cmd

import (
	"io/fs"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/vidsel-cli/vidsel/color"
	"github.com/vidsel-cli/vidsel/filesystem"
	"github.com/vidsel-cli/vidsel/style"
	"github.com/vidsel-cli/vidsel/util"
	"github.com/vidsel-cli/vidsel/where"
)

// location is a directory or file vidsel writes to.
type location struct {
	name   string
	flag   string
	short  string
	path   func() string
	hidden bool
}

var locations = []location{
	{name: "Config", flag: "config", short: "c", path: where.Config},
	{name: "Imported media", flag: "media", short: "m", path: where.Media},
	{name: "Logs", flag: "logs", short: "l", path: where.Logs},
	{name: "History", flag: "history", path: where.History, hidden: true},
	{name: "Cache", flag: "cache", path: where.Cache, hidden: true},
	{name: "Temp", flag: "temp", path: where.Temp, hidden: true},
}

// usage counts the regular files under path and their total size.
// Missing paths count as empty.
func usage(path string) (files int, size uint64) {
	_ = afero.Walk(filesystem.API(), path, func(_ string, info fs.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.Mode().IsRegular() {
			files++
			size += uint64(info.Size())
		}
		return nil
	})
	return
}

func describeUsage(path string) string {
	files, size := usage(path)
	if files == 0 {
		return "empty"
	}
	return util.Quantify(files, "file", "files") + ", " + humanize.Bytes(size)
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, l := range locations {
		whereCmd.Flags().BoolP(l.flag, l.short, false, "Print only the "+l.name+" path")
		if l.hidden {
			lo.Must0(whereCmd.Flags().MarkHidden(l.flag))
		}
	}

	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(locations, func(l location, _ int) string { return l.flag })...)
	whereCmd.SetOut(os.Stdout)
}

var whereCmd = &cobra.Command{
	Use:     "where",
	Short:   "Show where settings, imported media and logs are kept",
	Example: "  cd \"$(vidsel where --media)\"",
	Run: func(cmd *cobra.Command, args []string) {
		for _, l := range locations {
			if lo.Must(cmd.Flags().GetBool(l.flag)) {
				cmd.Println(l.path())
				return
			}
		}

		visible := lo.Reject(locations, func(l location, _ int) bool { return l.hidden })
		for i, l := range visible {
			cmd.Printf(
				"%s %s %s\n",
				style.New().Bold(true).Foreground(color.HiPurple).Render(l.name),
				style.Fg(color.Yellow)("--"+l.flag),
				style.Faint("("+describeUsage(l.path())+")"),
			)
			cmd.Println(l.path())

			if i < len(visible)-1 {
				cmd.Println()
			}
		}
	},
}
