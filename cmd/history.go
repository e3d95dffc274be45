package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/AlecAivazis/survey/v2"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vidsel-cli/vidsel/color"
	"github.com/vidsel-cli/vidsel/history"
	"github.com/vidsel-cli/vidsel/icon"
	"github.com/vidsel-cli/vidsel/media"
	"github.com/vidsel-cli/vidsel/style"
	"github.com/vidsel-cli/vidsel/util"
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	historyCmd.Flags().StringP("remove", "r", "", "Forget the saved position of this location")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved playback positions",
	Run: func(cmd *cobra.Command, args []string) {
		if location := lo.Must(cmd.Flags().GetString("remove")); location != "" {
			handleErr(history.Remove(media.New(location)))
			fmt.Printf("%s forgot %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), location)
			return
		}

		saved, err := history.All()
		handleErr(err)

		records := lo.Values(saved)
		sort.Slice(records, func(i, j int) bool {
			return records[i].UpdatedAt.After(records[j].UpdatedAt)
		})

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(records))
			return
		}

		if len(records) == 0 {
			cmd.Println(style.Faint("No saved positions"))
			return
		}

		cmd.Println(style.Bold(util.Quantify(len(records), "saved position", "saved positions")))
		for _, r := range records {
			mark := icon.Get(icon.Pause)
			if r.Finished() {
				mark = icon.Get(icon.Check)
			}

			cmd.Printf("%s %s %s\n  %s\n",
				mark,
				style.Fg(color.Purple)(r.Title),
				style.Fg(color.Yellow)(fmt.Sprintf("%s / %s", util.FormatDuration(r.Position), util.FormatDuration(r.Duration))),
				style.Faint(r.Location),
			)
		}
	},
}

func init() {
	historyCmd.AddCommand(historyPickCmd)
	historyPickCmd.Flags().BoolP("all", "a", false, "Include finished items")
}

var historyPickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Choose a saved item and continue watching it",
	Run: func(cmd *cobra.Command, args []string) {
		saved, err := history.All()
		handleErr(err)

		all := lo.Must(cmd.Flags().GetBool("all"))
		records := lo.Filter(lo.Values(saved), func(r history.Record, _ int) bool {
			return all || !r.Finished()
		})
		if len(records) == 0 {
			cmd.Println(style.Faint("No saved positions"))
			return
		}

		sort.Slice(records, func(i, j int) bool {
			return records[i].UpdatedAt.After(records[j].UpdatedAt)
		})

		options := lo.Map(records, func(r history.Record, _ int) string {
			return fmt.Sprintf("%s (%s / %s)", r.Title, util.FormatDuration(r.Position), util.FormatDuration(r.Duration))
		})

		var choice int
		handleErr(survey.AskOne(&survey.Select{
			Message: "Continue watching",
			Options: options,
		}, &choice))

		record := records[choice]
		handleErr(play([]media.Item{record.Item()}, record.Location, 0, true))
	},
}

func init() {
	historyCmd.AddCommand(historySchemaCmd)
}

var historySchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of `history --json` output",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true

		handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(reflector.Reflect([]history.Record{})))
	},
}
