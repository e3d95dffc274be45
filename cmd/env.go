package cmd

import (
	"os"
	"sort"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vidsel-cli/vidsel/color"
	"github.com/vidsel-cli/vidsel/config"
	"github.com/vidsel-cli/vidsel/style"
	"github.com/vidsel-cli/vidsel/where"
)

type envVar struct {
	name        string
	description string
}

// envVars lists the variables vidsel reads, sorted by name.
func envVars() []envVar {
	vars := lo.MapToSlice(config.Default, func(_ string, f config.Field) envVar {
		return envVar{name: f.Env(), description: f.Description}
	})
	vars = append(vars, envVar{name: where.EnvConfigPath, description: "Directory holding the config file"})

	sort.Slice(vars, func(i, j int) bool {
		return vars[i].name < vars[j].name
	})
	return vars
}

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set", "s", false, "Only variables present in the environment")
	envCmd.Flags().BoolP("unset", "u", false, "Only variables missing from the environment")
	envCmd.Flags().BoolP("describe", "d", false, "Print what each variable controls")

	envCmd.MarkFlagsMutuallyExclusive("set", "unset")
}

var envCmd = &cobra.Command{
	Use:     "env",
	Short:   "List environment variables that override settings",
	Example: "  VIDSEL_THUMBNAILS_ENABLE=false vidsel movie.mkv\n  vidsel env --set",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			onlySet   = lo.Must(cmd.Flags().GetBool("set"))
			onlyUnset = lo.Must(cmd.Flags().GetBool("unset"))
			describe  = lo.Must(cmd.Flags().GetBool("describe"))
		)

		for _, v := range envVars() {
			value, present := os.LookupEnv(v.name)
			if (onlySet && !present) || (onlyUnset && present) {
				continue
			}

			if describe {
				cmd.Println(style.Faint(v.description))
			}
			cmd.Print(style.New().Bold(true).Foreground(color.Purple).Render(v.name), "=")
			if present {
				cmd.Println(style.Fg(color.Green)(value))
			} else {
				cmd.Println(style.Fg(color.Red)("unset"))
			}
		}
	},
}
