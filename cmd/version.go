package cmd

import (
	"encoding/json"
	"os"
	"runtime"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vidsel-cli/vidsel/color"
	"github.com/vidsel-cli/vidsel/constant"
	"github.com/vidsel-cli/vidsel/key"
	"github.com/vidsel-cli/vidsel/style"
	"github.com/vidsel-cli/vidsel/version"
)

type buildInfo struct {
	App      string `json:"app"`
	Version  string `json:"version"`
	Revision string `json:"revision"`
	BuiltAt  string `json:"built_at"`
	BuiltBy  string `json:"built_by"`
	Platform string `json:"platform"`
	Go       string `json:"go"`
	MPV      string `json:"mpv"`
	FFmpeg   string `json:"ffmpeg"`
}

func currentBuild() buildInfo {
	return buildInfo{
		App:      constant.Vidsel,
		Version:  constant.Version,
		Revision: constant.Revision,
		BuiltAt:  strings.TrimSpace(constant.BuiltAt),
		BuiltBy:  constant.BuiltBy,
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
		Go:       runtime.Version(),
		MPV:      viper.GetString(key.PlayerMPVPath),
		FFmpeg:   viper.GetString(key.ThumbnailsFFmpeg),
	}
}

var buildTemplate = lo.Must(template.New("version").Funcs(template.FuncMap{
	"faint":  style.Faint,
	"bold":   style.Bold,
	"accent": style.Fg(color.Purple),
}).Parse(`{{ accent "▶" }} {{ accent .App }} {{ bold .Version }}

  {{ faint "Revision  " }}  {{ .Revision }}
  {{ faint "Built     " }}  {{ .BuiltAt }} by {{ .BuiltBy }}
  {{ faint "Platform  " }}  {{ .Platform }} ({{ .Go }})
  {{ faint "Player    " }}  {{ .MPV }}
  {{ faint "Thumbnails" }}  {{ .FFmpeg }}
`))

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Only print the version number")
	versionCmd.Flags().BoolP("json", "j", false, "Print build information as JSON")
	versionCmd.MarkFlagsMutuallyExclusive("short", "json")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the version, build and configured media tools",
	Run: func(cmd *cobra.Command, args []string) {
		switch {
		case lo.Must(cmd.Flags().GetBool("short")):
			cmd.Println(constant.Version)
		case lo.Must(cmd.Flags().GetBool("json")):
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(currentBuild()))
		default:
			defer version.Notify()
			handleErr(buildTemplate.Execute(cmd.OutOrStdout(), currentBuild()))
		}
	},
}
