package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vidsel-cli/vidsel/color"
	"github.com/vidsel-cli/vidsel/constant"
	"github.com/vidsel-cli/vidsel/icon"
	"github.com/vidsel-cli/vidsel/key"
	"github.com/vidsel-cli/vidsel/log"
	"github.com/vidsel-cli/vidsel/style"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that mpv, ffmpeg and ffprobe can be found",
	Run: func(cmd *cobra.Command, args []string) {
		for _, dep := range []string{
			viper.GetString(key.PlayerMPVPath),
			viper.GetString(key.ThumbnailsFFmpeg),
			viper.GetString(key.ThumbnailsFFprobe),
		} {
			if path, err := exec.LookPath(dep); err != nil {
				cmd.Printf("%s %s %s\n", style.Fg(color.Red)(icon.Get(icon.Cross)), dep, style.Faint("not found"))
			} else {
				cmd.Printf("%s %s %s\n", style.Fg(color.Green)(icon.Get(icon.Check)), dep, style.Faint(path))
			}
		}
	},
}

// CheckDependencies exits when mpv is missing and turns thumbnails off
// when ffmpeg or ffprobe is.
func CheckDependencies() {
	if viper.GetString(key.PlayerMPVSocket) == "" {
		mpv := viper.GetString(key.PlayerMPVPath)
		if _, err := exec.LookPath(mpv); err != nil {
			printMissingDependencyError(mpv)
			os.Exit(1)
		}
	}

	if !viper.GetBool(key.ThumbnailsEnable) {
		return
	}

	for _, dep := range []string{viper.GetString(key.ThumbnailsFFmpeg), viper.GetString(key.ThumbnailsFFprobe)} {
		if _, err := exec.LookPath(dep); err != nil {
			log.Warnf("%s not found, seek previews are disabled", dep)
			viper.Set(key.ThumbnailsEnable, false)
			return
		}
	}
}

func printMissingDependencyError(dep string) {
	var installCmd string
	switch runtime.GOOS {
	case constant.Darwin:
		installCmd = "brew install " + dep
	case constant.Linux:
		installCmd = "sudo apt install " + dep
	case constant.Windows:
		installCmd = "scoop install " + dep
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(color.HiRed).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The required dependency '%s' was not found in your PATH.", dep))

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
