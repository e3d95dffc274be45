package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vidsel-cli/vidsel/color"
	"github.com/vidsel-cli/vidsel/config"
	"github.com/vidsel-cli/vidsel/constant"
	"github.com/vidsel-cli/vidsel/filesystem"
	"github.com/vidsel-cli/vidsel/icon"
	"github.com/vidsel-cli/vidsel/style"
	"github.com/vidsel-cli/vidsel/where"
)

func errUnknownKey(key string) error {
	closest := lo.MinBy(lo.Keys(config.Default), func(a string, b string) bool {
		return levenshtein.Distance(key, a) < levenshtein.Distance(key, b)
	})

	return fmt.Errorf(
		"unknown key %s, did you mean %s?",
		style.Fg(color.Red)(key),
		style.Fg(color.Yellow)(closest),
	)
}

// section is the first segment of a dotted key: player, thumbnails, queue...
func section(key string) string {
	s, _, _ := strings.Cut(key, ".")
	return s
}

func sections() []string {
	all := lo.Uniq(lo.Map(lo.Keys(config.Default), func(k string, _ int) string { return section(k) }))
	sort.Strings(all)
	return all
}

// selectFields resolves keys, or every field of sec when no keys are
// given, sorted by key. An empty sec selects all sections.
func selectFields(keys []string, sec string) ([]config.Field, error) {
	var fields []config.Field
	if len(keys) == 0 {
		fields = lo.Filter(lo.Values(config.Default), func(f config.Field, _ int) bool {
			return sec == "" || section(f.Key) == sec
		})
		if len(fields) == 0 {
			return nil, fmt.Errorf("unknown section %q, expected one of %s", sec, strings.Join(sections(), ", "))
		}
	}

	for _, key := range keys {
		field, ok := config.Default[key]
		if !ok {
			return nil, errUnknownKey(key)
		}
		fields = append(fields, field)
	}

	sort.Slice(fields, func(i, j int) bool {
		return fields[i].Key < fields[j].Key
	})
	return fields, nil
}

func configFile() string {
	return filepath.Join(where.Config(), constant.Vidsel+".toml")
}

// saveConfig writes the in-memory settings, creating the file on first use.
func saveConfig() error {
	var notFound viper.ConfigFileNotFoundError
	err := viper.WriteConfig()
	if errors.As(err, &notFound) {
		return viper.SafeWriteConfigAs(configFile())
	}
	return err
}

func completionConfigKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return lo.Keys(config.Default), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change player, thumbnail and queue settings",
	Long: fmt.Sprintf(`Settings live in %s.toml inside the config directory (see "%s where --config").
Every key can also be set through its %s_ environment variable (see "%s env").`,
		constant.Vidsel, constant.Vidsel, strings.ToUpper(constant.Vidsel), constant.Vidsel),
}

func init() {
	configCmd.AddCommand(configInfoCmd)
	configInfoCmd.Flags().StringP("section", "s", "", "Only show keys of this section, e.g. player or thumbnails")
	configInfoCmd.Flags().BoolP("json", "j", false, "Print the fields as JSON")
	_ = configInfoCmd.RegisterFlagCompletionFunc("section", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return sections(), cobra.ShellCompDirectiveNoFileComp
	})

	configInfoCmd.SetOut(os.Stdout)
}

var configInfoCmd = &cobra.Command{
	Use:     "info [keys...]",
	Short:   "Describe settings with their current values",
	Example: "  vidsel config info player.seek_step\n  vidsel config info --section thumbnails",
	ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return lo.Keys(config.Default), cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		fields, err := selectFields(args, lo.Must(cmd.Flags().GetString("section")))
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(lo.ToSlicePtr(fields)))
			return
		}

		current := ""
		for i, field := range fields {
			if sec := section(field.Key); sec != current {
				current = sec
				cmd.Println(style.Title(strings.ToUpper(sec)))
				cmd.Println()
			}

			cmd.Print(field.Pretty())
			if i < len(fields)-1 {
				cmd.Println()
				cmd.Println()
			}
		}
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
}

var configGetCmd = &cobra.Command{
	Use:               "get <key>",
	Short:             "Print the current value of a setting",
	Example:           "  vidsel config get thumbnails.max",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		field, ok := config.Default[args[0]]
		if !ok {
			handleErr(errUnknownKey(args[0]))
		}

		value := viper.Get(field.Key)
		if fmt.Sprint(value) == fmt.Sprint(field.Value) {
			fmt.Printf("%v %s\n", value, style.Faint("(default)"))
			return
		}
		fmt.Println(value)
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
}

var configSetCmd = &cobra.Command{
	Use:               "set <key> <value>...",
	Short:             "Change a setting and save it to the config file",
	Example:           "  vidsel config set player.seek_step 30s\n  vidsel config set remote.mpris true",
	Args:              cobra.MinimumNArgs(2),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		field, ok := config.Default[args[0]]
		if !ok {
			handleErr(errUnknownKey(args[0]))
		}

		value, err := field.Parse(args[1:])
		handleErr(err)

		viper.Set(field.Key, value)
		handleErr(saveConfig())

		fmt.Printf(
			"%s %s = %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(field.Key),
			style.Fg(color.Yellow)(fmt.Sprint(value)),
		)
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)
	configResetCmd.Flags().BoolP("all", "a", false, "Remove the config file, restoring every default")
}

var configResetCmd = &cobra.Command{
	Use:               "reset [keys...]",
	Short:             "Restore settings to their defaults",
	Example:           "  vidsel config reset player.seek_step\n  vidsel config reset --all",
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		success := style.Fg(color.Green)(icon.Get(icon.Success))

		if lo.Must(cmd.Flags().GetBool("all")) {
			err := filesystem.API().Remove(configFile())
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				handleErr(err)
			}
			for key, field := range config.Default {
				viper.Set(key, field.Value)
			}
			fmt.Printf("%s removed %s\n", success, configFile())
			return
		}

		if len(args) == 0 {
			handleErr(errors.New("name the keys to reset or pass --all"))
		}

		fields, err := selectFields(args, "")
		handleErr(err)

		for _, field := range fields {
			viper.Set(field.Key, field.Value)
		}
		handleErr(saveConfig())

		for _, field := range fields {
			fmt.Printf(
				"%s %s = %s %s\n",
				success,
				style.Fg(color.Purple)(field.Key),
				style.Fg(color.Yellow)(fmt.Sprint(field.Value)),
				style.Faint("(default)"),
			)
		}
	},
}
