// Package icon renders status symbols in the variant chosen by the user.
//
// Icons can be displayed as emoji, nerd-font glyphs, plain ASCII, kaomoji,
// or Unicode squares depending on the icons.variant setting.
package icon

import (
	"github.com/spf13/viper"
	"github.com/vidsel-cli/vidsel/key"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants returns every supported icons.variant value.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

// Icon names a symbol in the registry.
type Icon int

const (
	Fail Icon = iota
	Success
	Check
	Cross
	Progress
	Play
	Pause
	Stop
	Buffering
	Offline
	Waiting
	PiP
	Import
	Config
)

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

func (d iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	default:
		return ""
	}
}

var icons = map[Icon]iconDef{
	Fail:      {emoji: "💀", nerd: "", plain: "X", kaomoji: "(╥﹏╥)", squares: "▨"},
	Success:   {emoji: "🎉", nerd: "", plain: "+", kaomoji: "(ᵔ◡ᵔ)", squares: "▣"},
	Check:     {emoji: "✅", nerd: "", plain: "OK", kaomoji: "(^_^)", squares: "▣"},
	Cross:     {emoji: "❌", nerd: "", plain: "--", kaomoji: "(×_×)", squares: "▢"},
	Progress:  {emoji: "⏳", nerd: "", plain: "~", kaomoji: "(・_・)", squares: "◫"},
	Play:      {emoji: "▶️", nerd: "", plain: ">", kaomoji: "(>‿◠)", squares: "▶"},
	Pause:     {emoji: "⏸️", nerd: "", plain: "||", kaomoji: "(-_-)", squares: "⏸"},
	Stop:      {emoji: "⏹️", nerd: "", plain: "[]", kaomoji: "(-.-)", squares: "■"},
	Buffering: {emoji: "🔄", nerd: "", plain: "...", kaomoji: "(°ロ°)", squares: "◌"},
	Offline:   {emoji: "📡", nerd: "", plain: "!", kaomoji: "(；一_一)", squares: "◪"},
	Waiting:   {emoji: "🎬", nerd: "", plain: "?", kaomoji: "(・・?)", squares: "□"},
	PiP:       {emoji: "🖼️", nerd: "", plain: "pip", kaomoji: "[¬º-°]¬", squares: "◰"},
	Import:    {emoji: "📥", nerd: "", plain: "<-", kaomoji: "(っ˘ڡ˘ς)", squares: "◧"},
	Config:    {emoji: "⚙️", nerd: "", plain: "*", kaomoji: "(⌐■_■)", squares: "◩"},
}

// Get returns the symbol for i in the configured variant.
func Get(i Icon) string {
	return icons[i].Get()
}
