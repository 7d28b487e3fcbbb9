package x_log

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

//
// ---------- IBM Carbon Colors ----------

const (
	ColorTeal40    = "#3ddbd9"
	ColorBlue60    = "#4589ff"
	ColorBlue40    = "#78a9ff"
	ColorBlue70    = "#0043ce"
	ColorBlueBase  = "#0f62fe"
	ColorRed60     = "#da1e28"
	ColorRedStrong = "#ff0000"
	ColorOrange40  = "#ff832b"
	ColorGreen40   = "#42be65"
	ColorGray60    = "#8d8d8d"
	ColorGray10    = "#f4f4f4"
	ColorGray90    = "#262626"
)

//
// ---------- Styles ----------

// Styles holds lipgloss styles for console output.
type Styles struct {
	Out               io.Writer
	Timestamp         lipgloss.Style
	Message           lipgloss.Style
	Levels            map[zerolog.Level]string // level -> background color
	Keys              map[string]lipgloss.Style
	Values            map[string]lipgloss.Style
	DefaultKeyStyle   lipgloss.Style
	DefaultValueStyle lipgloss.Style
}

// DefaultStylesByName returns a theme by name ("dark", "light").
func DefaultStylesByName(name string) *Styles {
	switch strings.ToLower(name) {
	case "light":
		return DefaultStylesLight()
	default:
		return DefaultStylesDark()
	}
}

// domain fields get their own colors
var fieldKeys = []string{"module", "kind", "op", "key", "positions", "err"}

func keyStyles(base string) map[string]lipgloss.Style {
	m := make(map[string]lipgloss.Style, len(fieldKeys))
	for _, k := range fieldKeys {
		m[k] = lipgloss.NewStyle().Foreground(lipgloss.Color(base))
	}
	m["err"] = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRed60))
	return m
}

func valueStyles() map[string]lipgloss.Style {
	return map[string]lipgloss.Style{
		"kind":      lipgloss.NewStyle().Bold(true),
		"key":       lipgloss.NewStyle().Italic(true),
		"positions": lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGreen40)),
		"err":       lipgloss.NewStyle().Bold(true),
	}
}

func levelColors(info string) map[zerolog.Level]string {
	return map[zerolog.Level]string{
		zerolog.TraceLevel: ColorGray60,
		zerolog.DebugLevel: ColorTeal40,
		zerolog.InfoLevel:  info,
		zerolog.WarnLevel:  ColorOrange40,
		zerolog.ErrorLevel: ColorRed60,
		zerolog.FatalLevel: ColorRedStrong,
		zerolog.PanicLevel: ColorRedStrong,
	}
}

//
// ---------- Dark Theme ----------

func DefaultStylesDark() *Styles {
	return &Styles{
		Timestamp:         lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray60)),
		Message:           lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray10)),
		Levels:            levelColors(ColorBlue60),
		Keys:              keyStyles(ColorBlue40),
		Values:            valueStyles(),
		DefaultKeyStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBlue40)),
		DefaultValueStyle: lipgloss.NewStyle(),
	}
}

//
// ---------- Light Theme ----------

func DefaultStylesLight() *Styles {
	return &Styles{
		Timestamp:         lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray60)),
		Message:           lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray90)),
		Levels:            levelColors(ColorBlue70),
		Keys:              keyStyles(ColorBlueBase),
		Values:            valueStyles(),
		DefaultKeyStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBlueBase)),
		DefaultValueStyle: lipgloss.NewStyle(),
	}
}

//
// ---------- Console Formatter ----------

// ConsoleWriterWithStyles builds a zerolog.ConsoleWriter rendering with styles.
// A nil Out writes to nothing.
func ConsoleWriterWithStyles(styles *Styles) zerolog.ConsoleWriter {
	out := styles.Out
	if out == nil {
		out = io.Discard
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "01-02 15:04:05",

		FormatLevel: func(i any) string {
			if i == nil {
				return ""
			}
			name := strings.ToLower(fmt.Sprint(i))
			lvl, err := zerolog.ParseLevel(name)
			color, ok := styles.Levels[lvl]
			if err != nil || !ok {
				color = ColorGray60
			}
			label := strings.ToUpper(name)
			if len(label) > 3 {
				label = label[:3]
			}
			return lipgloss.NewStyle().
				Foreground(lipgloss.Color("#ffffff")).
				Background(lipgloss.Color(color)).
				Padding(0, 1).
				Render(label)
		},

		FormatPrepare: func(evt map[string]any) error {
			for k, style := range styles.Values {
				if v, ok := evt[k]; ok {
					evt[k] = style.Render(fmt.Sprint(v))
				}
			}
			return nil
		},

		FormatTimestamp: func(i any) string {
			return styles.Timestamp.Render(fmt.Sprintf("[%s]", i))
		},

		FormatFieldName: func(i any) string {
			key := fmt.Sprint(i)
			style, ok := styles.Keys[key]
			if !ok {
				style = styles.DefaultKeyStyle
			}
			return style.Render(key) + lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray60)).Render("=")
		},

		FormatMessage: func(i any) string {
			if i == nil {
				return ""
			}
			return styles.Message.Render(fmt.Sprint(i))
		},
	}
}
