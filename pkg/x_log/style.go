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
	ColorGray60    = "#8d8d8d"
	ColorGray10    = "#f4f4f4"
)

//
// ---------- Styles Definition ----------

// Styles defines all formatting styles used for structured output
type Styles struct {
	Out               io.Writer                        // output target
	Timestamp         lipgloss.Style                   // style for timestamps
	Levels            map[zerolog.Level]lipgloss.Style // level badge backgrounds
	Keys              map[string]lipgloss.Style        // custom field keys
	Values            map[string]lipgloss.Style        // custom field values
	DefaultKeyStyle   lipgloss.Style                   // fallback for unknown keys
	DefaultValueStyle lipgloss.Style                   // fallback for unknown values
}

// DefaultStylesByName returns a theme by name ("dark", "light")
func DefaultStylesByName(name string) *Styles {
	switch strings.ToLower(name) {
	case "light":
		return DefaultStylesLight()
	default:
		return DefaultStylesDark()
	}
}

//
// ---------- Console Formatter ----------

// ConsoleWriterWithStyles builds a zerolog.ConsoleWriter with styles
func ConsoleWriterWithStyles(styles *Styles) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        styles.Out,
		TimeFormat: zerolog.TimeFieldFormat,

		FormatLevel: func(i any) string {
			name := strings.ToLower(fmt.Sprint(i))
			lvl, err := zerolog.ParseLevel(name)
			if err != nil || len(name) < 3 {
				return strings.ToUpper(name)
			}
			badge, ok := styles.Levels[lvl]
			if !ok {
				badge = lipgloss.NewStyle().Background(lipgloss.Color(ColorGray60))
			}
			return badge.
				Foreground(lipgloss.Color("#ffffff")).
				Padding(0, 1).
				Render(strings.ToUpper(name[:3]))
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
			eqStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray60))
			return style.Render(key) + eqStyle.Render("=")
		},

		FormatMessage: func(i any) string {
			if i == nil {
				return ""
			}
			return lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorGray10)).
				Render(fmt.Sprint(i))
		},
	}
}

//
// ---------- Themes ----------

func levelBadges() map[zerolog.Level]lipgloss.Style {
	return map[zerolog.Level]lipgloss.Style{
		zerolog.DebugLevel: lipgloss.NewStyle().Background(lipgloss.Color(ColorTeal40)),
		zerolog.InfoLevel:  lipgloss.NewStyle().Background(lipgloss.Color(ColorBlue60)),
		zerolog.WarnLevel:  lipgloss.NewStyle().Background(lipgloss.Color(ColorOrange40)),
		zerolog.ErrorLevel: lipgloss.NewStyle().Background(lipgloss.Color(ColorRed60)),
		zerolog.FatalLevel: lipgloss.NewStyle().Background(lipgloss.Color(ColorRedStrong)),
	}
}

func DefaultStylesDark() *Styles {
	key := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBlue40))
	return &Styles{
		Timestamp: lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorGray60)).
			Width(16),

		DefaultKeyStyle:   key,
		DefaultValueStyle: lipgloss.NewStyle(),
		Levels:            levelBadges(),

		Keys: map[string]lipgloss.Style{
			"engine": key,
			"module": key,
			"num":    key,
			"target": key,
			"op":     key,
			"err":    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRed60)),
		},

		Values: map[string]lipgloss.Style{
			"num":    lipgloss.NewStyle().Bold(true),
			"target": lipgloss.NewStyle().Bold(true),
			"err":    lipgloss.NewStyle().Bold(true),
		},
	}
}

func DefaultStylesLight() *Styles {
	key := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBlueBase))
	s := DefaultStylesDark()
	s.DefaultKeyStyle = key
	for k := range s.Keys {
		if k != "err" {
			s.Keys[k] = key
		}
	}
	s.Levels[zerolog.InfoLevel] = lipgloss.NewStyle().Background(lipgloss.Color(ColorBlue70))
	return s
}
