package x_log

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestStylesByName(t *testing.T) {
	for _, name := range []string{"dark", "light", "unknown"} {
		styles := DefaultStylesByName(name)
		for _, lvl := range []zerolog.Level{zerolog.DebugLevel, zerolog.InfoLevel, zerolog.WarnLevel, zerolog.ErrorLevel, zerolog.FatalLevel} {
			_, ok := styles.Levels[lvl]
			assert.True(t, ok, "%s theme misses level %s", name, lvl)
		}
		assert.Contains(t, styles.Keys, "engine")
	}
}

func TestLightThemeDoesNotTouchDark(t *testing.T) {
	dark := DefaultStylesDark()
	_ = DefaultStylesLight()
	assert.Equal(t, DefaultStylesDark().Keys["num"].Render("x"), dark.Keys["num"].Render("x"))
}

func TestConsoleWriterFields(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(ConsoleWriterWithStyles(&Styles{Out: &buf})).With().Timestamp().Logger()

	logger.Debug().Msg("debug line")
	logger.Info().Str("num", "123").Str("target", "9").Msg("forwarding added")
	logger.Error().Err(assert.AnError).Msg("failed")

	out := buf.String()
	assert.Contains(t, out, "debug line")
	assert.Contains(t, out, "num=123")
	assert.Contains(t, out, "target=9")
	assert.Contains(t, out, "forwarding added")
	assert.Contains(t, out, assert.AnError.Error())
}
