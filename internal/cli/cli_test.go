package cli

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseFlags(t *testing.T) {
	flags := ParseFlags([]string{"--use-cache", "--input=plans/sword.yaml", "--log-level=debug"})

	assert.True(t, flags.UseCache)
	assert.False(t, flags.PurgeCache)
	assert.False(t, flags.Async)
	assert.Equal(t, "plans/sword.yaml", flags.Input)
	assert.Equal(t, "debug", flags.LogLevel)
}

func TestParseFlags_Defaults(t *testing.T) {
	flags := ParseFlags(nil)

	assert.Equal(t, constructFlags(), flags)
	assert.Equal(t, "info", flags.LogLevel)
}

func TestSetLogLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.GlobalLevel())

	SetLogLevel("warn")
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	SetLogLevel("nonsense")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
