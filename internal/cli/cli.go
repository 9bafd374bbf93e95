package cli

import (
	"anvil-optimiser/internal/helpers"
	"os"

	"github.com/rs/zerolog"
)

type Flags struct {
	PurgeCache bool
	UseCache   bool
	Async      bool
	Input      string
	LogLevel   string
}

func constructFlags() Flags {
	return Flags{
		PurgeCache: false,
		UseCache:   false,
		Async:      false,
		Input:      "",
		LogLevel:   "info",
	}
}

func GetFlags() Flags {
	return ParseFlags(os.Args[1:])
}

func ParseFlags(args []string) Flags {
	flags := constructFlags()
	if helpers.ContainsStr(args, "--purge-cache") {
		flags.PurgeCache = true
	}
	if helpers.ContainsStr(args, "--use-cache") {
		flags.UseCache = true
	}
	if helpers.ContainsStr(args, "--async") {
		flags.Async = true
	}
	if value, ok := helpers.ValueForPrefix(args, "--input="); ok {
		flags.Input = value
	}
	if value, ok := helpers.ValueForPrefix(args, "--log-level="); ok {
		flags.LogLevel = value
	}

	return flags
}

// SetLogLevel sets the global zerolog level, unknown names fall back to info.
func SetLogLevel(level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}
