package main

import (
	"github.com/danmuck/fieldmux/internal/config"
	"github.com/danmuck/fieldmux/internal/msg"
	"github.com/rs/zerolog"
)

// builtinActions are the actions a table config may name. Each receives the
// router's logger as its extra argument.
func builtinActions() config.Actions[zerolog.Logger] {
	return config.Actions[zerolog.Logger]{
		"log": func(m msg.Message, logger zerolog.Logger) bool {
			logger.Info().Stringer("msg", m).Msg("dispatch")
			return true
		},
		"drop": func(msg.Message, zerolog.Logger) bool {
			return true
		},
		"decline": func(m msg.Message, logger zerolog.Logger) bool {
			logger.Debug().Stringer("msg", m).Msg("declined")
			return false
		},
	}
}
