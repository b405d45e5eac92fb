package main

import (
	"os"

	"hotel/config"
	"hotel/helper"
	"hotel/shared/logger"

	"github.com/rs/zerolog/log"
)

const (
	argLength = 2
)

func main() {
	logger.InitLogger()

	if len(os.Args) < argLength {
		log.Fatal().Msg("Migration action is required: up, down, drop, step-up, version or force <version>")
	}

	cfg := config.Get()

	logger.SetLogLevel(cfg)

	action := helper.Action(os.Args[1])

	switch action {
	case helper.ActionUp, helper.ActionDown, helper.ActionDrop, helper.ActionStepUp, helper.ActionVersion, helper.ActionForce:
		if err := helper.Runner(cfg, action, os.Args[argLength:]...); err != nil {
			log.Fatal().Err(err).Str("action", string(action)).Msg("Migration failed")
		}
	default:
		log.Fatal().Str("action", string(action)).Msg("Invalid action. Use 'up', 'down', 'drop', 'step-up', 'version' or 'force'")
	}
}
