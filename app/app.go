package app

import (
	"github.com/newus-learner-hub/hubgate/config"
	"github.com/newus-learner-hub/hubgate/internal/shell"
	"github.com/newus-learner-hub/hubgate/util/conf"
	"github.com/newus-learner-hub/hubgate/util/logging"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"
)

func New(ctx *cli.Context) (*shell.Shell, error) {
	log, err := logging.LoggerFromContext(ctx.Context)
	if err != nil {
		return nil, err
	}

	config, err := conf.GetConfigFromContext[config.Config](ctx.Context)
	if err != nil {
		return nil, err
	}

	sharedModule := fx.Module(
		"shared",
		// provide global config
		fx.Supply(config),
		// provide proxy config
		fx.Supply(config.Proxy),
	)

	return shell.New(log, sharedModule), nil
}
