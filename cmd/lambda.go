package cmd

import (
	"github.com/newus-learner-hub/hubgate/app"
	"github.com/newus-learner-hub/hubgate/app/lambda"
	"github.com/newus-learner-hub/hubgate/util/conf"
	"github.com/newus-learner-hub/hubgate/util/logging"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var (
	lambdaCmdDescription = `The lambda command starts the proxy as an AWS Lambda runtime
interface client, so it can be invoked directly by API Gateway
or an Application Load Balancer.

The command will start the AWS runtime interface client and
blocks indefinitely, processing incoming AWS Lambda events.`
	lambdaCmd = &cli.Command{
		Name:        "lambda",
		Usage:       "Run the AWS Lambda handler",
		Description: lambdaCmdDescription,
		Action:      lambdaAction,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "lambda-proxy-source",
				Usage:    "the source of the AWS Lambda event. Options: API_GW_V1, API_GW_V2, ALB.",
				Value:    "API_GW_V2",
				EnvVars:  []string{"LAMBDA_PROXY_SOURCE"},
				Category: "lambda",
			},
		},
	}
)

func lambdaAction(ctx *cli.Context) error {
	log, err := logging.LoggerFromContext(ctx.Context)
	if err != nil {
		return err
	}

	app, err := app.New(ctx)
	if err != nil {
		return err
	}

	cfg, err := lambdaConfig(ctx, log)
	if err != nil {
		return err
	}

	log.Info("starting AWS Lambda handler", zap.Stringer("source", cfg.ProxySource))

	return app.Run(ctx.Context, lambda.Module(cfg))
}

func lambdaConfig(ctx *cli.Context, log *zap.Logger) (lambda.Config, error) {
	return conf.Parse[lambda.Config](conf.ParseOptions{
		Defaults: conf.DefaultConfig{
			"lambda_proxy_source": string(lambda.ProxySourceApiGatewayV2),
		},
		Log: log,
		Cli: ctx,
	})
}

func init() {
	rootApp.Commands = append(rootApp.Commands, lambdaCmd)
}
