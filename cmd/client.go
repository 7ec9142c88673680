package cmd

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/newus-learner-hub/hubgate/client"
	"github.com/newus-learner-hub/hubgate/config"
	"github.com/newus-learner-hub/hubgate/util/conf"
	"github.com/newus-learner-hub/hubgate/util/logging"
	"github.com/tidwall/pretty"
	"github.com/urfave/cli/v2"
)

// clientFlags are shared by every command talking to the lead backend.
var clientFlags = []cli.Flag{
	&cli.StringFlag{
		Name:     "api-url",
		Usage:    "the base URL of the lead backend.",
		Category: "client",
	},
	&cli.IntFlag{
		Name:     "max-retries",
		Usage:    "the number of retries after the first attempt.",
		Category: "client",
	},
	&cli.DurationFlag{
		Name:     "timeout",
		Usage:    "abort a single attempt after this duration.",
		Category: "client",
	},
}

// clientCliMap maps client flags onto their config keys.
var clientCliMap = map[string]string{
	"api-url":     "client.base_url",
	"max-retries": "client.max_retries",
	"timeout":     "client.timeout",
}

func clientConfig(ctx *cli.Context) (client.Config, error) {
	log, err := logging.LoggerFromContext(ctx.Context)
	if err != nil {
		return client.Config{}, err
	}

	cfg, err := conf.Parse[config.Config](conf.ParseOptions{
		Defaults: config.DefaultConfig,
		FileName: ctx.Path("config"),
		EnvFile:  ctx.Path("env-file"),
		Log:      log,
		Cli:      ctx,
		CliMap:   clientCliMap,
	})
	if err != nil {
		return client.Config{}, err
	}

	return cfg.Client, nil
}

func newAPI(ctx *cli.Context) (*client.API, error) {
	log, err := logging.LoggerFromContext(ctx.Context)
	if err != nil {
		return nil, err
	}

	cfg, err := clientConfig(ctx)
	if err != nil {
		return nil, err
	}

	return client.NewAPI(client.New(client.Params{
		Config: cfg,
		Log:    log.Named("client"),
	}))
}

// printEnvelope writes the normalized response body as indented JSON.
func printEnvelope(w io.Writer, envelope *client.Envelope) error {
	body, err := envelope.Map()
	if err != nil {
		return err
	}

	return printJSON(w, body)
}

func printJSON(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	_, err = w.Write(pretty.Pretty(data))
	return err
}

// userError replaces a client error with the message shown to site
// visitors. Errors without a friendlier message are returned as is.
func userError(err error) error {
	if err == nil {
		return nil
	}

	if msg := client.UserMessage(err); msg != err.Error() {
		return errors.New(msg)
	}

	return err
}
