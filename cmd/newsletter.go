package cmd

import (
	"github.com/newus-learner-hub/hubgate/client"
	"github.com/urfave/cli/v2"
)

var newsletterCmd = &cli.Command{
	Name:      "newsletter",
	Usage:     "Subscribe an email address to the newsletter.",
	ArgsUsage: "<email>",
	Flags:     clientFlags,
	Action:    newsletterAction,
}

func newsletterAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.ShowSubcommandHelp(ctx)
	}

	api, err := newAPI(ctx)
	if err != nil {
		return err
	}

	envelope, err := api.SubscribeNewsletter(ctx.Context, client.Subscription{
		Email: ctx.Args().First(),
	})
	if err != nil {
		return userError(err)
	}

	return printEnvelope(ctx.App.Writer, envelope)
}

func init() {
	rootApp.Commands = append(rootApp.Commands, newsletterCmd)
}
