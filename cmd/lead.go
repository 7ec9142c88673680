package cmd

import (
	"github.com/newus-learner-hub/hubgate/client"
	"github.com/urfave/cli/v2"
)

var leadCmd = &cli.Command{
	Name:  "lead",
	Usage: "Submit a contact lead to the backend.",
	Flags: append([]cli.Flag{
		&cli.StringFlag{Name: "first-name", Required: true},
		&cli.StringFlag{Name: "last-name", Required: true},
		&cli.StringFlag{Name: "email", Required: true},
		&cli.StringFlag{Name: "phone", Required: true},
		&cli.StringFlag{Name: "message", Aliases: []string{"m"}},
	}, clientFlags...),
	Action: leadAction,
}

func leadAction(ctx *cli.Context) error {
	api, err := newAPI(ctx)
	if err != nil {
		return err
	}

	envelope, err := api.SubmitLead(ctx.Context, client.Lead{
		FirstName: ctx.String("first-name"),
		LastName:  ctx.String("last-name"),
		Email:     ctx.String("email"),
		Phone:     ctx.String("phone"),
		Message:   ctx.String("message"),
	})
	if err != nil {
		return userError(err)
	}

	return printEnvelope(ctx.App.Writer, envelope)
}

func init() {
	rootApp.Commands = append(rootApp.Commands, leadCmd)
}
