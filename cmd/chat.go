package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/newus-learner-hub/hubgate/catalog"
	"github.com/newus-learner-hub/hubgate/chat"
	"github.com/newus-learner-hub/hubgate/config"
	"github.com/newus-learner-hub/hubgate/util/conf"
	"github.com/newus-learner-hub/hubgate/util/logging"
	"github.com/urfave/cli/v2"
)

var chatCmd = &cli.Command{
	Name:      "chat",
	Usage:     "Ask the course assistant.",
	ArgsUsage: "[question]",
	Description: `With a question argument, chat prints a single reply. Without
one, it reads questions line by line from stdin and keeps the
conversation history between them.`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "api-key",
			Usage:    "the OpenRouter API key.",
			Category: "chat",
			EnvVars:  []string{"OPENROUTER_API_KEY"},
		},
		&cli.StringFlag{
			Name:     "model",
			Usage:    "the model to ask.",
			Category: "chat",
		},
	},
	Action: chatAction,
}

func chatAction(ctx *cli.Context) error {
	log, err := logging.LoggerFromContext(ctx.Context)
	if err != nil {
		return err
	}

	cfg, err := conf.Parse[config.Config](conf.ParseOptions{
		Defaults: config.DefaultConfig,
		FileName: ctx.Path("config"),
		EnvFile:  ctx.Path("env-file"),
		Log:      log,
		Cli:      ctx,
		CliMap: map[string]string{
			"api-key": "chat.api_key",
			"model":   "chat.model",
		},
	})
	if err != nil {
		return err
	}

	chatConfig := cfg.Chat

	courses, err := catalog.Default()
	if err != nil {
		return err
	}

	assistant, err := chat.NewAssistant(chat.Params{
		Config:  chatConfig,
		Catalog: courses,
		Log:     log.Named("chat"),
	})
	if err != nil {
		return err
	}

	if ctx.NArg() > 0 {
		return ask(ctx, assistant, strings.Join(ctx.Args().Slice(), " "))
	}

	scanner := bufio.NewScanner(ctx.App.Reader)
	for {
		fmt.Fprint(ctx.App.ErrWriter, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}

		if err := ask(ctx, assistant, question); err != nil {
			if errors.Is(err, chat.ErrNoAPIKey) {
				return err
			}
			fmt.Fprintf(ctx.App.ErrWriter, "error: %s\n", err)
		}
	}
}

func ask(ctx *cli.Context, assistant *chat.Assistant, question string) error {
	reply, err := assistant.Send(ctx.Context, question)
	if err != nil {
		return userError(err)
	}

	_, err = fmt.Fprintln(ctx.App.Writer, reply.Text)
	return err
}

func init() {
	rootApp.Commands = append(rootApp.Commands, chatCmd)
}
