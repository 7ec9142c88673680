package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/newus-learner-hub/hubgate/client"
	"github.com/newus-learner-hub/hubgate/util/logging"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var healthCmd = &cli.Command{
	Name:  "health",
	Usage: "Check the health of the lead backend.",
	Flags: append([]cli.Flag{
		&cli.DurationFlag{
			Name:  "watch",
			Usage: "keep checking at this interval until interrupted.",
		},
	}, clientFlags...),
	Action: healthAction,
}

func healthAction(ctx *cli.Context) error {
	api, err := newAPI(ctx)
	if err != nil {
		return err
	}

	interval := ctx.Duration("watch")
	if interval <= 0 {
		envelope, err := api.CheckHealth(ctx.Context)
		if err != nil {
			return userError(err)
		}
		return printEnvelope(ctx.App.Writer, envelope)
	}

	log, err := logging.LoggerFromContext(ctx.Context)
	if err != nil {
		return err
	}

	watchCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	monitor := client.NewHealthMonitor(api, interval/2)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastOK time.Time
	for {
		if _, err := monitor.Check(watchCtx); err != nil {
			fields := []zap.Field{zap.String("error", client.UserMessage(err))}
			if !lastOK.IsZero() {
				fields = append(fields, zap.String("last_ok", humanize.Time(lastOK)))
			}
			log.Warn("backend unhealthy", fields...)
		} else {
			lastOK = time.Now()
			log.Info("backend healthy")
		}

		select {
		case <-watchCtx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func init() {
	rootApp.Commands = append(rootApp.Commands, healthCmd)
}
