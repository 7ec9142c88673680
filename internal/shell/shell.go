package shell

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Shell runs an fx application until the OS asks it to stop and
// translates the outcome into a process exit code.
type Shell struct {
	log     *zap.Logger
	options []fx.Option
}

func New(log *zap.Logger, options ...fx.Option) *Shell {
	return &Shell{
		log:     log,
		options: options,
	}
}

// Run blocks until the application receives a shutdown signal. The
// returned error is always an *ExitError.
func (s *Shell) Run(ctx context.Context, options ...fx.Option) error {
	defer s.log.Sync()

	appCtx, cancelApp := context.WithCancel(ctx)
	defer cancelApp()

	app := s.createFxApp(appCtx, options...)

	startCtx, cancelStart := context.WithTimeout(ctx, app.StartTimeout())
	defer cancelStart()

	if err := app.Start(startCtx); err != nil {
		s.log.Error("failed to start", zap.Error(err))
		return NewExitError(1)
	}

	sig := <-app.Wait()

	stopCtx, cancelStop := context.WithTimeout(ctx, app.StopTimeout())
	defer cancelStop()

	if err := app.Stop(stopCtx); err != nil {
		s.log.Error("failed to stop gracefully", zap.Error(err))
		return NewExitError(1)
	}

	return NewExitError(sig.ExitCode)
}

func (s *Shell) createFxApp(ctx context.Context, options ...fx.Option) *fx.App {
	return fx.New(
		// application-wide context, cancelled once Run returns
		fx.Supply(fx.Annotate(ctx, fx.As(new(context.Context)))),

		fx.Supply(s.log),
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: s.log.Named("fx")}
		}),

		fx.Options(s.options...),
		fx.Options(options...),
	)
}
