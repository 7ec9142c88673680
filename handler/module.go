package handler

import (
	"go.uber.org/fx"

	"github.com/newus-learner-hub/hubgate/proxy"
)

func Module() fx.Option {
	return fx.Module("handler",
		// provide proxy
		fx.Provide(fx.Annotate(proxy.New, fx.As(new(proxy.Handler)))),
		// provide http adapter
		fx.Provide(NewProxyHandler),
		// provide routes
		fx.Provide(NewProxyRoute),
		fx.Provide(NewHealthRoute),
		fx.Provide(NewGoneRoute),
	)
}
