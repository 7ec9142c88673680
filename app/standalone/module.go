package standalone

import (
	"go.uber.org/fx"

	"github.com/newus-learner-hub/hubgate/handler"
	"github.com/newus-learner-hub/hubgate/internal/server"
	"github.com/newus-learner-hub/hubgate/util/logging"
)

func Module(config Config) fx.Option {
	return fx.Module(
		"serve",
		// rename logger for module
		logging.DecorateLogger("serve"),
		// provide handlers
		handler.Module(),
		// provide server
		server.Module(config.HttpConfig),
	)
}
