// Package autoload configures the global logger from the environment as
// a side effect of being imported.
package autoload

import (
	configx "github.com/contractdesk/contractdesk/pkg/config"
	logx "github.com/contractdesk/contractdesk/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))
}
