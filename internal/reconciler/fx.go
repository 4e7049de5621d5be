package reconciler

import (
	"github.com/billforgelabs/billforge/internal/reconciler/service"
	"go.uber.org/fx"
)

var Module = fx.Module("reconciler.service",
	fx.Provide(service.New),
)
