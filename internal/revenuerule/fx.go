package revenuerule

import (
	"github.com/billforgelabs/billforge/internal/revenuerule/repository"
	"github.com/billforgelabs/billforge/internal/revenuerule/service"
	"go.uber.org/fx"
)

var Module = fx.Module("revenuerule.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
