package packagetier

import (
	"github.com/billforgelabs/billforge/internal/packagetier/repository"
	"github.com/billforgelabs/billforge/internal/packagetier/service"
	"go.uber.org/fx"
)

var Module = fx.Module("packagetier.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
