package audit

import (
	"github.com/billforgelabs/billforge/internal/audit/repository"
	"github.com/billforgelabs/billforge/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
	fx.Provide(service.NewExportService),
)
