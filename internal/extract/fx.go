package extract

import (
	"github.com/smallbiznis/salesdw/internal/extract/service"
	"go.uber.org/fx"
)

var Module = fx.Module("extract.service",
	fx.Provide(service.New),
)
