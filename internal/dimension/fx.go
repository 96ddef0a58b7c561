package dimension

import (
	"github.com/smallbiznis/salesdw/internal/dimension/repository"
	"github.com/smallbiznis/salesdw/internal/dimension/service"
	"go.uber.org/fx"
)

var Module = fx.Module("dimension.service",
	fx.Provide(repository.ProvideCustomer),
	fx.Provide(repository.ProvideProduct),
	fx.Provide(service.New),
)
