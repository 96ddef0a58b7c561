package fact

import (
	"github.com/smallbiznis/salesdw/internal/fact/repository"
	"github.com/smallbiznis/salesdw/internal/fact/service"
	"go.uber.org/fx"
)

var Module = fx.Module("fact.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
