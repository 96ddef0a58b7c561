package staging

import (
	"github.com/smallbiznis/salesdw/internal/staging/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("staging.repository",
	fx.Provide(repository.Provide),
)
