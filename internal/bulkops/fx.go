package bulkops

import (
	"github.com/smallbiznis/ideabox/internal/bulkops/service"
	"go.uber.org/fx"
)

var Module = fx.Module("bulkops.service",
	fx.Provide(service.New),
)
