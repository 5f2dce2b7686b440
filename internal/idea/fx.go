package idea

import (
	"github.com/smallbiznis/ideabox/internal/idea/repository"
	"github.com/smallbiznis/ideabox/internal/idea/service"
	"go.uber.org/fx"
)

var Module = fx.Module("idea.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
