package evaluation

import (
	"github.com/smallbiznis/ideabox/internal/evaluation/repository"
	"github.com/smallbiznis/ideabox/internal/evaluation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("evaluation.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
