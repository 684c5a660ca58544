package product

import (
	"go.uber.org/zap"
)

// NewModule wires the catalog around repo, which is either the MySQL or the
// Postgres implementation from the repository package.
func NewModule(repo Repository, logger *zap.Logger) *Controller {
	svc := NewService(repo)
	uc := NewUseCase(svc, repo)
	return NewController(uc, logger)
}
