package services

import (
	portsrepo "github.com/SscSPs/ledger_reports/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_reports/internal/core/ports/services"
	"github.com/SscSPs/ledger_reports/internal/platform/config"
	"github.com/SscSPs/ledger_reports/internal/utils/accounting"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Reporting: NewReportingService(repos, WithPrecision(accounting.Precision{
			Scale: cfg.ReportDecimalScale,
			Mode:  cfg.ReportRoundingMode,
		})),
	}
}
