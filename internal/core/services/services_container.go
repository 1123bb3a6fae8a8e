package services

import (
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// publisher receives post-commit events; nil disables them.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher portssvc.EventPublisher) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The resolver is shared: reconciliation depends on it.
	container.Resolver = NewOpposingLegResolver(repos.JournalRepo)
	container.Reconciler = NewReconciliationService(repos.JournalRepo, container.Resolver, publisher)
	container.Converter = NewConversionService(repos.JournalRepo, repos.AccountRepo, publisher)
	container.Query = NewQueryService(repos.JournalRepo, repos.AccountRepo, repos.NoteRepo)

	return container
}
