package services

import (
	"log/slog"

	portsrepo "github.com/munshibooks/munshi_backend/internal/core/ports/repositories"
	portssvc "github.com/munshibooks/munshi_backend/internal/core/ports/services"
)

// NewServiceContainer creates the service container with its dependencies
// wired. The returned shutdown func drains the audit dispatcher; call it
// after the HTTP server has stopped.
func NewServiceContainer(logger *slog.Logger, repos portsrepo.RepositoryProvider) (*portssvc.ServiceContainer, func()) {
	dispatcher := NewAuditDispatcher(repos.AuditRepo, logger)

	container := &portssvc.ServiceContainer{
		Audit:     dispatcher,
		Journal:   NewJournalService(repos.JournalRepo, repos.AccountDirectory, dispatcher),
		Reporting: NewReportingService(repos.JournalRepo, repos.AccountDirectory),
	}
	return container, dispatcher.Close
}
