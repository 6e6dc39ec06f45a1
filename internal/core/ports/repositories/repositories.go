package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	Entries   EntryRepository
	Accounts  LedgerAccountDirectory
	Periods   PeriodDirectory
	Snapshots PostedSnapshotStore
	TagTypes  TagTypeDirectory
	Reader    ReadSnapshotRunner
}

// NewRepositoryProvider wires a single adapter that implements every port.
func NewRepositoryProvider(repo ReportingRepositoryFacade) RepositoryProvider {
	return RepositoryProvider{
		Entries:   repo,
		Accounts:  repo,
		Periods:   repo,
		Snapshots: repo,
		TagTypes:  repo,
		Reader:    repo,
	}
}
