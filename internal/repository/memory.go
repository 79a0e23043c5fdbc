package repository

// NewMemoryRepositories wires the in-memory variant of every store. Used by
// tests and useful for running the service without external backends.
func NewMemoryRepositories() Repositories {
	return &repositories{
		entrantRepository: NewMemoryEntrantRepository(),
		ledgerRepository:  NewMemoryLedgerRepository(),
		counterRepository: NewMemoryCounterRepository(),
		userRepository:    NewMemoryUserRepository(),
	}
}
