package vault

// SeedAccount is a test helper that plants an account directly when using the
// in-memory store.
func SeedAccount(s Store, principal string, acct Account) {
	if mem, ok := s.(*memoryStore); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		mem.accounts[principal] = acct
		mem.custody += acct.Balance
	}
}
