package services

import "sync"

// AccountLocks serializes all balance-mutating work for a single user.
// The bridge and order services hold a user's lock across their
// funds-check and debit so two concurrent executions cannot both pass
// the check against the same stale balance.
type AccountLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewAccountLocks creates an empty lock table.
func NewAccountLocks() *AccountLocks {
	return &AccountLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the lock for userAddress, creating it on first use.
func (a *AccountLocks) Lock(userAddress string) {
	a.mu.Lock()
	lock, ok := a.locks[userAddress]
	if !ok {
		lock = &sync.Mutex{}
		a.locks[userAddress] = lock
	}
	a.mu.Unlock()

	lock.Lock()
}

// Unlock releases the lock for userAddress. Unlocking a key that was
// never locked is a programming error and panics with the key.
func (a *AccountLocks) Unlock(userAddress string) {
	a.mu.Lock()
	lock, ok := a.locks[userAddress]
	a.mu.Unlock()

	if !ok {
		panic("unlock of account lock never acquired: " + userAddress)
	}
	lock.Unlock()
}
