// Package settings keeps per-user preferences in memory for the lifetime of
// the process. Nothing is persisted; a restart resets every user to the
// configured defaults.
package settings

import "sync"

// UserSettings holds one user's pipeline preferences. Created lazily on
// first interaction and mutated only by explicit user commands.
type UserSettings struct {
	TargetLanguage       string
	SourceLanguage       string
	UseLLMTranslation    bool
	ImproveExtractedText bool
}

// Defaults returns the settings a new user starts with.
func Defaults(sourceLang, targetLang string) UserSettings {
	if sourceLang == "" {
		sourceLang = "auto"
	}
	if targetLang == "" {
		targetLang = "en"
	}
	return UserSettings{
		TargetLanguage:       targetLang,
		SourceLanguage:       sourceLang,
		UseLLMTranslation:    true,
		ImproveExtractedText: true,
	}
}

// Store is a mutex-guarded settings map keyed by user ID. It supports
// concurrent reads and updates from independent update handlers.
type Store struct {
	mu       sync.RWMutex
	users    map[int64]UserSettings
	defaults UserSettings
}

// NewStore creates a Store handing out the given defaults to unseen users.
func NewStore(defaults UserSettings) *Store {
	return &Store{
		users:    make(map[int64]UserSettings),
		defaults: defaults,
	}
}

// Get returns the settings for a user, creating the default entry on first
// access.
func (s *Store) Get(userID int64) UserSettings {
	s.mu.RLock()
	us, ok := s.users[userID]
	s.mu.RUnlock()
	if ok {
		return us
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if us, ok := s.users[userID]; ok {
		return us
	}
	s.users[userID] = s.defaults
	return s.defaults
}

// Update applies fn to the user's settings under the lock, creating the
// default entry first if needed.
func (s *Store) Update(userID int64, fn func(*UserSettings)) UserSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	us, ok := s.users[userID]
	if !ok {
		us = s.defaults
	}
	fn(&us)
	s.users[userID] = us
	return us
}
