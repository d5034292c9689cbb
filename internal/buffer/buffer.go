package buffer

import (
	"sort"
	"sync"
	"time"

	"github.com/yoockh/nebula/internal/models"
)

// Buffer is the process-wide store of recent media entries. It is bounded two
// ways: a fixed capacity (inserting at capacity evicts the globally oldest
// entry) and an age sweep (CleanupExpired). Entries are copied out through the
// accessors; callers never hold references into the map.
//
// All mutations take the write lock; reads take the read lock so concurrent
// pipeline runs never observe a half-updated entry.
type Buffer struct {
	mu      sync.RWMutex
	maxSize int
	entries map[string]*models.MediaEntry

	now func() time.Time
}

func New(maxSize int) *Buffer {
	if maxSize <= 0 {
		maxSize = 100
	}
	return &Buffer{
		maxSize: maxSize,
		entries: make(map[string]*models.MediaEntry, maxSize),
		now:     time.Now,
	}
}

// AddEntry stores a new entry stamped with the current time and returns its
// key. When the buffer is full, the single oldest entry is evicted first.
func (b *Buffer) AddEntry(chatID, messageID, userID int64, filepath string, duration int) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := models.EntryKey(chatID, messageID)

	if len(b.entries) >= b.maxSize {
		var oldestKey string
		var oldestTime time.Time
		for k, e := range b.entries {
			if oldestKey == "" || e.Timestamp.Before(oldestTime) {
				oldestKey = k
				oldestTime = e.Timestamp
			}
		}
		delete(b.entries, oldestKey)
	}

	b.entries[key] = &models.MediaEntry{
		ChatID:    chatID,
		MessageID: messageID,
		UserID:    userID,
		Filepath:  filepath,
		Timestamp: b.now().UTC(),
		Duration:  duration,
	}
	return key
}

// GetEntry returns a copy of the entry for key, or false when the key is
// absent (including after eviction).
func (b *Buffer) GetEntry(key string) (models.MediaEntry, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, ok := b.entries[key]
	if !ok {
		return models.MediaEntry{}, false
	}
	return *e, true
}

// UpdateTranscription fills the transcription of an existing entry in place.
// Returns false when the key is absent.
func (b *Buffer) UpdateTranscription(key, transcription string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.entries[key]
	if !ok {
		return false
	}
	e.Transcription = transcription
	return true
}

// GetChatHistory returns up to limit entries for the chat, most recent first.
// Entries without a transcription are included; filtering on transcription
// presence is the caller's job.
func (b *Buffer) GetChatHistory(chatID int64, limit int) []models.MediaEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []models.MediaEntry
	for _, e := range b.entries {
		if e.ChatID == chatID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CleanupExpired removes every entry older than maxAge and returns the number
// removed.
func (b *Buffer) CleanupExpired(maxAge time.Duration) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	cutoff := b.now().UTC().Add(-maxAge)
	removed := 0
	for k, e := range b.entries {
		if e.Timestamp.Before(cutoff) {
			delete(b.entries, k)
			removed++
		}
	}
	return removed
}

// Len reports the current number of entries.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}
