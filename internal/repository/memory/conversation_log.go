package memory

import (
	"sync"

	"ai-dategame-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

const logKey = "conversation_log"

// ConversationLog keeps the per-process turn history. Turns live as long as
// the process; go-cache holds the slice with no expiry, the mutex serializes
// the read-modify-write append.
type ConversationLog struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewConversationLog() *ConversationLog {
	return &ConversationLog{
		cache: cache.New(cache.NoExpiration, cache.NoExpiration),
	}
}

func (l *ConversationLog) Append(turn *entity.ConversationTurn) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	turns := l.snapshot()
	turns = append(turns, turn)
	l.cache.Set(logKey, turns, cache.NoExpiration)
	return len(turns) - 1
}

func (l *ConversationLog) GetAll() []*entity.ConversationTurn {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

// GetByCharacter returns the turns recorded for one character.
func (l *ConversationLog) GetByCharacter(characterId string) []*entity.ConversationTurn {
	l.mu.Lock()
	defer l.mu.Unlock()

	var filtered []*entity.ConversationTurn
	for _, turn := range l.snapshot() {
		if turn.CharacterId == characterId {
			filtered = append(filtered, turn)
		}
	}
	return filtered
}

// Clear drops every turn for the given character, or the whole log when
// characterId is empty.
func (l *ConversationLog) Clear(characterId string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if characterId == "" {
		l.cache.Delete(logKey)
		return
	}

	var kept []*entity.ConversationTurn
	for _, turn := range l.snapshot() {
		if turn.CharacterId != characterId {
			kept = append(kept, turn)
		}
	}
	l.cache.Set(logKey, kept, cache.NoExpiration)
}

func (l *ConversationLog) snapshot() []*entity.ConversationTurn {
	if x, found := l.cache.Get(logKey); found {
		if turns, ok := x.([]*entity.ConversationTurn); ok {
			return turns
		}
	}
	return nil
}
