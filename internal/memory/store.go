// Package memory persists conversation history: the in-flight conversation
// plus one JSON document per finished conversation, with an LRU cache in
// front of the files read back for recent-message retrieval.
package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"tarius/internal/logging"
)

// TimeLayout matches the event/task stores: local wall-clock, second
// resolution.
const TimeLayout = "2006-01-02T15:04:05"

const conversationCacheSize = 32

// Message is one utterance in a conversation. Speaker is "user" or "ai".
type Message struct {
	Speaker   string
	Content   string
	Timestamp time.Time
}

// Conversation is an ordered message sequence with a time-derived id.
type Conversation struct {
	ID        string
	StartTime time.Time
	Messages  []Message
}

type messageRecord struct {
	Speaker   string `json:"speaker"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

type conversationRecord struct {
	ID        string          `json:"id"`
	StartTime string          `json:"startTime"`
	Messages  []messageRecord `json:"messages"`
}

// Store accumulates the current conversation and serves recent messages
// across it and previously persisted conversations.
type Store struct {
	dir    string
	logger logging.Logger
	now    func() time.Time

	mu      sync.Mutex
	current Conversation
	cache   *lru.Cache[string, Conversation]
}

// NewStore creates the conversation directory when needed and starts a fresh
// conversation.
func NewStore(dir string, logger logging.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create conversations dir: %w", err)
	}

	cache, err := lru.New[string, Conversation](conversationCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create conversation cache: %w", err)
	}

	s := &Store{
		dir:    dir,
		logger: logging.OrNop(logger),
		now:    time.Now,
		cache:  cache,
	}
	s.startNewLocked()
	return s, nil
}

// WithClock overrides the wall clock used for message timestamps and
// conversation ids.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

// AddMessage appends to the current conversation and rewrites its document.
func (s *Store) AddMessage(speaker, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current.Messages = append(s.current.Messages, Message{
		Speaker:   speaker,
		Content:   content,
		Timestamp: s.now(),
	})
	return s.saveLocked(s.current)
}

// StartNewConversation persists the current conversation and begins a fresh
// one.
func (s *Store) StartNewConversation() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if len(s.current.Messages) > 0 {
		err = s.saveLocked(s.current)
	}
	s.startNewLocked()
	return err
}

// RecentMessages returns the last count messages in chronological order,
// reaching back through persisted conversations when the current one is too
// short.
func (s *Store) RecentMessages(count int) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	if count <= 0 {
		return nil
	}

	messages := append([]Message(nil), s.current.Messages...)
	if len(messages) < count {
		for _, id := range s.persistedIDsLocked() {
			if id == s.current.ID {
				continue
			}
			conv, ok := s.loadLocked(id)
			if !ok {
				continue
			}
			messages = append(append([]Message(nil), conv.Messages...), messages...)
			if len(messages) >= count {
				break
			}
		}
	}

	if len(messages) > count {
		messages = messages[len(messages)-count:]
	}
	return messages
}

// Conversation returns a persisted conversation by id.
func (s *Store) Conversation(id string) (Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == s.current.ID {
		return s.current, true
	}
	return s.loadLocked(id)
}

// ConversationIDs lists persisted conversation ids, most recent first.
func (s *Store) ConversationIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistedIDsLocked()
}

// Close persists the current conversation. Call at shutdown.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.current.Messages) == 0 {
		return nil
	}
	return s.saveLocked(s.current)
}

func (s *Store) startNewLocked() {
	start := s.now()
	s.current = Conversation{
		ID:        "conv_" + start.Format("20060102_150405"),
		StartTime: start,
	}
}

// persistedIDsLocked returns conversation ids sorted most recent first. The
// time-derived id format makes lexical order chronological.
func (s *Store) persistedIDsLocked() []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.logger.Error("Failed to list conversations: %v", err)
		return nil
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Sort(sort.Reverse(sort.StringSlice(ids)))
	return ids
}

func (s *Store) loadLocked(id string) (Conversation, bool) {
	if conv, ok := s.cache.Get(id); ok {
		return conv, true
	}

	path := filepath.Join(s.dir, id+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Error("Failed to read conversation %s: %v", id, err)
		}
		return Conversation{}, false
	}

	var record Conversation
	record, err = decodeConversation(data)
	if err != nil {
		s.logger.Error("Failed to decode conversation %s: %v", id, err)
		return Conversation{}, false
	}

	s.cache.Add(id, record)
	return record, true
}

func (s *Store) saveLocked(conv Conversation) error {
	record := conversationRecord{
		ID:        conv.ID,
		StartTime: conv.StartTime.Format(TimeLayout),
	}
	for _, msg := range conv.Messages {
		record.Messages = append(record.Messages, messageRecord{
			Speaker:   msg.Speaker,
			Content:   msg.Content,
			Timestamp: msg.Timestamp.Format(TimeLayout),
		})
	}

	data, err := json.MarshalIndent(record, "", "    ")
	if err != nil {
		return fmt.Errorf("encode conversation: %w", err)
	}

	path := filepath.Join(s.dir, conv.ID+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		s.logger.Error("Failed to write conversation %s: %v", conv.ID, err)
		return fmt.Errorf("write conversation: %w", err)
	}

	// Keep the cache coherent with what just hit disk.
	s.cache.Add(conv.ID, conv)
	return nil
}

func decodeConversation(data []byte) (Conversation, error) {
	var record conversationRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return Conversation{}, err
	}

	conv := Conversation{ID: record.ID}
	if start, err := time.ParseInLocation(TimeLayout, record.StartTime, time.Local); err == nil {
		conv.StartTime = start
	}
	for _, msg := range record.Messages {
		ts, err := time.ParseInLocation(TimeLayout, msg.Timestamp, time.Local)
		if err != nil {
			ts = conv.StartTime
		}
		conv.Messages = append(conv.Messages, Message{
			Speaker:   msg.Speaker,
			Content:   msg.Content,
			Timestamp: ts,
		})
	}
	return conv, nil
}
