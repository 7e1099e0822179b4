// Package twin is the deterministic conversational fallback for input the
// secretary does not claim. It answers from an ordered pattern table; a real
// text-generation backend can replace it without touching the routing layer.
package twin

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"tarius/internal/logging"
	"tarius/internal/memory"
)

// responseRule pairs trigger substrings with a reply. Rules are evaluated in
// order and the first match wins; requireAll demands every trigger.
type responseRule struct {
	triggers   []string
	requireAll bool
	respond    func(t *Twin) string
}

// Twin generates rule-based replies and records both sides of the exchange in
// conversation memory.
type Twin struct {
	memory *memory.Store
	logger logging.Logger
	now    func() time.Time
	rng    *rand.Rand
	rules  []responseRule
}

// New creates a Twin. memory may be nil, in which case exchanges are not
// recorded.
func New(mem *memory.Store, logger logging.Logger) *Twin {
	t := &Twin{
		memory: mem,
		logger: logging.OrNop(logger),
		now:    time.Now,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	t.rules = defaultRules()
	return t
}

// WithClock overrides the wall clock for the time/date rules.
func (t *Twin) WithClock(now func() time.Time) *Twin {
	t.now = now
	return t
}

// WithSeed makes response selection deterministic.
func (t *Twin) WithSeed(seed int64) *Twin {
	t.rng = rand.New(rand.NewSource(seed))
	return t
}

// GenerateResponse produces a reply for the input and records the exchange.
func (t *Twin) GenerateResponse(input string) string {
	t.record("user", input)
	response := t.respond(input)
	t.record("ai", response)
	return response
}

func (t *Twin) respond(input string) string {
	lower := strings.ToLower(input)
	for _, rule := range t.rules {
		if rule.matches(lower) {
			return rule.respond(t)
		}
	}
	return defaultResponses[t.rng.Intn(len(defaultResponses))]
}

func (t *Twin) record(speaker, content string) {
	if t.memory == nil {
		return
	}
	if err := t.memory.AddMessage(speaker, content); err != nil {
		t.logger.Warn("Failed to record %s message: %v", speaker, err)
	}
}

func (r responseRule) matches(lower string) bool {
	if r.requireAll {
		for _, trigger := range r.triggers {
			if !strings.Contains(lower, trigger) {
				return false
			}
		}
		return true
	}
	for _, trigger := range r.triggers {
		if strings.Contains(lower, trigger) {
			return true
		}
	}
	return false
}

var jokes = []string{
	"Why don't scientists trust atoms? Because they make up everything!",
	"Why did the scarecrow win an award? Because he was outstanding in his field!",
	"I told my wife she was drawing her eyebrows too high. She looked surprised.",
	"What do you call a fake noodle? An impasta!",
	"How does a computer get drunk? It takes screenshots!",
}

var defaultResponses = []string{
	"I understand what you're saying. Can you tell me more?",
	"That's interesting. How can I help you with that?",
	"I'm still learning, but I'd like to understand more about what you need.",
	"Could you provide more details so I can assist you better?",
	"I'm here to help. What specifically would you like me to do?",
}

func defaultRules() []responseRule {
	return []responseRule{
		{
			triggers: []string{"hello", "hi"},
			respond: func(*Twin) string {
				return "Hello! How can I assist you today?"
			},
		},
		{
			triggers: []string{"how are you"},
			respond: func(*Twin) string {
				return "I'm functioning well, thank you for asking! How are you doing?"
			},
		},
		{
			triggers:   []string{"your", "name"},
			requireAll: true,
			respond: func(*Twin) string {
				return "I'm Tarius, your personal AI twin. I'm designed to assist you and learn from our interactions."
			},
		},
		{
			triggers: []string{"thank"},
			respond: func(*Twin) string {
				return "You're welcome! I'm happy to help."
			},
		},
		{
			triggers: []string{"bye", "goodbye"},
			respond: func(*Twin) string {
				return "Goodbye! Feel free to chat again anytime."
			},
		},
		{
			triggers: []string{"weather"},
			respond: func(*Twin) string {
				return "I don't have access to real-time weather data yet, but I'll be able to provide forecasts in the future."
			},
		},
		{
			triggers: []string{"time"},
			respond: func(t *Twin) string {
				return fmt.Sprintf("The current time is %s", t.now().Format("15:04:05"))
			},
		},
		{
			triggers: []string{"date"},
			respond: func(t *Twin) string {
				return fmt.Sprintf("Today's date is %s", t.now().Format("2006-01-02"))
			},
		},
		{
			triggers: []string{"joke"},
			respond: func(t *Twin) string {
				return jokes[t.rng.Intn(len(jokes))]
			},
		},
		{
			triggers: []string{"help"},
			respond: func(*Twin) string {
				return "I can help you with various tasks like scheduling events, setting reminders, and having conversations. Just tell me what you need!"
			},
		},
	}
}
