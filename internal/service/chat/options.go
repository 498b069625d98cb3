package chat

import (
	"fmt"
	"strings"
	"time"
)

// LateResultPolicy decides what happens to a backend result whose request
// was started before the most recent ClearChat.
type LateResultPolicy string

const (
	// LateResultAppend surfaces the result against the cleared log
	LateResultAppend LateResultPolicy = "append"

	// LateResultDrop discards the result; only busy is reset
	LateResultDrop LateResultPolicy = "drop"
)

// ParseLateResultPolicy converts a config string into a policy.
// Empty input selects LateResultAppend.
func ParseLateResultPolicy(s string) (LateResultPolicy, error) {
	switch LateResultPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", LateResultAppend:
		return LateResultAppend, nil
	case LateResultDrop:
		return LateResultDrop, nil
	default:
		return "", fmt.Errorf("unknown late result policy %q (want %q or %q)", s, LateResultAppend, LateResultDrop)
	}
}

// Option configures a Service
type Option func(*Service)

// WithID overrides the generated session ID
func WithID(id string) Option {
	return func(s *Service) {
		if id != "" {
			s.id = id
		}
	}
}

// WithClock replaces time.Now (tests freeze it to check timestamp ordering)
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLateResultPolicy selects how results resolving after ClearChat are handled
func WithLateResultPolicy(p LateResultPolicy) Option {
	return func(s *Service) {
		s.policy = p
	}
}
