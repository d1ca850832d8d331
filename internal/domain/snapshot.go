package domain

import (
	"encoding/json"
	"sort"
)

// Snapshot is the whole collection set persisted as one document.
// Tokens are held in memory as a map keyed by token string for O(1)
// bearer lookup; on the wire they serialize as the auth.tokens list.
type Snapshot struct {
	Users   []User
	Tickets []Ticket
	Tokens  map[string]AuthToken
}

// NewSnapshot returns the empty default snapshot used whenever the
// backing storage is missing, empty or unreadable.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Users:   []User{},
		Tickets: []Ticket{},
		Tokens:  map[string]AuthToken{},
	}
}

// snapshotDoc is the persisted JSON layout:
// {"users":[...],"tickets":[...],"auth":{"tokens":[...]}}
type snapshotDoc struct {
	Users   []User   `json:"users"`
	Tickets []Ticket `json:"tickets"`
	Auth    authDoc  `json:"auth"`
}

type authDoc struct {
	Tokens []AuthToken `json:"tokens"`
}

// MarshalJSON encodes the snapshot in the shared document layout.
// Tokens are sorted by token string so output is deterministic.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	doc := snapshotDoc{
		Users:   s.Users,
		Tickets: s.Tickets,
		Auth:    authDoc{Tokens: make([]AuthToken, 0, len(s.Tokens))},
	}
	if doc.Users == nil {
		doc.Users = []User{}
	}
	if doc.Tickets == nil {
		doc.Tickets = []Ticket{}
	}
	for _, token := range s.Tokens {
		doc.Auth.Tokens = append(doc.Auth.Tokens, token)
	}
	sort.Slice(doc.Auth.Tokens, func(i, j int) bool {
		return doc.Auth.Tokens[i].Token < doc.Auth.Tokens[j].Token
	})
	return json.Marshal(doc)
}

// UnmarshalJSON decodes the document layout, rebuilding the token map.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var doc snapshotDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	s.Users = doc.Users
	s.Tickets = doc.Tickets
	if s.Users == nil {
		s.Users = []User{}
	}
	if s.Tickets == nil {
		s.Tickets = []Ticket{}
	}
	s.Tokens = make(map[string]AuthToken, len(doc.Auth.Tokens))
	for _, token := range doc.Auth.Tokens {
		s.Tokens[token.Token] = token
	}
	return nil
}
