package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// UserTable maps user IDs to their check-in records for one context.
//
// WHY NOT A PLAIN map[string]*CheckInRecord?
// Leaderboard ties break by "who checked in here first": the order users
// were first seen in the context. Go maps iterate in random order, and a
// plain map would also lose the order on every JSON round-trip. UserTable
// keeps an explicit insertion-order slice next to the lookup map and
// serialises as an ordered JSON object, so encounter order survives both
// iteration and restarts. (The data files written by earlier deployments
// are ordered objects already; we simply stop throwing that order away.)
type UserTable struct {
	ids     []string
	records map[string]*CheckInRecord
}

// NewUserTable returns an empty table.
func NewUserTable() *UserTable {
	return &UserTable{records: make(map[string]*CheckInRecord)}
}

// Len returns the number of users in the table.
func (t *UserTable) Len() int {
	return len(t.ids)
}

// Get returns the record for a user, if present.
func (t *UserTable) Get(userID string) (*CheckInRecord, bool) {
	r, ok := t.records[userID]
	return r, ok
}

// Put inserts or replaces a user's record. A new user is appended to the
// insertion order; an existing user keeps their original position.
func (t *UserTable) Put(userID string, r *CheckInRecord) {
	if _, ok := t.records[userID]; !ok {
		t.ids = append(t.ids, userID)
	}
	t.records[userID] = r
}

// UserIDs returns the user IDs in insertion order.
// The returned slice is a copy; callers may not reorder the table.
func (t *UserTable) UserIDs() []string {
	ids := make([]string, len(t.ids))
	copy(ids, t.ids)
	return ids
}

// Clone returns a deep copy of the table.
func (t *UserTable) Clone() *UserTable {
	c := NewUserTable()
	for _, id := range t.ids {
		c.Put(id, t.records[id].Clone())
	}
	return c
}

// MarshalJSON writes the table as a JSON object with keys in insertion order.
func (t *UserTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range t.ids {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(t.records[id])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object key by key so that the document's key
// order becomes the table's insertion order. json.Unmarshal into a map
// would discard it.
func (t *UserTable) UnmarshalJSON(data []byte) error {
	*t = *NewUserTable()
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("user table: unexpected key token %v", tok)
		}
		rec := &CheckInRecord{}
		if err := dec.Decode(rec); err != nil {
			return fmt.Errorf("user table: decoding record %q: %w", key, err)
		}
		t.Put(key, rec)
	}
	// Consume the closing '}'.
	_, err := dec.Token()
	return err
}

// ContextStore maps context IDs (group or private conversation keys) to
// their user tables. Like UserTable it preserves insertion order, both for
// deterministic iteration and for byte-stable files.
//
// The store component owns the single live instance; the engine and the
// leaderboard receive it by reference and must not retain copies.
type ContextStore struct {
	ids      []string
	contexts map[string]*UserTable
}

// NewContextStore returns an empty store.
func NewContextStore() *ContextStore {
	return &ContextStore{contexts: make(map[string]*UserTable)}
}

// Len returns the number of contexts.
func (s *ContextStore) Len() int {
	return len(s.ids)
}

// Get returns the user table for a context, if present.
func (s *ContextStore) Get(contextID string) (*UserTable, bool) {
	t, ok := s.contexts[contextID]
	return t, ok
}

// GetOrCreate returns the user table for a context, creating an empty one
// on first use.
func (s *ContextStore) GetOrCreate(contextID string) *UserTable {
	if t, ok := s.contexts[contextID]; ok {
		return t
	}
	t := NewUserTable()
	s.ids = append(s.ids, contextID)
	s.contexts[contextID] = t
	return t
}

// ContextIDs returns the context IDs in insertion order.
func (s *ContextStore) ContextIDs() []string {
	ids := make([]string, len(s.ids))
	copy(ids, s.ids)
	return ids
}

// Clone returns a deep copy of the store.
func (s *ContextStore) Clone() *ContextStore {
	c := NewContextStore()
	for _, id := range s.ids {
		c.ids = append(c.ids, id)
		c.contexts[id] = s.contexts[id].Clone()
	}
	return c
}

// MarshalJSON writes the store as a JSON object with keys in insertion order.
func (s *ContextStore) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range s.ids {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(s.contexts[id])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the document order-preservingly, mirroring
// UserTable.UnmarshalJSON one level up.
func (s *ContextStore) UnmarshalJSON(data []byte) error {
	*s = *NewContextStore()
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("context store: unexpected key token %v", tok)
		}
		table := NewUserTable()
		if err := dec.Decode(table); err != nil {
			return fmt.Errorf("context store: decoding context %q: %w", key, err)
		}
		s.ids = append(s.ids, key)
		s.contexts[key] = table
	}
	_, err := dec.Token()
	return err
}

// expectDelim consumes the next token and checks it is the given delimiter.
func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
