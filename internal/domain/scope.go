package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// GlobalScope is the wildcard matching any client or ticket type when
// resolving SLA rules.
const GlobalScope = "GLOBAL"

// ScopeID is either a concrete numeric id or the GLOBAL wildcard. On the
// wire it is a number or the literal string "GLOBAL", matching the
// spreadsheet columns.
type ScopeID struct {
	ID     int64
	Global bool
}

// ScopeFor builds a concrete scope.
func ScopeFor(id int64) ScopeID {
	return ScopeID{ID: id}
}

// GlobalScopeID builds the wildcard scope.
func GlobalScopeID() ScopeID {
	return ScopeID{Global: true}
}

// Matches reports whether the scope covers the given id. The wildcard
// covers everything.
func (s ScopeID) Matches(id int64) bool {
	return s.Global || s.ID == id
}

func (s ScopeID) String() string {
	if s.Global {
		return GlobalScope
	}
	return strconv.FormatInt(s.ID, 10)
}

// MarshalJSON encodes the wildcard as "GLOBAL" and concrete scopes as
// numbers.
func (s ScopeID) MarshalJSON() ([]byte, error) {
	if s.Global {
		return json.Marshal(GlobalScope)
	}
	return json.Marshal(s.ID)
}

// UnmarshalJSON accepts a number, a numeric string, or "GLOBAL". The
// spreadsheet backend is not strict about cell types, so numeric strings
// show up in practice.
func (s *ScopeID) UnmarshalJSON(data []byte) error {
	var num int64
	if err := json.Unmarshal(data, &num); err == nil {
		*s = ScopeID{ID: num}
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("scope id: unsupported value %s", string(data))
	}
	if str == GlobalScope {
		*s = ScopeID{Global: true}
		return nil
	}
	parsed, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return fmt.Errorf("scope id: unsupported value %q", str)
	}
	*s = ScopeID{ID: parsed}
	return nil
}
