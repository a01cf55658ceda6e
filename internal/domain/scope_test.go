package domain

import (
	"encoding/json"
	"testing"
)

func TestScopeIDUnmarshal(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  ScopeID
	}{
		{"number", `101`, ScopeFor(101)},
		{"numeric string", `"101"`, ScopeFor(101)},
		{"wildcard", `"GLOBAL"`, GlobalScopeID()},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			var got ScopeID
			if err := json.Unmarshal([]byte(tt.input), &got); err != nil {
				t.Fatalf("Unmarshal(%s): %v", tt.input, err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestScopeIDUnmarshalRejectsGarbage(t *testing.T) {
	var s ScopeID
	if err := json.Unmarshal([]byte(`"todos"`), &s); err == nil {
		t.Fatal("accepted non-numeric, non-wildcard string")
	}
}

func TestScopeIDMarshal(t *testing.T) {
	got, err := json.Marshal(ScopeFor(101))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(got) != `101` {
		t.Errorf("concrete scope = %s, want 101", got)
	}

	got, err = json.Marshal(GlobalScopeID())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(got) != `"GLOBAL"` {
		t.Errorf("wildcard = %s, want \"GLOBAL\"", got)
	}
}

func TestScopeIDMatches(t *testing.T) {
	if !GlobalScopeID().Matches(999) {
		t.Error("wildcard should match any id")
	}
	if !ScopeFor(101).Matches(101) {
		t.Error("concrete scope should match its own id")
	}
	if ScopeFor(101).Matches(102) {
		t.Error("concrete scope matched a different id")
	}
}
