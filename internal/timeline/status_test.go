package timeline

import (
	"encoding/json"
	"testing"
)

func TestStatusStore_SetReplacesSingleField(t *testing.T) {
	store := NewStatusStore()
	store.ReplaceAll(map[string]json.RawMessage{
		"runtime": json.RawMessage(`{"status":"running"}`),
		"slack":   json.RawMessage(`{"status":"stopped"}`),
	})

	store.Set("runtime", json.RawMessage(`{"status":"stopped"}`))

	got, ok := store.Get("runtime")
	if !ok || string(got) != `{"status":"stopped"}` {
		t.Errorf("unexpected runtime status: %s", got)
	}
	other, ok := store.Get("slack")
	if !ok || string(other) != `{"status":"stopped"}` {
		t.Errorf("untouched key must keep its blob, got %s", other)
	}
}

func TestStatusStore_GetExistenceCheck(t *testing.T) {
	store := NewStatusStore()
	if _, ok := store.Get("ghost"); ok {
		t.Error("expected missing key")
	}
	store.Set("heartbeat", json.RawMessage(`{}`))
	if _, ok := store.Get("heartbeat"); !ok {
		t.Error("expected present key")
	}
}

func TestStatusStore_NamesSorted(t *testing.T) {
	store := NewStatusStore()
	store.Set("slack", nil)
	store.Set("heartbeat", nil)
	store.Set("runtime", nil)

	names := store.Names()
	want := []string{"heartbeat", "runtime", "slack"}
	if len(names) != len(want) {
		t.Fatalf("expected %d names, got %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], names[i])
		}
	}
}
