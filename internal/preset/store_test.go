package preset

import (
	"reflect"
	"testing"
	"time"
)

func fixedClock() func() time.Time {
	at := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	return func() time.Time { return at }
}

func TestStore_SaveLoad(t *testing.T) {
	s := NewStore()
	s.SetClock(fixedClock())

	if !s.Save("hero", "[en:Alice|seed:42]") {
		t.Fatal("Save() = false, want true")
	}

	tag, ok := s.Load("hero")
	if !ok || tag != "[en:Alice|seed:42]" {
		t.Errorf("Load() = %q, %v", tag, ok)
	}

	p, _ := s.Get("hero")
	if p.Created != "2025-03-14T09:26:53Z" {
		t.Errorf("Created = %q", p.Created)
	}
	if !p.CreatedAt().Equal(fixedClock()()) {
		t.Errorf("CreatedAt() = %v", p.CreatedAt())
	}
	if p.Name != "hero" {
		t.Errorf("Name = %q, want hero", p.Name)
	}
}

func TestStore_SaveBlankName(t *testing.T) {
	s := NewStore()
	for _, name := range []string{"", "   ", "\t\n"} {
		if s.Save(name, "x") {
			t.Errorf("Save(%q) = true, want false", name)
		}
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestStore_Overwrite(t *testing.T) {
	s := NewStore()
	s.Save("a", "[Alice]")
	s.Save("a", "[Bob]")

	if tag, _ := s.Load("a"); tag != "[Bob]" {
		t.Errorf("Load() = %q, want [Bob]", tag)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestStore_TagNotValidated(t *testing.T) {
	s := NewStore()
	if !s.Save("broken", "[a|seed") {
		t.Error("Save() rejected an unvalidated tag")
	}
}

func TestStore_Delete(t *testing.T) {
	s := NewStore()
	s.Save("a", "[Alice]")

	if !s.Delete("a") {
		t.Error("Delete() = false for existing preset")
	}
	if s.Delete("a") {
		t.Error("Delete() = true for missing preset")
	}
	if _, ok := s.Load("a"); ok {
		t.Error("Load() found a deleted preset")
	}
}

func TestStore_NamesAndList(t *testing.T) {
	s := NewStore()
	s.Save("zed", "[Z]")
	s.Save("alpha", "[A]")
	s.Save("mid", "[M]")

	want := []string{"alpha", "mid", "zed"}
	if got := s.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	list := s.List()
	if len(list) != 3 || list[0].Tag != "[A]" || list[2].Name != "zed" {
		t.Errorf("List() = %+v", list)
	}
}

func TestStore_SnapshotReplace(t *testing.T) {
	s := NewStore()
	s.Save("a", "[Alice]")

	snap := s.Snapshot()
	delete(snap, "a")
	if s.Len() != 1 {
		t.Error("Snapshot() shares the store map")
	}

	s.Replace(map[string]Preset{"b": {Tag: "[Bob]", Created: "2024-01-01T00:00:00Z"}})
	if _, ok := s.Load("a"); ok {
		t.Error("Replace() kept old presets")
	}
	p, ok := s.Get("b")
	if !ok || p.Name != "b" || p.Tag != "[Bob]" {
		t.Errorf("Get(b) = %+v, %v", p, ok)
	}
}

func TestStore_DisplayName(t *testing.T) {
	s := NewStore()
	s.Save("long", "[en:Alice|seed:42|temperature:0.7]")
	s.Save("short", "[Bob]")

	tests := []struct {
		name  string
		width int
		want  string
	}{
		{name: "long", width: 220, want: "[en:Alice|seed:42|temperature:0..."},
		{name: "long", width: 40, want: "[en:Alic..."},
		{name: "short", width: 40, want: "[Bob]"},
		{name: "missing", width: 220, want: "missing"},
	}

	for _, tt := range tests {
		if got := s.DisplayName(tt.name, tt.width); got != tt.want {
			t.Errorf("DisplayName(%q, %d) = %q, want %q", tt.name, tt.width, got, tt.want)
		}
	}
}
