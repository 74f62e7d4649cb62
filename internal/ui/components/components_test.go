package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func key(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func TestPickerNavigation(t *testing.T) {
	p := NewPicker([]string{"V0", "V1", "V2", "V3", "V4"}, 2)

	tests := []struct {
		name string
		msg  tea.KeyPressMsg
		want string
	}{
		{"right", key(tea.KeyRight), "V1"},
		{"down a row", key(tea.KeyDown), "V3"},
		{"down past end stays", key(tea.KeyDown), "V3"},
		{"left", key(tea.KeyLeft), "V2"},
		{"up a row", key(tea.KeyUp), "V0"},
		{"left at start stays", key(tea.KeyLeft), "V0"},
		{"end", key(tea.KeyEnd), "V4"},
		{"home", key(tea.KeyHome), "V0"},
	}
	for _, tt := range tests {
		p, _ = p.Update(tt.msg)
		if got := p.Value(); got != tt.want {
			t.Errorf("%s: value = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestPickerEmptyAndSelect(t *testing.T) {
	var empty Picker
	if empty.Value() != "" {
		t.Error("empty picker should have no value")
	}
	empty, _ = empty.Update(key(tea.KeyRight))
	if empty.Selected != 0 {
		t.Error("empty picker should ignore keys")
	}

	p := NewPicker([]string{"a", "b", "c"}, 0)
	if p.Columns != 1 {
		t.Errorf("columns = %d, want clamp to 1", p.Columns)
	}
	p.Select("c")
	if p.Value() != "c" {
		t.Errorf("value = %q, want c", p.Value())
	}
	p.Select("zzz")
	if p.Value() != "c" {
		t.Error("selecting a missing option should keep the cursor")
	}
}

func TestMenuSkipsDisabled(t *testing.T) {
	called := ""
	m := NewMenu([]MenuItem{
		{Label: "OFF", Disabled: true},
		{Label: "ONE", Action: func() tea.Cmd { called = "one"; return nil }},
		{Label: "OFF2", Disabled: true},
		{Label: "TWO", Action: func() tea.Cmd { called = "two"; return nil }},
	})
	if m.Selected != 1 {
		t.Fatalf("selected = %d, want first enabled item", m.Selected)
	}

	m, _ = m.Update(key(tea.KeyDown))
	if m.Selected != 3 {
		t.Errorf("selected = %d, want 3", m.Selected)
	}
	m, _ = m.Update(key(tea.KeyDown))
	if m.Selected != 3 {
		t.Errorf("selected = %d, want to stay on 3", m.Selected)
	}
	m, _ = m.Update(key(tea.KeyEnter))
	if called != "two" {
		t.Errorf("called = %q, want two", called)
	}
	m, _ = m.Update(key(tea.KeyUp))
	if m.Selected != 1 {
		t.Errorf("selected = %d, want 1", m.Selected)
	}
}

func TestMenuViewShowsHints(t *testing.T) {
	m := NewMenu([]MenuItem{{Label: "RESUME", Hint: "3 climbs"}})
	if !strings.Contains(m.View(), "3 climbs") {
		t.Error("hint missing from menu view")
	}
}

func TestCountBarFillsProportionally(t *testing.T) {
	full := CountBar{Label: "V5", LabelWidth: 3, Count: 4, Max: 4, Width: 30}.View()
	none := CountBar{Label: "V4", LabelWidth: 3, Count: 0, Max: 4, Width: 30}.View()
	if !strings.Contains(full, "4") || !strings.Contains(none, "0") {
		t.Error("bars should show their counts")
	}
}

func TestButtonRow(t *testing.T) {
	row := ButtonRow([]string{"Save", "Cancel"}, 1)
	if !strings.Contains(row, "▸ Cancel") {
		t.Errorf("active button not marked: %q", row)
	}
	if strings.Contains(row, "▸ Save") {
		t.Error("inactive button marked")
	}
}

func TestTextInputError(t *testing.T) {
	ti := NewTextInput("Name", "", 10)
	ti.SetError("required")
	if !strings.Contains(ti.View(), "required") {
		t.Error("error should render")
	}
	ti, _ = ti.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	if strings.Contains(ti.View(), "required") {
		t.Error("editing should clear the error")
	}
	if ti.Value() != "a" {
		t.Errorf("value = %q, want a", ti.Value())
	}
}
