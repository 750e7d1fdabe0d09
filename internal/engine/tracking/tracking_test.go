package tracking

import (
	"testing"

	"github.com/dshills/vimcore/internal/engine/buffer"
	"github.com/dshills/vimcore/internal/engine/text"
)

func TestEditorRecordsChanges(t *testing.T) {
	host := buffer.New("one\ntwo\n")
	var seen []Change
	ed := Wrap(host, WithListener(func(c Change) { seen = append(seen, c) }))

	if err := ed.Insert(4, "new\n"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := ed.Delete(0, 4); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := host.Text(); got != "new\ntwo\n" {
		t.Errorf("host text = %q", got)
	}

	if len(seen) != 2 {
		t.Fatalf("listener saw %d changes, want 2", len(seen))
	}
	if seen[0].Type != ChangeInsert || seen[0].LineDelta() != 1 {
		t.Errorf("first change = %v", seen[0])
	}
	if seen[1].OldText != "one\n" || seen[1].Before.LineCount() != 3 {
		t.Errorf("second change = %v", seen[1])
	}

	if n := ed.ChangeCount(); n != 2 {
		t.Errorf("ChangeCount = %d", n)
	}
	if drained := ed.Drain(); len(drained) != 2 || ed.ChangeCount() != 0 {
		t.Errorf("Drain returned %d, left %d", len(drained), ed.ChangeCount())
	}
}

func TestEditorSkipsEmptyEdits(t *testing.T) {
	ed := Wrap(buffer.New("abc"))
	_ = ed.Insert(1, "")
	_ = ed.Delete(2, 2)
	if ed.ChangeCount() != 0 {
		t.Errorf("empty edits were recorded: %v", ed.Changes())
	}
}

func TestEditorFailedEditIsNotRecorded(t *testing.T) {
	ed := Wrap(buffer.New("abc", buffer.WithReadOnly()))
	if err := ed.Insert(0, "x"); err == nil {
		t.Fatal("insert into read-only buffer succeeded")
	}
	if ed.ChangeCount() != 0 {
		t.Errorf("failed edit recorded")
	}
}

func TestMaxChanges(t *testing.T) {
	ed := Wrap(buffer.New(""), WithMaxChanges(2))
	for _, s := range []string{"a", "b", "c"} {
		_ = ed.Insert(0, s)
	}
	changes := ed.Changes()
	if len(changes) != 2 || changes[0].NewText != "b" {
		t.Errorf("log = %v", changes)
	}
}

func TestSpan(t *testing.T) {
	tests := []struct {
		name       string
		changes    []Change
		start, end text.Offset
		ok         bool
	}{
		{"none", nil, 0, 0, false},
		{"insert", []Change{{Type: ChangeInsert, Start: 2, NewText: "abc"}}, 2, 5, true},
		{"delete", []Change{{Type: ChangeDelete, Start: 2, OldText: "abc"}}, 2, 2, true},
		{
			"insert before span",
			[]Change{
				{Type: ChangeInsert, Start: 2, NewText: "ab"},
				{Type: ChangeInsert, Start: 0, NewText: "x"},
			},
			0, 5, true,
		},
		{
			"delete inside span",
			[]Change{
				{Type: ChangeInsert, Start: 2, NewText: "abc"},
				{Type: ChangeDelete, Start: 3, OldText: "b"},
			},
			2, 4, true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := Span(tt.changes)
			if start != tt.start || end != tt.end || ok != tt.ok {
				t.Errorf("Span = (%d, %d, %v), want (%d, %d, %v)", start, end, ok, tt.start, tt.end, tt.ok)
			}
		})
	}
}

func TestWatch(t *testing.T) {
	ed := Wrap(buffer.New("abc"))
	var n int
	cancel := ed.Watch(func(Change) { n++ })
	_ = ed.Insert(0, "x")
	cancel()
	_ = ed.Insert(0, "y")
	if n != 1 {
		t.Errorf("watcher called %d times, want 1", n)
	}
}
