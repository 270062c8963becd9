package remotelist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

type row struct {
	id   int
	name string
}

func rows(n int) []row {
	out := make([]row, n)
	for i := range out {
		out[i] = row{id: i, name: fmt.Sprintf("Row-%02d", i)}
	}
	return out
}

func matchName(r row, term string) bool {
	return strings.Contains(strings.ToLower(r.name), term)
}

func loaded(t *testing.T, items []row, size int) *List[row] {
	t.Helper()
	l := New(func(context.Context) ([]row, error) { return items, nil }, matchName, size)
	if err := l.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return l
}

func TestTotalPages(t *testing.T) {
	cases := []struct{ n, want int }{{0, 0}, {1, 1}, {10, 1}, {11, 2}, {25, 3}, {30, 3}}
	for _, tc := range cases {
		l := loaded(t, rows(tc.n), 10)
		if got := l.TotalPages(); got != tc.want {
			t.Errorf("TotalPages(%d items) = %d, want %d", tc.n, got, tc.want)
		}
	}
}

func TestPageWindow(t *testing.T) {
	l := loaded(t, rows(25), 10)

	first := l.Page()
	if len(first) != 10 || first[0].id != 0 || first[9].id != 9 {
		t.Fatalf("page 1 = %v", first)
	}

	l.SetPage(3)
	last := l.Page()
	if len(last) != 5 || last[0].id != 20 {
		t.Errorf("page 3 = %v", last)
	}

	l.SetPage(99)
	if l.CurrentPage() != 3 {
		t.Errorf("SetPage(99) -> %d, want clamp to 3", l.CurrentPage())
	}
	l.SetPage(-1)
	if l.CurrentPage() != 1 {
		t.Errorf("SetPage(-1) -> %d, want 1", l.CurrentPage())
	}
}

func TestSearchIsCaseInsensitiveAndResetsPage(t *testing.T) {
	l := loaded(t, rows(25), 10)
	l.SetPage(2)

	l.SetSearch("ROW-1")
	if l.CurrentPage() != 1 {
		t.Errorf("page after search = %d, want 1", l.CurrentPage())
	}
	got := l.Filtered()
	if len(got) != 10 { // Row-10 .. Row-19
		t.Errorf("filtered = %d items, want 10", len(got))
	}

	l.SetSearch("")
	if len(l.Filtered()) != 25 {
		t.Error("empty search must match everything")
	}
}

func TestLoadErrorKeepsItems(t *testing.T) {
	fail := false
	l := New(func(context.Context) ([]row, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return rows(3), nil
	}, matchName, 10)

	if err := l.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	fail = true
	if err := l.Load(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if l.Len() != 3 {
		t.Errorf("items after failed reload = %d, want 3", l.Len())
	}
}

func TestUpdateAndRemove(t *testing.T) {
	l := loaded(t, rows(11), 10)
	l.SetPage(2)

	n := l.Update(func(r row) bool { return r.id == 4 }, func(r *row) { r.name = "changed" })
	if n != 1 {
		t.Fatalf("Update changed %d rows", n)
	}
	if r, ok := l.Find(func(r row) bool { return r.id == 4 }); !ok || r.name != "changed" {
		t.Errorf("row 4 = %+v", r)
	}

	if n := l.Remove(func(r row) bool { return r.id == 10 }); n != 1 {
		t.Fatalf("Remove removed %d rows", n)
	}
	if l.TotalPages() != 1 || l.CurrentPage() != 1 {
		t.Errorf("after removing the only row of page 2: pages=%d current=%d", l.TotalPages(), l.CurrentPage())
	}
}
