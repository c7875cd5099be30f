package baseline

import "testing"

func TestCache_NovelUntilObserved(t *testing.T) {
	c := New()
	if !c.IsNovel("s1", "mysql", "syntax-error") {
		t.Fatal("expected novel before any observation")
	}
	c.Observe("s1", "mysql", "syntax-error")
	if c.IsNovel("s1", "mysql", "syntax-error") {
		t.Fatal("expected not-novel after baseline observation")
	}
	if !c.IsNovel("s1", "postgres", "syntax-error") {
		t.Fatal("different db_family must remain novel")
	}
}

func TestCache_ClearResetsState(t *testing.T) {
	c := New()
	c.Observe("s1", "mysql", "syntax-error")
	c.Clear()
	if !c.IsNovel("s1", "mysql", "syntax-error") {
		t.Fatal("expected novel after Clear")
	}
}
