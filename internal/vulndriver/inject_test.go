package vulndriver

import "testing"

func TestRewriteQueryParam_PreservesOrderAndReencodesOnce(t *testing.T) {
	got, err := RewriteQueryParam("https://shop.example/search?q=shoes&page=2&sort=asc", "page", "<img src=x>")
	if err != nil {
		t.Fatalf("RewriteQueryParam: %v", err)
	}
	want := "https://shop.example/search?q=shoes&page=%3Cimg+src%3Dx%3E&sort=asc"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRewriteQueryParam_AppendsWhenMissing(t *testing.T) {
	got, err := RewriteQueryParam("https://shop.example/search", "q", "abc")
	if err != nil {
		t.Fatalf("RewriteQueryParam: %v", err)
	}
	if got != "https://shop.example/search?q=abc" {
		t.Fatalf("unexpected: %s", got)
	}
}

func TestQueryParamExists(t *testing.T) {
	if !QueryParamExists("https://x/y?a=1", "a") {
		t.Fatal("expected param to exist")
	}
	if QueryParamExists("https://x/y?a=1", "b") {
		t.Fatal("expected param to be absent")
	}
}
