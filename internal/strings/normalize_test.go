package strings

import "testing"

func TestNormalizeWhitespace(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "whitespace only", input: " \n\t ", want: ""},
		{name: "single token", input: "report", want: "report"},
		{name: "collapses spaces", input: "finish   the    report", want: "finish the report"},
		{name: "collapses newlines", input: "one\n\n two\tthree", want: "one two three"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeWhitespace(tc.input)
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestCapitalizeFirst(t *testing.T) {
	cases := map[string]string{
		"":        "",
		"finish":  "Finish",
		"Finish":  "Finish",
		"élan":    "Élan",
		"1 thing": "1 thing",
	}
	for input, want := range cases {
		if got := CapitalizeFirst(input); got != want {
			t.Errorf("CapitalizeFirst(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestContainsFold(t *testing.T) {
	if !ContainsFold("Buy Groceries", "grocer") {
		t.Fatalf("expected case-insensitive match")
	}
	if !ContainsFold("anything", "") {
		t.Fatalf("expected empty needle to match")
	}
	if ContainsFold("walk the dog", "cat") {
		t.Fatalf("expected no match")
	}
}

func TestIsBlank(t *testing.T) {
	if !IsBlank(" \t\n") {
		t.Fatalf("expected whitespace to be blank")
	}
	if IsBlank(" x ") {
		t.Fatalf("expected non-blank")
	}
}

func TestTrimTrailingSlash(t *testing.T) {
	if got := TrimTrailingSlash("http://localhost:8089//"); got != "http://localhost:8089" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestNormalizeNewlines(t *testing.T) {
	if got := NormalizeNewlines("a\r\nb\rc\n"); got != "a\nb\nc\n" {
		t.Fatalf("unexpected %q", got)
	}
}
