package extract

import (
	"reflect"
	"testing"
)

func TestFindAddresses(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"single com", "Email: jobs@acme.com", []string{"jobs@acme.com"}},
		{"allowed tlds", "a@x.org b@y.net c@z.edu d@w.gov", []string{"a@x.org", "b@y.net", "c@z.edu", "d@w.gov"}},
		{"io discarded", "user@example.io user@example.com", []string{"user@example.com"}},
		{"longer tld discarded", "user@example.comx", nil},
		{"country suffix discarded", "user@example.com.au", nil},
		{"upper-case tld discarded", "USER@EXAMPLE.COM", nil},
		{"subdomain kept", "hr@mail.acme.com", []string{"hr@mail.acme.com"}},
		{"symbols in local part", "first.last+jobs%x_y-z@acme.org", []string{"first.last+jobs%x_y-z@acme.org"}},
		{"duplicates kept", "a@b.com, a@b.com", []string{"a@b.com", "a@b.com"}},
		{"surrounding punctuation", "(reach me at <hr@acme.net>)", []string{"hr@acme.net"}},
		{"multi-line", "one@a.com\ntwo@b.io\nthree@c.edu", []string{"one@a.com", "three@c.edu"}},
		{"no match", "no addresses here @ all", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindAddresses(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindAddresses(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

// Loose matches that fail the strict pattern are narrowed away, not repaired.
func TestCandidatesNarrowedByValid(t *testing.T) {
	text := "user@example.io user@example.com"

	candidates := Candidates(text)
	if len(candidates) != 2 {
		t.Fatalf("Candidates: got %v, want 2 loose matches", candidates)
	}
	if Valid("user@example.io") {
		t.Error("user@example.io should fail the strict pattern")
	}
	if !Valid("user@example.com") {
		t.Error("user@example.com should pass the strict pattern")
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"a@b.com", true},
		{"a@b.gov", true},
		{"a@b.co", false},
		{"a@b.com ", false},
		{" a@b.com", false},
		{"a@@b.com", false},
		{"@b.com", false},
	}
	for _, tt := range tests {
		if got := Valid(tt.in); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
