package seo

import "testing"

func TestNewSlug(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"5 Tipps für barrierefreie Formulare", "5-tipps-fuer-barrierefreie-formulare"},
		{"Größe & Maße", "groesse-masse"},
		{"  Trim -- me!  ", "trim-me"},
		{"Café au lait, s'il vous plaît", "cafe-au-lait-s-il-vous-plait"},
		{"already-a-slug", "already-a-slug"},
		{"UPPER case", "upper-case"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tc := range cases {
		got := NewSlug(tc.title).String()
		if got != tc.want {
			t.Errorf("NewSlug(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestSlugIdempotent(t *testing.T) {
	titles := []string{
		"5 Tipps für barrierefreie Formulare",
		"Hello, World!",
		"Ärger mit Ü-Wagen & Co.",
		"plain",
	}
	for _, title := range titles {
		first := NewSlug(title)
		second := NewSlug(first.String())
		if !first.Equal(second) {
			t.Errorf("slug not idempotent for %q: %q -> %q", title, first, second)
		}
	}
}

func TestSlugEqual(t *testing.T) {
	if !NewSlug("Hello World").Equal(NewSlug("hello,  world")) {
		t.Error("expected slugs with the same normalized value to be equal")
	}
	if NewSlug("foo").Equal(NewSlug("bar")) {
		t.Error("expected different slugs to be unequal")
	}
}

func TestSlugIsEmpty(t *testing.T) {
	if !NewSlug("???").IsEmpty() {
		t.Error("expected slug of pure punctuation to be empty")
	}
	if NewSlug("x").IsEmpty() {
		t.Error("expected non-empty slug")
	}
}
