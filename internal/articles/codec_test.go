package articles

import (
	"strings"
	"testing"
	"time"

	"github.com/werkbank/postplan/internal/models"
)

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	article := &models.Article{
		Title:       "5 Tipps für barrierefreie Formulare",
		Description: "Formulare, die jeder bedienen kann.",
		Content:     "# 5 Tipps\n\nErster Tipp.",
		Date:        time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Tags:        []string{"Formulare"},
		Image:       "cover.jpg",
		ImageAlt:    "Ein Formular",
	}

	data, err := Marshal(article)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.HasPrefix(string(data), "---\n") {
		t.Fatalf("serialized article has no front matter header:\n%s", data)
	}

	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Title != article.Title {
		t.Errorf("title = %q, want %q", got.Title, article.Title)
	}
	if got.Description != article.Description {
		t.Errorf("description = %q", got.Description)
	}
	if got.Content != article.Content {
		t.Errorf("content = %q, want %q", got.Content, article.Content)
	}
	if !got.Date.Equal(article.Date) {
		t.Errorf("date = %v, want %v", got.Date, article.Date)
	}
	if got.Image != "cover.jpg" || got.ImageAlt != "Ein Formular" {
		t.Errorf("image fields = %q / %q", got.Image, got.ImageAlt)
	}
	// Core tags are merged in during serialization
	if len(got.Tags) != 3 || got.Tags[2] != "Formulare" {
		t.Errorf("tags = %v", got.Tags)
	}
}

func TestMarshalClampsMetadata(t *testing.T) {
	article := &models.Article{
		Title:       strings.Repeat("T", 100),
		Description: strings.Repeat("D", 300),
		Content:     "body",
		Date:        time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	data, err := Marshal(article)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len([]rune(got.Title)) > 60 {
		t.Errorf("stored title exceeds bound: %d chars", len(got.Title))
	}
	if len([]rune(got.Description)) > 155 {
		t.Errorf("stored description exceeds bound: %d chars", len(got.Description))
	}
}

func TestUnmarshalRejectsBrokenDocuments(t *testing.T) {
	cases := map[string]string{
		"no header":       "just some text",
		"unterminated":    "---\ntitle: x\n",
		"no title":        "---\ndate: 2026-01-01\n---\n\nbody\n",
		"unparsable date": "---\ntitle: x\ndate: bald\n---\n\nbody\n",
		"garbage yaml":    "---\n\t:::\n---\n\nbody\n",
	}
	for name, doc := range cases {
		if _, err := Unmarshal([]byte(doc)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
