package parser

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtract_TitleAndDescription(t *testing.T) {
	html := `<html><head>
		<title> Hello World </title>
		<meta name="description" content="A test post">
	</head><body><p>Body text.</p></body></html>`
	r := Extract(html, "fallback")
	if r.Title != "Hello World" {
		t.Errorf("title = %q, want %q", r.Title, "Hello World")
	}
	if r.Description != "A test post" {
		t.Errorf("description = %q", r.Description)
	}
	if r.Summary != "A test post" {
		t.Errorf("summary = %q, want the description", r.Summary)
	}
}

func TestExtract_TitleFallback(t *testing.T) {
	r := Extract(`<html><body></body></html>`, "my-draft")
	if r.Title != "my-draft" {
		t.Errorf("title = %q, want fallback", r.Title)
	}
	if r.Description != "" {
		t.Errorf("description = %q, want empty", r.Description)
	}
}

func TestExtract_SummaryFromFirstParagraph(t *testing.T) {
	html := `<title>T</title><p>First <b>bold</b> paragraph.</p><p>Second.</p>`
	r := Extract(html, "")
	if r.Summary != "First bold paragraph." {
		t.Errorf("summary = %q", r.Summary)
	}
}

func TestExtract_SummaryTruncated(t *testing.T) {
	long := strings.Repeat("あ", 250)
	r := Extract("<p>"+long+"</p>", "")
	if got := len([]rune(r.Summary)); got != 200 {
		t.Errorf("summary length = %d runes, want 200", got)
	}
}

func TestExtract_IntegerTags(t *testing.T) {
	html := `<meta name="tags" content="1,2"><meta name="tags" content="2, 3">`
	r := Extract(html, "")
	if !reflect.DeepEqual(r.Tags, []int{1, 2, 3}) {
		t.Errorf("tags = %v, want [1 2 3]", r.Tags)
	}
}

func TestExtract_TagsSeparatorsAndJunk(t *testing.T) {
	html := `<meta name="tag" content="4/5 six 6">`
	r := Extract(html, "")
	if !reflect.DeepEqual(r.Tags, []int{4, 5, 6}) {
		t.Errorf("tags = %v, want [4 5 6]", r.Tags)
	}
}

func TestExtract_NoTags(t *testing.T) {
	r := Extract(`<title>x</title>`, "")
	if r.Tags == nil || len(r.Tags) != 0 {
		t.Errorf("tags = %#v, want empty non-nil slice", r.Tags)
	}
}

func TestExtract_CaseInsensitive(t *testing.T) {
	html := `<TITLE>Shouty</TITLE><META NAME='description' CONTENT='loud'>`
	r := Extract(html, "")
	if r.Title != "Shouty" || r.Description != "loud" {
		t.Errorf("got %+v", r)
	}
}

func TestStripTags(t *testing.T) {
	if got := StripTags(`<a href="x">link</a> and <em>text</em>`); got != "link and text" {
		t.Errorf("StripTags = %q", got)
	}
}
