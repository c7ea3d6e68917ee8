package ingest

import (
	"context"
	"strings"
	"testing"
)

func TestNormalizeText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"crlf", "Q1: First?\r\nA) one\r\nB) two", "Q1: First?\nA) one\nB) two"},
		{"tabs and runs", "What is\t\tthe   answer?", "What is the answer?"},
		{"blank collapse", "Q1: First?\n\n\n\n\nQ2: Second?", "Q1: First?\n\nQ2: Second?"},
		{"trailing spaces", "Q1: First?   \nA) one  ", "Q1: First?\nA) one"},
		{"blanks kept", "Fill in the ____ please.", "Fill in the ____ please."},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeText(tc.in); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestIngest_PlainText(t *testing.T) {
	s := NewService(nil)
	text, err := s.Ingest(context.Background(), "exam.txt", strings.NewReader("Q1: What?\r\nA) this\r\n"))
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if text != "Q1: What?\nA) this" {
		t.Fatalf("got %q", text)
	}
}

func TestIngest_UnknownExtensionFallsBack(t *testing.T) {
	s := NewService(nil)
	text, err := s.Ingest(context.Background(), "exam.dat", strings.NewReader("Question: still text"))
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if text != "Question: still text" {
		t.Fatalf("got %q", text)
	}
}

func TestIngest_RejectsBinary(t *testing.T) {
	s := NewService(nil)
	if _, err := s.Ingest(context.Background(), "exam.bin", strings.NewReader("PK\x00\x03\x04junk")); err == nil {
		t.Fatal("expected an error for binary content")
	}
}

func TestIngest_RejectsInvalidUTF8(t *testing.T) {
	s := NewService(nil)
	if _, err := s.Ingest(context.Background(), "exam.txt", strings.NewReader("abc\xff\xfe")); err == nil {
		t.Fatal("expected an error for invalid UTF-8")
	}
}
