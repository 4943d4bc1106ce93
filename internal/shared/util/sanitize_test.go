package util

import "testing"

func TestSanitizeFileName(t *testing.T) {
	got, err := SanitizeFileName("  sub/dir\\resume.pdf ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "sub_dir_resume.pdf" {
		t.Fatalf("got %q", got)
	}

	if _, err := SanitizeFileName("../etc/passwd"); err == nil {
		t.Fatalf("expected traversal rejection")
	}
	if _, err := SanitizeFileName("   "); err == nil {
		t.Fatalf("expected empty name rejection")
	}
}
