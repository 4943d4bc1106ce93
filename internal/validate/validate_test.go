package validate

import (
	"reflect"
	"testing"
)

func TestFileTooLargeWinsOverTypeCheck(t *testing.T) {
	// 11MB against a 10MB limit, with a type that would also fail.
	err := File("resume.xyz", "application/octet-stream", 11<<20, DefaultSpecs(), 10<<20)
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Code != CodeFileTooLarge {
		t.Fatalf("code = %s, want %s", err.Code, CodeFileTooLarge)
	}
	if got := err.Details["fileSize"]; got != int64(11<<20) {
		t.Fatalf("details.fileSize = %v, want %d", got, int64(11<<20))
	}
	if got := err.Details["maxSize"]; got != int64(10<<20) {
		t.Fatalf("details.maxSize = %v, want %d", got, int64(10<<20))
	}
}

func TestFileInvalidTypeListsAcceptedFormats(t *testing.T) {
	err := File("resume.exe", "application/x-msdownload", 1024, DefaultSpecs(), 10<<20)
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Code != CodeInvalidFileType {
		t.Fatalf("code = %s, want %s", err.Code, CodeInvalidFileType)
	}
	formats, ok := err.Details["acceptedFormats"].([]string)
	if !ok || len(formats) == 0 {
		t.Fatalf("details.acceptedFormats missing: %v", err.Details)
	}
}

func TestFileMatchesByExtensionWhenMimeUnknown(t *testing.T) {
	if err := File("resume.pdf", "application/octet-stream", 1024, DefaultSpecs(), 10<<20); err != nil {
		t.Fatalf("expected extension match to pass, got %v", err)
	}
}

func TestFileEmptyTxtIndependentOfPerFormatLimit(t *testing.T) {
	// A 0-byte .txt must report EMPTY_FILE even though .txt carries its
	// own 5MB ceiling.
	err := File("empty.txt", "text/plain", 0, DefaultSpecs(), 10<<20)
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Code != CodeEmptyFile {
		t.Fatalf("code = %s, want %s", err.Code, CodeEmptyFile)
	}
}

func TestFilePerFormatLimitApplies(t *testing.T) {
	err := File("photo.png", "image/png", 6<<20, DefaultSpecs(), 10<<20)
	if err == nil {
		t.Fatal("expected error for 6MB png against 5MB image limit")
	}
	if err.Code != CodeFileTooLarge {
		t.Fatalf("code = %s, want %s", err.Code, CodeFileTooLarge)
	}
}

func TestFileIsDeterministic(t *testing.T) {
	first := File("resume.exe", "application/x-msdownload", 1024, DefaultSpecs(), 10<<20)
	second := File("resume.exe", "application/x-msdownload", 1024, DefaultSpecs(), 10<<20)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same input produced different errors: %v vs %v", first, second)
	}
}

func TestBatch(t *testing.T) {
	cases := []struct {
		name     string
		count    int
		multiple bool
		wantCode string
	}{
		{"single always allowed", 1, false, ""},
		{"multiple allowed", 3, true, ""},
		{"multiple blocked", 2, false, CodeMultipleFilesNotAllowed},
		{"zero files", 0, false, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Batch(tc.count, tc.multiple)
			if tc.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Code != tc.wantCode {
				t.Fatalf("got %v, want code %s", err, tc.wantCode)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	if got := FormatBytes(10 << 20); got != "10.0MB" {
		t.Fatalf("FormatBytes(10MB) = %s", got)
	}
	if got := FormatBytes(512); got != "512B" {
		t.Fatalf("FormatBytes(512) = %s", got)
	}
}
