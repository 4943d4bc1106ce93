package recovery

import (
	"reflect"
	"testing"
)

func TestAdviseOnKnownCodes(t *testing.T) {
	codes := []string{
		"FILE_TOO_LARGE",
		"INVALID_FILE_TYPE",
		"EMPTY_FILE",
		"MULTIPLE_FILES_NOT_ALLOWED",
		"UPLOAD_FAILED",
	}
	for _, code := range codes {
		options := AdviseOn(code)
		if len(options) == 0 {
			t.Fatalf("AdviseOn(%s) returned no options", code)
		}
	}
}

func TestAdviseOnUnknownCodeUsesDefault(t *testing.T) {
	got := AdviseOn("SOMETHING_NEW")
	if !reflect.DeepEqual(got, AdviseOn("")) {
		t.Fatalf("unknown codes should share the default list, got %v", got)
	}
	if len(got) == 0 {
		t.Fatal("default list must not be empty")
	}
}

func TestAdviseOnReturnsCopy(t *testing.T) {
	first := AdviseOn("EMPTY_FILE")
	first[0] = "mutated"
	second := AdviseOn("EMPTY_FILE")
	if second[0] == "mutated" {
		t.Fatal("AdviseOn must not expose shared backing storage")
	}
}

func TestAdviseOnIsDeterministic(t *testing.T) {
	if !reflect.DeepEqual(AdviseOn("FILE_TOO_LARGE"), AdviseOn("FILE_TOO_LARGE")) {
		t.Fatal("AdviseOn must be deterministic")
	}
}
