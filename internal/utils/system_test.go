package utils

import (
	"os"
	"testing"
)

func TestGetUsername(t *testing.T) {
	username, err := GetUsername()
	if err != nil {
		t.Fatalf("GetUsername failed: %v", err)
	}
	if username == "" {
		t.Fatal("Expected non-empty username")
	}
}

func TestFormatPaths(t *testing.T) {
	os.Setenv("NO_COLOR", "1")
	defer os.Unsetenv("NO_COLOR")

	got := FormatPaths([]string{"a.txt", "enc.b.txt"})
	want := "\n    - a.txt\n    - enc.b.txt\n"
	if got != want {
		t.Errorf("FormatPaths() = %q, want %q", got, want)
	}
}

func TestPlural(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 layers"},
		{1, "1 layer"},
		{3, "3 layers"},
	}
	for _, tt := range tests {
		if got := Plural(tt.n, "layer"); got != tt.want {
			t.Errorf("Plural(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
