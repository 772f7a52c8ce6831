package errors

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateInputFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "source.png")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		code Code
	}{
		{"existing file", file, ""},
		{"empty", "", ErrCodeInvalidPath},
		{"missing", filepath.Join(dir, "missing.png"), ErrCodeFileNotFound},
		{"directory", dir, ErrCodeInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInputFile(tt.path)
			if tt.code == "" {
				if err != nil {
					t.Errorf("ValidateInputFile(%q) unexpected error: %v", tt.path, err)
				}
				return
			}
			if !Is(err, tt.code) {
				t.Errorf("ValidateInputFile(%q) = %v, want code %s", tt.path, err, tt.code)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"in existing dir", filepath.Join(dir, "atlas.png"), false},
		{"empty", "", true},
		{"missing dir", filepath.Join(dir, "nope", "atlas.png"), true},
		{"control char", "atlas\x01.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFormatName(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"png", false},
		{"jpeg", false},
		{"", true},
		{"PNG", true},
		{"p n g", true},
		{"../png", true},
	}

	for _, tt := range tests {
		err := ValidateFormatName(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormatName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormatName(%q) returned wrong code: %v", tt.input, err)
		}
	}
}
