package errors

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateInputFile checks that path names an existing regular file.
func ValidateInputFile(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "input path cannot be empty")
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return New(ErrCodeFileNotFound, "input file %s does not exist", path)
	}
	if err != nil {
		return Wrap(ErrCodeInvalidPath, err, "stat %s", path)
	}
	if info.IsDir() {
		return New(ErrCodeInvalidPath, "input %s is a directory", path)
	}
	return nil
}

// ValidateOutputPath checks that the directory an output file will be
// written into exists. The file itself may or may not exist.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Wrap(ErrCodeInvalidPath, err, "resolve %s", path)
	}
	dir := filepath.Dir(abs)
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return New(ErrCodeFileNotFound, "output folder %s does not exist", dir)
	}
	if err != nil {
		return Wrap(ErrCodeInvalidPath, err, "stat %s", dir)
	}
	if !info.IsDir() {
		return New(ErrCodeInvalidPath, "output folder %s is not a directory", dir)
	}
	return nil
}

// ValidateFormatName checks that a format name is a bare lowercase token
// such as "png" or "jpeg". It does not decide whether the format is
// supported; callers do that against their own tables.
func ValidateFormatName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if strings.ToLower(name) != name {
		return New(ErrCodeInvalidFormat, "format must be lowercase: %q", name)
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' {
			return New(ErrCodeInvalidFormat, "format contains invalid characters: %q", name)
		}
	}
	return nil
}
