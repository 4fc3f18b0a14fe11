package shared

import (
	"os"
	"path/filepath"
	"strings"
)

// EnvValue returns the trimmed value of key; empty means unset.
func EnvValue(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

// SplitPathList splits a comma-separated directory list, dropping blanks.
func SplitPathList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, ExpandHome(part))
		}
	}
	return out
}

// WithTrailingDir ensures path ends in the directory name leaf.
func WithTrailingDir(path, leaf string) string {
	path = filepath.Clean(path)
	if filepath.Base(path) == leaf {
		return path
	}
	return filepath.Join(path, leaf)
}

func HomeDir() string {
	h, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return h
}
