package ui

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MaxProofBytes caps how much of a proof file is read before encoding.
const MaxProofBytes = 512 << 10

// proofPayload reads the file at path and returns its base64 content. Files
// larger than MaxProofBytes are truncated. A blank path yields no proof.
func proofPayload(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}

	f, err := os.Open(trimmed)
	if err != nil {
		return "", fmt.Errorf("open proof: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat proof: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("proof %s is a directory", filepath.Base(trimmed))
	}

	data, err := io.ReadAll(io.LimitReader(f, MaxProofBytes))
	if err != nil {
		return "", fmt.Errorf("read proof: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
