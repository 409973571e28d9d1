package fauxplay

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// isPathTraversal returns true if the relative path attempts to escape its base directory.
func isPathTraversal(relPath string) bool {
	clean := filepath.Clean(relPath)
	if filepath.IsAbs(clean) || filepath.VolumeName(clean) != "" {
		return true
	}
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return true
	}
	return false
}

// validExeName rejects names that are empty or carry a directory component.
func validExeName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("executable name is empty")
	case name == "." || name == "..":
		return fmt.Errorf("invalid executable name %q", name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("executable name %q contains a path separator", name)
	}
	return nil
}

// copyFile copies src over dst, creating or truncating dst and preserving the
// source permissions. Copying the same pair twice leaves one identical file.
func copyFile(log zerolog.Logger, src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if srcInfo.IsDir() {
		return fmt.Errorf("source %s is a directory", src)
	}

	if info, err := os.Lstat(dst); err == nil {
		if info.IsDir() {
			return fmt.Errorf("destination %s is a directory", dst)
		}
		log.Debug().Str("path", dst).Msg("overwriting existing file")
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("check destination: %w", err)
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer func() { _ = srcFile.Close() }()

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode().Perm()|0o100)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return fmt.Errorf("copy contents: %w", err)
	}

	if err := dstFile.Close(); err != nil {
		return fmt.Errorf("close destination: %w", err)
	}

	return nil
}
