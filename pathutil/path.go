// Package pathutil holds the small path helpers shared by config loading and log file placement.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// Fix resolves name against root. Absolute names are returned cleaned but otherwise unchanged.
func Fix(root, name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	if root == "" {
		root = "."
	}
	return filepath.Join(root, name)
}

// Ensure 确保目录存在
func Ensure(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// Exists reports whether path can be stat'ed (any file type). Permission and other stat errors count as absent.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

// FileDir returns the absolute directory containing filename.
func FileDir(filename string) (string, error) {
	abs, err := filepath.Abs(filename)
	if err != nil {
		return "", err
	}
	return filepath.Dir(abs), nil
}

// ExecDir returns the directory of the running executable.
func ExecDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}
