package utils

import (
	"os"
	"path/filepath"
)

// IsFile tests whether given path exists and is a file
func IsFile(filePath string) bool {
	file, err := os.Stat(filePath)
	if err != nil {
		return false
	}

	return !file.IsDir()
}

// IsDirectory tests whether given path exists and is a directory
func IsDirectory(dirPath string) bool {
	dir, err := os.Stat(dirPath)
	if err != nil {
		return false
	}

	return dir.IsDir()
}

// ParentExists tests whether the directory a file would be created in exists
func ParentExists(filePath string) bool {
	return IsDirectory(filepath.Dir(filePath))
}
