package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputManager handles export file organization and path management
type OutputManager struct {
	BaseOutputDir string
}

// NewOutputManager creates a new output manager
func NewOutputManager(baseOutputDir string) *OutputManager {
	return &OutputManager{
		BaseOutputDir: baseOutputDir,
	}
}

// CreateOutputDir creates the directory that groups the outputs of name
func (om *OutputManager) CreateOutputDir(name string) (string, error) {
	dir := filepath.Join(om.BaseOutputDir, filepath.Base(name))

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return dir, nil
}

// GetOutputFilePath generates a full path for an output file
func (om *OutputManager) GetOutputFilePath(name, fileName string) (string, error) {
	dir, err := om.CreateOutputDir(name)
	if err != nil {
		return "", err
	}

	// Clean the filename to remove any path separators
	return filepath.Join(dir, filepath.Base(fileName)), nil
}

// ResolveFile returns the path of an existing output file, or false when it
// does not exist or escapes the output directory
func (om *OutputManager) ResolveFile(name, fileName string) (string, bool) {
	if name != filepath.Base(name) || fileName != filepath.Base(fileName) ||
		strings.HasPrefix(name, ".") || strings.HasPrefix(fileName, ".") {
		return "", false
	}
	path := filepath.Join(om.BaseOutputDir, name, fileName)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}

// GetDownloadURL generates a download URL for a file
func (om *OutputManager) GetDownloadURL(name, fileName string) string {
	return fmt.Sprintf("/api/v1/exports/%s/%s", filepath.Base(name), filepath.Base(fileName))
}

// GetFileType determines the file type based on extension
func (om *OutputManager) GetFileType(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return "csv"
	case ".json":
		return "json"
	case ".parquet":
		return "parquet"
	default:
		return "unknown"
	}
}

// GetFileSize returns the size of a file in bytes
func (om *OutputManager) GetFileSize(filePath string) (int64, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return 0, err
	}
	return fileInfo.Size(), nil
}
