package pathhelper

import (
	"path/filepath"
	"strings"
)

// NormalizePath 将路径规范化为绝对路径，作为照片记录的稳定键
func NormalizePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

// EnsureTrailingSeparator 确保路径以分隔符结尾
func EnsureTrailingSeparator(path string) string {
	if !strings.HasSuffix(path, string(filepath.Separator)) {
		return path + string(filepath.Separator)
	}
	return path
}

// IsSubPath 检查 path 是否位于 root 之下
func IsSubPath(path, root string) bool {
	// 确保路径以分隔符结尾，避免 /photos2 误匹配 /photos
	root = EnsureTrailingSeparator(filepath.Clean(root))
	return strings.HasPrefix(filepath.Clean(path)+string(filepath.Separator), root)
}
