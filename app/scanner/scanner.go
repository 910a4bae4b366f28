package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"photo-hub/app/logger"
	"photo-hub/app/utils/pathhelper"
)

// 固定允许的图片扩展名，大小写不敏感
var supportedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".bmp":  {},
	".tiff": {},
	".webp": {},
}

// IsSupportedImage 判断路径的扩展名是否在允许列表内
func IsSupportedImage(path string) bool {
	_, ok := supportedExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Scanner 照片目录扫描器
type Scanner struct {
	recursive bool
	log       *logger.Logger
}

// New 创建目录扫描器
func New(recursive bool, log *logger.Logger) *Scanner {
	return &Scanner{
		recursive: recursive,
		log:       log,
	}
}

// Scan 枚举根目录下的候选图片文件，返回规范化的绝对路径。
// 顺序为 WalkDir 的字典序，对同一文件系统快照保持确定，
// 权限不足的子目录记录警告后跳过，不中断整个扫描。
// WalkDir 不跟随符号链接，目录软链循环不会造成死循环。
func (s *Scanner) Scan(roots ...string) ([]string, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("未指定扫描根目录")
	}

	var files []string
	seen := make(map[string]struct{})
	var visited []string
	for _, root := range roots {
		normalized, err := pathhelper.NormalizePath(root)
		if err != nil {
			return nil, fmt.Errorf("规范化路径 %s 失败: %w", root, err)
		}

		info, err := os.Stat(normalized)
		if err != nil {
			return nil, fmt.Errorf("根目录不可访问: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("不是目录: %s", normalized)
		}

		// 递归模式下，被前面的根目录覆盖的根不再重复遍历
		if s.recursive && coveredBy(normalized, visited) {
			s.log.Debugf("跳过已被覆盖的根目录: %s", normalized)
			continue
		}
		visited = append(visited, normalized)

		err = filepath.WalkDir(normalized, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				// 单个条目不可读不致命，跳过并继续
				s.log.Warnf("跳过不可读条目 %s: %v", path, walkErr)
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if d.IsDir() {
				if !s.recursive && path != normalized {
					return filepath.SkipDir
				}
				return nil
			}

			if IsSupportedImage(path) {
				// 根目录重叠时同一文件只收录一次
				if _, dup := seen[path]; !dup {
					seen[path] = struct{}{}
					files = append(files, path)
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("遍历目录 %s 失败: %w", normalized, err)
		}
	}

	s.log.Infof("目录扫描完成，共找到 %d 个候选图片文件", len(files))
	return files, nil
}

// coveredBy 判断 root 是否等于或位于任一已遍历根目录之下
func coveredBy(root string, visited []string) bool {
	for _, v := range visited {
		if root == v || pathhelper.IsSubPath(root, v) {
			return true
		}
	}
	return false
}
