package scanner

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"photo-hub/app/config"
	"photo-hub/app/logger"
)

func testLogger() *logger.Logger {
	return logger.New(config.LogConfig{Level: "error", Format: "text", Output: "stdout"})
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("创建目录失败: %v", err)
	}
	if err := os.WriteFile(path, []byte("fake-image-bytes"), 0644); err != nil {
		t.Fatalf("写入文件失败: %v", err)
	}
}

func TestIsSupportedImage(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.jpg", true},
		{"a.JPG", true},
		{"b.jpeg", true},
		{"c.png", true},
		{"d.webp", true},
		{"e.TIFF", true},
		{"f.txt", false},
		{"g.mp4", false},
		{"noext", false},
	}
	for _, tt := range tests {
		if got := IsSupportedImage(tt.path); got != tt.want {
			t.Errorf("IsSupportedImage(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestScanRecursive(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, "a.jpg"))
	writeFile(t, filepath.Join(tmp, "sub", "b.png"))
	writeFile(t, filepath.Join(tmp, "sub", "deep", "c.webp"))
	writeFile(t, filepath.Join(tmp, "notes.txt"))

	s := New(true, testLogger())
	files, err := s.Scan(tmp)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if len(files) != 3 {
		t.Fatalf("期望 3 个文件，实际 %d 个: %v", len(files), files)
	}
	for _, f := range files {
		if !filepath.IsAbs(f) {
			t.Errorf("返回的路径不是绝对路径: %s", f)
		}
	}
}

func TestScanNonRecursive(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, "a.jpg"))
	writeFile(t, filepath.Join(tmp, "sub", "b.png"))

	s := New(false, testLogger())
	files, err := s.Scan(tmp)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if len(files) != 1 {
		t.Fatalf("非递归扫描期望 1 个文件，实际 %d 个: %v", len(files), files)
	}
	if filepath.Base(files[0]) != "a.jpg" {
		t.Errorf("期望 a.jpg，实际 %s", files[0])
	}
}

func TestScanDeterministicOrder(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, "c.jpg"))
	writeFile(t, filepath.Join(tmp, "a.jpg"))
	writeFile(t, filepath.Join(tmp, "b.jpg"))

	s := New(true, testLogger())
	first, err := s.Scan(tmp)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	second, err := s.Scan(tmp)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("同一快照两次扫描顺序不一致: %v vs %v", first, second)
	}
}

func TestScanMissingRoot(t *testing.T) {
	s := New(true, testLogger())
	if _, err := s.Scan(filepath.Join(t.TempDir(), "does-not-exist")); err == nil {
		t.Fatal("根目录不存在时期望返回错误")
	}
}

func TestScanMultipleRoots(t *testing.T) {
	root1 := t.TempDir()
	root2 := t.TempDir()
	writeFile(t, filepath.Join(root1, "a.jpg"))
	writeFile(t, filepath.Join(root2, "b.jpg"))

	s := New(true, testLogger())
	files, err := s.Scan(root1, root2)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("期望 2 个文件，实际 %d 个", len(files))
	}
}

func TestScanOverlappingRoots(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, "a.jpg"))
	writeFile(t, filepath.Join(tmp, "sub", "b.jpg"))

	s := New(true, testLogger())
	files, err := s.Scan(tmp, filepath.Join(tmp, "sub"), tmp)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("重叠根目录下同一文件不应重复: 期望 2 个，实际 %d 个: %v", len(files), files)
	}
}
