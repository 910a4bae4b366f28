package storage

import (
	"fmt"
	"testing"
	"time"

	"photo-hub/app/model"
)

func TestSearchRanking(t *testing.T) {
	store := newTestStore(t)
	now := time.Now()

	// 命中两个词元、三处字段
	full := sampleRecord("/photos/beach-sunset.jpg", now)
	full.Tags = model.StringList{"sunset", "beach"}
	full.Description = "A walk on the beach"
	if err := store.Upsert(full); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	// 仅命中 beach
	partial := sampleRecord("/photos/beach-only.jpg", now.Add(time.Hour))
	partial.Tags = model.StringList{"beach"}
	partial.Description = "rocks by the water"
	if err := store.Upsert(partial); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	results, err := store.Search("beach sunset", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("期望 2 条结果，实际 %d 条", len(results))
	}
	if results[0].Path != "/photos/beach-sunset.jpg" {
		t.Errorf("命中更多词元的记录应排在前面，实际第一条是 %s", results[0].Path)
	}
}

func TestSearchLimit(t *testing.T) {
	store := newTestStore(t)
	for i := 0; i < 10; i++ {
		rec := sampleRecord(fmt.Sprintf("/photos/beach-%d.jpg", i), time.Now())
		if err := store.Upsert(rec); err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}
	}

	results, err := store.Search("beach", 3)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) > 3 {
		t.Errorf("结果数 %d 超过 limit 3", len(results))
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	store := newTestStore(t)
	if err := store.Upsert(sampleRecord("/photos/a.jpg", time.Now())); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	results, err := store.Search("BEACH", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Errorf("大写查询应命中，实际 %d 条", len(results))
	}
}

func TestSearchChinese(t *testing.T) {
	store := newTestStore(t)

	rec := sampleRecord("/photos/xihu.jpg", time.Now())
	rec.Description = "傍晚的西湖边，游客在湖畔散步"
	rec.Tags = model.StringList{"西湖", "黄昏", "散步"}
	rec.Location = "杭州西湖"
	if err := store.Upsert(rec); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	// 中文无空白词边界，整串作为子串匹配
	results, err := store.Search("西湖", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("中文查询应命中，实际 %d 条", len(results))
	}

	// 未出现的关键词不命中
	none, err := store.Search("长城", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(none) != 0 {
		t.Errorf("无关中文查询不应命中，实际 %d 条", len(none))
	}
}

func TestSearchNoTokens(t *testing.T) {
	store := newTestStore(t)
	if err := store.Upsert(sampleRecord("/photos/a.jpg", time.Now())); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	results, err := store.Search("   ", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("空查询不应返回结果，实际 %d 条", len(results))
	}
}

func TestSearchEveryResultMatches(t *testing.T) {
	store := newTestStore(t)
	now := time.Now()

	match := sampleRecord("/photos/beach.jpg", now)
	other := sampleRecord("/photos/city.jpg", now)
	other.Description = "downtown at night"
	other.Tags = model.StringList{"city", "night"}
	other.Objects = model.StringList{"buildings"}
	other.Location = "shanghai"
	if err := store.Upsert(match); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := store.Upsert(other); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	results, err := store.Search("beach", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	for _, rec := range results {
		if matchScore(&rec, tokenize("beach")) == 0 {
			t.Errorf("返回了不含任何查询词元的记录: %s", rec.Path)
		}
	}
	if len(results) != 1 {
		t.Errorf("期望仅命中 1 条，实际 %d 条", len(results))
	}
}
