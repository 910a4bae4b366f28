package storage

import (
	"fmt"
	"sort"
	"strings"

	"photo-hub/app/model"

	"golang.org/x/text/width"
)

// Search 按关键词搜索照片记录。
// 查询按空白切分为词元，任一词元与描述/标签/人物/物体/地点任一字段
// 的大小写不敏感子串匹配即命中（OR 语义，提高短查询的召回）。
// 中文查询没有空白词边界，整串作为单个词元做子串匹配即可。
// 结果按命中的 词元×字段 数降序，再按分析时间降序，截断到 limit
func (s *PhotoStore) Search(query string, limit int) ([]model.PhotoRecord, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}

	tokens := tokenize(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	// 子串匹配没有可用索引，交给 Go 侧统一做全半角折叠后的判定。
	// 个人照片库规模下线性扫描足够快
	var records []model.PhotoRecord
	if err := s.db.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("搜索照片记录失败: %w", err)
	}

	type scored struct {
		record model.PhotoRecord
		score  int
	}
	var matched []scored
	for _, rec := range records {
		score := matchScore(&rec, tokens)
		if score > 0 {
			matched = append(matched, scored{record: rec, score: score})
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].score != matched[j].score {
			return matched[i].score > matched[j].score
		}
		return matched[i].record.AnalyzedAt.After(matched[j].record.AnalyzedAt)
	})

	if len(matched) > limit {
		matched = matched[:limit]
	}

	results := make([]model.PhotoRecord, 0, len(matched))
	for _, m := range matched {
		results = append(results, m.record)
	}
	return results, nil
}

// matchScore 统计命中的 词元×字段 数，0 表示不命中
func matchScore(rec *model.PhotoRecord, tokens []string) int {
	fields := []string{
		normalizeText(rec.Description),
		normalizeText(strings.Join(rec.Tags, " ")),
		normalizeText(strings.Join(rec.People, " ")),
		normalizeText(strings.Join(rec.Objects, " ")),
		normalizeText(rec.Location),
	}

	score := 0
	for _, token := range tokens {
		for _, field := range fields {
			if field != "" && strings.Contains(field, token) {
				score++
			}
		}
	}
	return score
}

// tokenize 按空白切分查询并做匹配归一化
func tokenize(query string) []string {
	var tokens []string
	for _, tok := range strings.Fields(query) {
		tokens = append(tokens, normalizeText(tok))
	}
	return tokens
}

// normalizeText 折叠全半角并转为小写，匹配对中英文一致
func normalizeText(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToLower(width.Fold.String(s))
}
