package storage

import (
	"errors"
	"fmt"

	"photo-hub/app/logger"
	"photo-hub/app/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PhotoStore 照片元数据存储，photo_records 表的唯一写入方
type PhotoStore struct {
	db           *gorm.DB
	log          *logger.Logger
	dbPath       string
	defaultLimit int
}

// Stats 存储统计信息
type Stats struct {
	TotalPhotos      int64    `json:"total_photos"`
	TotalAnalyses    int64    `json:"total_analyses"`
	ModelsUsed       []string `json:"models_used"`
	DatabaseLocation string   `json:"database_location"`
}

// NewPhotoStore 创建照片元数据存储
func NewPhotoStore(db *gorm.DB, log *logger.Logger, dbPath string, defaultLimit int) *PhotoStore {
	if defaultLimit <= 0 {
		defaultLimit = 20
	}
	return &PhotoStore{
		db:           db,
		log:          log,
		dbPath:       dbPath,
		defaultLimit: defaultLimit,
	}
}

// Upsert 按 path 插入或替换记录，重复写入相同记录结果不变。
// 后续的 Get 和 Search 立即可见，没有异步索引延迟
func (s *PhotoStore) Upsert(record *model.PhotoRecord) error {
	if record.Path == "" {
		return fmt.Errorf("照片记录缺少路径")
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "path"}},
		UpdateAll: true,
	}).Create(record).Error
	if err != nil {
		return fmt.Errorf("写入照片记录失败: %w", err)
	}
	return nil
}

// Get 按路径查询记录，不存在时返回 (nil, nil)
func (s *PhotoStore) Get(path string) (*model.PhotoRecord, error) {
	var record model.PhotoRecord
	err := s.db.Where("path = ?", path).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询照片记录失败: %w", err)
	}
	return &record, nil
}

// HasCurrentAnalysis 判断路径是否已有指纹一致的分析记录，纯读操作。
// skip-existing 基于此判断：文件内容变化后指纹不同，会重新分析
func (s *PhotoStore) HasCurrentAnalysis(path, fingerprint string) (bool, error) {
	var count int64
	err := s.db.Model(&model.PhotoRecord{}).
		Where("path = ? AND fingerprint = ?", path, fingerprint).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("查询分析状态失败: %w", err)
	}
	return count > 0, nil
}

// Stats 返回全库统计信息
func (s *PhotoStore) Stats() (*Stats, error) {
	stats := &Stats{DatabaseLocation: s.dbPath}

	if err := s.db.Model(&model.PhotoRecord{}).Count(&stats.TotalPhotos).Error; err != nil {
		return nil, fmt.Errorf("统计照片总数失败: %w", err)
	}

	if err := s.db.Model(&model.PhotoRecord{}).
		Where("model_used <> ''").
		Count(&stats.TotalAnalyses).Error; err != nil {
		return nil, fmt.Errorf("统计分析总数失败: %w", err)
	}

	if err := s.db.Model(&model.PhotoRecord{}).
		Where("model_used <> ''").
		Distinct().
		Pluck("model_used", &stats.ModelsUsed).Error; err != nil {
		return nil, fmt.Errorf("统计已用模型失败: %w", err)
	}

	return stats, nil
}

// DefaultLimit 搜索结果的默认上限
func (s *PhotoStore) DefaultLimit() int {
	return s.defaultLimit
}
