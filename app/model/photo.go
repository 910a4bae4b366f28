package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList 以 JSON 文本形式存入 SQLite 的字符串列表
type StringList []string

// Value 实现 driver.Valuer
func (s StringList) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan 实现 sql.Scanner
func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("无法将 %T 扫描为 StringList", value)
	}
	if len(data) == 0 {
		*s = nil
		return nil
	}
	return json.Unmarshal(data, s)
}

// PhotoRecord 照片分析记录模型，path 为稳定标识，每个路径至多一条当前记录
type PhotoRecord struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	Path        string     `gorm:"size:500;uniqueIndex;not null;comment:规范化绝对路径" json:"path"`
	Fingerprint string     `gorm:"size:32;not null;index;comment:文件内容MD5指纹" json:"fingerprint"`
	Filename    string     `gorm:"size:255;not null;comment:文件名" json:"filename"`
	FileSize    int64      `gorm:"comment:文件大小（字节）" json:"file_size"`
	Width       int        `gorm:"comment:图片宽度（像素）" json:"width"`
	Height      int        `gorm:"comment:图片高度（像素）" json:"height"`
	Description string     `gorm:"type:text;comment:场景描述" json:"description"`
	Tags        StringList `gorm:"type:json;comment:搜索标签" json:"tags"`
	People      StringList `gorm:"type:json;comment:人物" json:"people"`
	Objects     StringList `gorm:"type:json;comment:主要物体" json:"objects"`
	Location    string     `gorm:"size:255;comment:推测地点" json:"location,omitempty"`
	Confidence  *float64   `gorm:"comment:置信度 0.0-1.0" json:"confidence,omitempty"`
	TakenAt     *time.Time `gorm:"comment:EXIF拍摄时间" json:"taken_at,omitempty"`
	ModelUsed   string     `gorm:"size:100;not null;index;comment:产出该记录的模型标识" json:"model_used"`
	AnalyzedAt  time.Time  `gorm:"index;comment:分析时间" json:"analyzed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName 指定表名
func (PhotoRecord) TableName() string {
	return "photo_records"
}
