package database

import "photo-hub/app/model"

func AutoMigrate() error {
	// 自动迁移表结构
	return DB.AutoMigrate(
		&model.User{},
		&model.PhotoRecord{},
	)
}
