package analyzer

import (
	"encoding/base64"
	"time"

	"photo-hub/app/logger"
	"photo-hub/app/utils/imagehelper"
)

// Options 分析器构造参数
type Options struct {
	APIKey       string
	BaseURL      string        // 自定义 API 地址，空则使用各服务的默认端点
	MaxImageEdge int           // 上传前长边像素上限，0 表示不缩放
	InitialDelay time.Duration // 请求间初始延迟
	Log          *logger.Logger
}

// encodeImageBase64 预处理图片并编码为 base64，供请求体内联使用
func encodeImageBase64(imagePath string, maxEdge int) (string, error) {
	data, err := imagehelper.PrepareForUpload(imagePath, maxEdge)
	if err != nil {
		return "", newError(ErrDecodeFailure, "图片预处理失败", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
