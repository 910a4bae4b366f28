package analyzer

import (
	"context"
	"fmt"

	"photo-hub/app/model"
)

// ErrorKind 分析失败的类别，编排器按类别计数但不中断任务
type ErrorKind string

const (
	ErrRateLimited     ErrorKind = "rate_limited"     // 命中服务端限流
	ErrInvalidResponse ErrorKind = "invalid_response" // 响应无法解析
	ErrNetwork         ErrorKind = "network"          // 网络错误或超时
	ErrDecodeFailure   ErrorKind = "decode_failure"   // 本地图片无法解码
)

// AnalyzerError 带类别的分析错误
type AnalyzerError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AnalyzerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AnalyzerError) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, message string, err error) *AnalyzerError {
	return &AnalyzerError{Kind: kind, Message: message, Err: err}
}

// PhotoAnalyzer 照片分析能力，具体实现通过工厂按模型名选择
type PhotoAnalyzer interface {
	// Model 返回该分析器使用的模型标识
	Model() string

	// Analyze 分析单张照片并返回结构化元数据。
	// 失败时返回 *AnalyzerError，调用超时由实现自行控制并以错误上报
	Analyze(ctx context.Context, imagePath string, language Language) (*model.AnalysisResult, error)
}
