package analyzer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"photo-hub/app/model"
)

// MockAnalyzer 不访问网络的假分析器，用于无 API 密钥时的试用和测试
type MockAnalyzer struct {
	modelName string
}

// NewMockAnalyzer 创建假分析器
func NewMockAnalyzer(modelName string) *MockAnalyzer {
	if modelName == "" {
		modelName = "mock"
	}
	return &MockAnalyzer{modelName: modelName}
}

// Model 返回模型标识
func (m *MockAnalyzer) Model() string {
	return m.modelName
}

// Analyze 根据文件名生成确定性的分析结果
func (m *MockAnalyzer) Analyze(_ context.Context, imagePath string, language Language) (*model.AnalysisResult, error) {
	name := strings.TrimSuffix(filepath.Base(imagePath), filepath.Ext(imagePath))
	confidence := 0.5

	description := fmt.Sprintf("A mock analysis of photo %s", name)
	if language.Resolve() == LanguageZH {
		description = fmt.Sprintf("照片 %s 的模拟分析结果", name)
	}

	return &model.AnalysisResult{
		Description: description,
		Tags:        []string{"mock", name},
		Objects:     []string{"placeholder"},
		Confidence:  &confidence,
		ModelUsed:   m.modelName,
	}, nil
}
