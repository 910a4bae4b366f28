package analyzer

import (
	"fmt"
	"os"
	"strings"
	"time"

	"photo-hub/app/config"
	"photo-hub/app/logger"
)

// New 按模型名前缀创建对应的分析器。
// 支持 gemini-*、qwen-*、mock*，通过配置字符串选择实现而不是继承层次
func New(modelName string, opts Options) (PhotoAnalyzer, error) {
	lower := strings.ToLower(modelName)

	switch {
	case strings.HasPrefix(lower, "mock"):
		return NewMockAnalyzer(modelName), nil

	case strings.HasPrefix(lower, "gemini"):
		if opts.APIKey == "" {
			opts.APIKey = os.Getenv("GOOGLE_API_KEY")
		}
		if opts.APIKey == "" {
			return nil, fmt.Errorf("Gemini 模型需要 API 密钥，请配置 analyzer.api_key 或设置 GOOGLE_API_KEY 环境变量")
		}
		return NewGeminiAnalyzer(modelName, opts), nil

	case strings.HasPrefix(lower, "qwen"):
		if opts.APIKey == "" {
			opts.APIKey = os.Getenv("QWEN_API_KEY")
		}
		if opts.APIKey == "" {
			opts.APIKey = os.Getenv("DASHSCOPE_API_KEY")
		}
		if opts.APIKey == "" {
			return nil, fmt.Errorf("Qwen 模型需要 API 密钥，请配置 analyzer.api_key 或设置 QWEN_API_KEY/DASHSCOPE_API_KEY 环境变量")
		}
		return NewQwenAnalyzer(modelName, opts), nil

	case strings.Contains(lower, "gpt") || strings.Contains(lower, "openai"):
		return nil, fmt.Errorf("暂不支持 OpenAI 模型: %s", modelName)

	default:
		return nil, fmt.Errorf("无法识别的模型: %s，支持 gemini-*、qwen-*、mock", modelName)
	}
}

// NewFromConfig 按配置创建分析器，modelOverride 非空时覆盖配置中的模型
func NewFromConfig(cfg *config.Config, log *logger.Logger, modelOverride string) (PhotoAnalyzer, error) {
	modelName := cfg.Analyzer.Model
	if modelOverride != "" {
		modelName = modelOverride
	}

	return New(modelName, Options{
		APIKey:       cfg.Analyzer.APIKey,
		BaseURL:      cfg.Analyzer.BaseURL,
		MaxImageEdge: cfg.Analyzer.MaxImageEdge,
		InitialDelay: time.Duration(cfg.Analyzer.InitialDelay * float64(time.Second)),
		Log:          log,
	})
}
