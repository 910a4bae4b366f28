package analyzer

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"photo-hub/app/logger"
	"photo-hub/app/model"

	"resty.dev/v3"
)

const geminiDefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiAnalyzer 调用 Google Gemini 视觉模型的分析器
type GeminiAnalyzer struct {
	modelName    string
	client       *resty.Client
	limiter      *AdaptiveRateLimiter
	maxImageEdge int
	log          *logger.Logger
}

// NewGeminiAnalyzer 创建 Gemini 分析器
func NewGeminiAnalyzer(modelName string, opts Options) *GeminiAnalyzer {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = geminiDefaultBaseURL
	}

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetQueryParam("key", opts.APIKey)
	// 超时由分析器自行控制，超时以单文件失败上报而不是挂起整个任务
	client.SetTimeout(60 * time.Second)

	return &GeminiAnalyzer{
		modelName:    modelName,
		client:       client,
		limiter:      NewAdaptiveRateLimiter(opts.InitialDelay),
		maxImageEdge: opts.MaxImageEdge,
		log:          opts.Log,
	}
}

// Model 返回模型标识
func (g *GeminiAnalyzer) Model() string {
	return g.modelName
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Analyze 分析单张照片
func (g *GeminiAnalyzer) Analyze(ctx context.Context, imagePath string, language Language) (*model.AnalysisResult, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, newError(ErrNetwork, "等待限流间隔被取消", err)
	}

	imgData, err := encodeImageBase64(imagePath, g.maxImageEdge)
	if err != nil {
		return nil, err
	}

	body := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{
				{Text: promptFor(language)},
				{InlineData: &geminiInlineData{MimeType: "image/jpeg", Data: imgData}},
			},
		}},
	}

	var result geminiResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		Post(fmt.Sprintf("/models/%s:generateContent", g.modelName))
	if err != nil {
		g.limiter.Adjust(false)
		return nil, newError(ErrNetwork, "Gemini 请求失败", err)
	}

	if resp.StatusCode() == http.StatusTooManyRequests {
		g.limiter.Adjust(false)
		return nil, newError(ErrRateLimited, "Gemini 限流", nil)
	}
	if resp.StatusCode() != http.StatusOK {
		g.limiter.Adjust(false)
		return nil, newError(ErrInvalidResponse, fmt.Sprintf("Gemini 返回状态码 %d: %s", resp.StatusCode(), resp.String()), nil)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		g.limiter.Adjust(false)
		return nil, newError(ErrInvalidResponse, "Gemini 响应中没有候选内容", nil)
	}

	analysis, perr := parseAnalysisText(result.Candidates[0].Content.Parts[0].Text, g.modelName)
	g.limiter.Adjust(perr == nil)
	if perr != nil {
		return nil, perr
	}
	return analysis, nil
}
