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

// Qwen 走 DashScope 的 OpenAI 兼容端点
const qwenDefaultBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"

// QwenAnalyzer 调用通义千问视觉模型的分析器
type QwenAnalyzer struct {
	modelName    string
	client       *resty.Client
	limiter      *AdaptiveRateLimiter
	maxImageEdge int
	log          *logger.Logger
}

// NewQwenAnalyzer 创建 Qwen 分析器
func NewQwenAnalyzer(modelName string, opts Options) *QwenAnalyzer {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = qwenDefaultBaseURL
	}

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetAuthToken(opts.APIKey)
	client.SetTimeout(60 * time.Second)

	return &QwenAnalyzer{
		modelName:    modelName,
		client:       client,
		limiter:      NewAdaptiveRateLimiter(opts.InitialDelay),
		maxImageEdge: opts.MaxImageEdge,
		log:          opts.Log,
	}
}

// Model 返回模型标识
func (q *QwenAnalyzer) Model() string {
	return q.modelName
}

type qwenRequest struct {
	Model    string        `json:"model"`
	Messages []qwenMessage `json:"messages"`
}

type qwenMessage struct {
	Role    string        `json:"role"`
	Content []qwenContent `json:"content"`
}

type qwenContent struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *qwenImageURL `json:"image_url,omitempty"`
}

type qwenImageURL struct {
	URL string `json:"url"`
}

type qwenResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Analyze 分析单张照片
func (q *QwenAnalyzer) Analyze(ctx context.Context, imagePath string, language Language) (*model.AnalysisResult, error) {
	if err := q.limiter.Wait(ctx); err != nil {
		return nil, newError(ErrNetwork, "等待限流间隔被取消", err)
	}

	imgData, err := encodeImageBase64(imagePath, q.maxImageEdge)
	if err != nil {
		return nil, err
	}

	body := qwenRequest{
		Model: q.modelName,
		Messages: []qwenMessage{{
			Role: "user",
			Content: []qwenContent{
				{Type: "text", Text: promptFor(language)},
				{Type: "image_url", ImageURL: &qwenImageURL{URL: "data:image/jpeg;base64," + imgData}},
			},
		}},
	}

	var result qwenResponse
	resp, err := q.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		Post("/chat/completions")
	if err != nil {
		q.limiter.Adjust(false)
		return nil, newError(ErrNetwork, "Qwen 请求失败", err)
	}

	if resp.StatusCode() == http.StatusTooManyRequests {
		q.limiter.Adjust(false)
		return nil, newError(ErrRateLimited, "Qwen 限流", nil)
	}
	if resp.StatusCode() != http.StatusOK {
		q.limiter.Adjust(false)
		return nil, newError(ErrInvalidResponse, fmt.Sprintf("Qwen 返回状态码 %d: %s", resp.StatusCode(), resp.String()), nil)
	}

	if len(result.Choices) == 0 {
		q.limiter.Adjust(false)
		return nil, newError(ErrInvalidResponse, "Qwen 响应中没有候选内容", nil)
	}

	analysis, perr := parseAnalysisText(result.Choices[0].Message.Content, q.modelName)
	q.limiter.Adjust(perr == nil)
	if perr != nil {
		return nil, perr
	}
	return analysis, nil
}
