package analyzer

import (
	"encoding/json"
	"strings"

	"photo-hub/app/model"
)

// analysisPayload 视觉模型按提示词返回的 JSON 结构
type analysisPayload struct {
	Description string   `json:"description"`
	People      []string `json:"people"`
	Locations   []string `json:"locations"`
	Objects     []string `json:"objects"`
	Tags        []string `json:"tags"`
	Confidence  *float64 `json:"confidence"`
}

// parseAnalysisText 从模型返回的文本中提取 JSON 并转换为分析结果。
// 模型常在 JSON 前后附带说明文字或 markdown 代码块，取首个 { 到末个 } 之间的内容
func parseAnalysisText(text, modelName string) (*model.AnalysisResult, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, newError(ErrInvalidResponse, "响应中未找到 JSON 内容", nil)
	}

	var payload analysisPayload
	if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err != nil {
		return nil, newError(ErrInvalidResponse, "解析 JSON 响应失败", err)
	}
	if payload.Description == "" {
		return nil, newError(ErrInvalidResponse, "响应缺少 description 字段", nil)
	}

	// 置信度限定在 0.0-1.0，越界视为模型未给出
	confidence := payload.Confidence
	if confidence != nil && (*confidence < 0 || *confidence > 1) {
		confidence = nil
	}

	return &model.AnalysisResult{
		Description: payload.Description,
		Tags:        payload.Tags,
		People:      payload.People,
		Objects:     payload.Objects,
		Location:    strings.Join(payload.Locations, ", "),
		Confidence:  confidence,
		ModelUsed:   modelName,
	}, nil
}
