package model

// AnalysisResult 视觉模型对单张照片的分析结果
type AnalysisResult struct {
	Description string   `json:"description"`          // 场景描述
	Tags        []string `json:"tags"`                 // 搜索标签
	People      []string `json:"people"`               // 人物
	Objects     []string `json:"objects"`              // 主要物体
	Location    string   `json:"location,omitempty"`   // 推测地点
	Confidence  *float64 `json:"confidence,omitempty"` // 置信度 0.0-1.0
	ModelUsed   string   `json:"model_used"`           // 产出结果的模型标识
}
