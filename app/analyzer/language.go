package analyzer

import "strings"

// Language 分析语言
type Language string

const (
	LanguageEN   Language = "en"
	LanguageZH   Language = "zh"
	LanguageAuto Language = "auto"
)

// NormalizeLanguage 将语言字符串归一化为 Language，未知值回落到英文
func NormalizeLanguage(s string) Language {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "zh", "chinese", "cn", "zh-cn", "zh_cn":
		return LanguageZH
	case "auto", "automatic", "":
		return LanguageAuto
	default:
		return LanguageEN
	}
}

// Resolve 将 auto 解析为具体语言，目前默认英文
func (l Language) Resolve() Language {
	if l == LanguageAuto {
		return LanguageEN
	}
	return l
}

const promptEN = `Analyze this photo and provide a detailed description. Include:
1. Main scene description (what is happening in the photo)
2. People (if any): approximate number, age range, activities
3. Locations: indoor/outdoor, specific places if recognizable
4. Objects: main objects in the scene
5. Tags: 5-10 relevant keywords for searching
6. Confidence: your overall confidence in this analysis, between 0.0 and 1.0

Return the analysis in this exact JSON format:
{
    "description": "detailed scene description",
    "people": ["person1", "person2", ...],
    "locations": ["location1", "location2", ...],
    "objects": ["object1", "object2", ...],
    "tags": ["tag1", "tag2", ...],
    "confidence": 0.9
}`

const promptZH = `分析这张照片并提供详细描述。包括：
1. 主要场景描述（照片中发生了什么）
2. 人物（如果有）：大致数量、年龄范围、活动
3. 地点：室内/室外、如果可识别则说明具体地点
4. 物体：场景中的主要物体
5. 标签：5-10个相关搜索关键词
6. 置信度：对本次分析的整体置信度，0.0 到 1.0 之间

请严格按照以下JSON格式返回分析结果：
{
    "description": "详细的场景描述",
    "people": ["人物1", "人物2", ...],
    "locations": ["地点1", "地点2", ...],
    "objects": ["物体1", "物体2", ...],
    "tags": ["标签1", "标签2", ...],
    "confidence": 0.9
}`

// promptFor 返回对应语言的默认提示词
func promptFor(language Language) string {
	if language.Resolve() == LanguageZH {
		return promptZH
	}
	return promptEN
}
