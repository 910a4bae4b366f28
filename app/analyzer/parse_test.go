package analyzer

import (
	"errors"
	"testing"
)

func TestParseAnalysisText(t *testing.T) {
	raw := `{"description":"海边日落","people":[],"locations":["海滩"],"objects":["太阳"],"tags":["日落","海滩"],"confidence":0.85}`

	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"纯JSON", raw, false},
		{"markdown代码块包裹", "```json\n" + raw + "\n```", false},
		{"前后附带说明文字", "Here is the analysis:\n" + raw + "\nHope it helps!", false},
		{"没有JSON", "I cannot analyze this image.", true},
		{"JSON损坏", `{"description": "x", "tags": [`, true},
		{"缺少description", `{"tags":["a"]}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseAnalysisText(tt.text, "qwen-vl-plus")
			if tt.wantErr {
				if err == nil {
					t.Fatal("期望解析失败")
				}
				var aerr *AnalyzerError
				if !errors.As(err, &aerr) || aerr.Kind != ErrInvalidResponse {
					t.Errorf("期望 invalid_response 错误，实际 %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAnalysisText() error = %v", err)
			}
			if result.Description != "海边日落" {
				t.Errorf("Description = %q", result.Description)
			}
			if result.Location != "海滩" {
				t.Errorf("Location = %q", result.Location)
			}
			if result.Confidence == nil || *result.Confidence != 0.85 {
				t.Errorf("Confidence = %v", result.Confidence)
			}
			if result.ModelUsed != "qwen-vl-plus" {
				t.Errorf("ModelUsed = %q", result.ModelUsed)
			}
		})
	}
}

func TestParseAnalysisTextConfidenceOutOfRange(t *testing.T) {
	result, err := parseAnalysisText(`{"description":"x","confidence":1.5}`, "mock")
	if err != nil {
		t.Fatalf("parseAnalysisText() error = %v", err)
	}
	if result.Confidence != nil {
		t.Errorf("越界置信度应视为缺失，实际 %v", *result.Confidence)
	}
}

func TestParseAnalysisTextMultipleLocations(t *testing.T) {
	result, err := parseAnalysisText(`{"description":"x","locations":["indoor","kitchen"]}`, "mock")
	if err != nil {
		t.Fatalf("parseAnalysisText() error = %v", err)
	}
	if result.Location != "indoor, kitchen" {
		t.Errorf("Location = %q", result.Location)
	}
}
