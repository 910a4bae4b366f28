package analyzer

import (
	"context"
	"testing"
)

func TestNewByModelPrefix(t *testing.T) {
	tests := []struct {
		model   string
		apiKey  string
		wantErr bool
	}{
		{"mock", "", false},
		{"mock-v2", "", false},
		{"gemini-2.0-flash-exp", "test-key", false},
		{"qwen-vl-plus", "test-key", false},
		{"gpt-4o", "test-key", true},
		{"llava", "test-key", true},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			a, err := New(tt.model, Options{APIKey: tt.apiKey})
			if tt.wantErr {
				if err == nil {
					t.Fatal("期望创建失败")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if a.Model() != tt.model {
				t.Errorf("Model() = %q, want %q", a.Model(), tt.model)
			}
		})
	}
}

func TestNewGeminiRequiresAPIKey(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	if _, err := New("gemini-2.0-flash-exp", Options{}); err == nil {
		t.Fatal("无密钥时期望创建失败")
	}
}

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want Language
	}{
		{"en", LanguageEN},
		{"English", LanguageEN},
		{"zh", LanguageZH},
		{"zh-CN", LanguageZH},
		{"Chinese", LanguageZH},
		{"auto", LanguageAuto},
		{"", LanguageAuto},
		{"klingon", LanguageEN},
	}
	for _, tt := range tests {
		if got := NormalizeLanguage(tt.in); got != tt.want {
			t.Errorf("NormalizeLanguage(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMockAnalyzerDeterministic(t *testing.T) {
	m := NewMockAnalyzer("mock")

	first, err := m.Analyze(context.Background(), "/photos/beach.jpg", LanguageEN)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	second, err := m.Analyze(context.Background(), "/photos/beach.jpg", LanguageEN)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if first.Description != second.Description {
		t.Errorf("同一输入应产生相同结果: %q vs %q", first.Description, second.Description)
	}
	if first.ModelUsed != "mock" {
		t.Errorf("ModelUsed = %q", first.ModelUsed)
	}

	zh, err := m.Analyze(context.Background(), "/photos/beach.jpg", LanguageZH)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if zh.Description == first.Description {
		t.Error("中文分析结果应与英文不同")
	}
}
