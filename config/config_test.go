package config

import (
	"strings"
	"testing"

	"ministrylog/ministry"
)

func TestValidateYAMLContent_ExampleIsValid(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte(ExampleYAML()))
	if err != nil {
		t.Fatalf("example config must validate: %v", err)
	}
	if cfg.Profile.Name != "홍길동" || cfg.Profile.Department != "청년부" {
		t.Fatalf("unexpected profile %+v", cfg.Profile)
	}
	if cfg.Storage.DBPath != "./ministrylog.db" || cfg.Output.Dir != "." || cfg.Log.Mode != "prod" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestValidateYAMLContent_AppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte("profile:\n  name: \" 김목사 \"\nlog:\n  mode: DEV\n"))
	if err != nil {
		t.Fatalf("expected config to validate: %v", err)
	}
	if cfg.Profile.Name != "김목사" {
		t.Fatalf("expected trimmed name, got %q", cfg.Profile.Name)
	}
	if cfg.Profile.Church() != ministry.DefaultChurchName || cfg.Template.Path != "./template.hwpx" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.Log.Mode != "dev" {
		t.Fatalf("expected normalised log mode, got %q", cfg.Log.Mode)
	}
}

func TestValidateYAMLContent_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "missing name", content: "profile:\n  department: x\n", want: "Name"},
		{name: "bad template url", content: "profile:\n  name: a\ntemplate:\n  url: \"ftp://host/t.hwpx\"\n", want: "URL"},
		{name: "bad log mode", content: "profile:\n  name: a\nlog:\n  mode: verbose\n", want: "Mode"},
	}

	for _, tc := range tests {
		_, err := ValidateYAMLContent([]byte(tc.content))
		if err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
	}
}
