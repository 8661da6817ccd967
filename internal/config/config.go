package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FieldAliases maps each canonical field to the ordered list of source
// column names accepted for it. First match wins; order matters because
// exports frequently carry several of these columns at once.
type FieldAliases struct {
	Date         []string `yaml:"date"`
	Category     []string `yaml:"category"`
	Usage        []string `yaml:"usage"`
	Requests     []string `yaml:"requests"`
	Cost         []string `yaml:"cost"`
	InputTokens  []string `yaml:"inputTokens"`
	OutputTokens []string `yaml:"outputTokens"`
}

// CategoryAlias canonicalizes a known category-name variant. Match is
// compared case-insensitively as a substring of the cleaned name, so
// more specific entries must come before their prefixes ("glm-4" before
// "glm").
type CategoryAlias struct {
	Match     string `yaml:"match"`
	Canonical string `yaml:"canonical"`
}

// Aliases bundles everything the normalization pipeline treats as data
// rather than code.
type Aliases struct {
	Fields     FieldAliases    `yaml:"fields"`
	Categories []CategoryAlias `yaml:"categories"`
}

// DefaultAliases returns the built-in alias tables, covering the column
// headings observed across known billing exports (both Chinese-language
// console exports and English API dumps).
func DefaultAliases() Aliases {
	return Aliases{
		Fields: FieldAliases{
			Date: []string{
				"账期(自然日)", "入账时间", "消费时间", "时间", "日期", "date", "time",
			},
			Category: []string{
				"模型编码（推理专用）", "模型产品名称", "模型编码", "模型",
				"model", "Model", "模型产品编码",
			},
			Usage: []string{
				"总token", "total_tokens", "totalTokens", "总Token",
				"用量", "抵扣用量", "抵扣后用量",
			},
			Requests: []string{
				"请求次数 (仅API)", "请求次数", "requests", "调用次数",
			},
			Cost: []string{
				"总消费金额（结算金额加总）", "应付金额", "费用", "amount", "cost",
				"金额", "目录价", "单价",
			},
			InputTokens: []string{
				"输入token", "input_tokens", "inputTokens", "输入Token",
			},
			OutputTokens: []string{
				"输出token", "output_tokens", "outputTokens", "输出Token",
			},
		},
		Categories: []CategoryAlias{
			{Match: "chatglm-3", Canonical: "ChatGLM3"},
			{Match: "chatglm3", Canonical: "ChatGLM3"},
			{Match: "chatglm6b", Canonical: "ChatGLM-6B"},
			{Match: "chatglm", Canonical: "ChatGLM"},
			{Match: "codegeex2", Canonical: "CodeGeeX2"},
			{Match: "codegeex", Canonical: "CodeGeeX"},
			{Match: "glm-4", Canonical: "GLM-4"},
			{Match: "glm4", Canonical: "GLM-4"},
			{Match: "glm 4", Canonical: "GLM-4"},
			{Match: "glm", Canonical: "GLM"},
		},
	}
}

// LoadAliases returns the default alias tables, overlaid with the given
// YAML file when path is non-empty. A section absent from the file keeps
// its defaults.
func LoadAliases(path string) (Aliases, error) {
	aliases := DefaultAliases()
	if path == "" {
		return aliases, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return aliases, fmt.Errorf("failed to read alias file: %w", err)
	}

	var overlay Aliases
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return aliases, fmt.Errorf("failed to parse alias file %s: %w", path, err)
	}

	if len(overlay.Fields.Date) > 0 {
		aliases.Fields.Date = overlay.Fields.Date
	}
	if len(overlay.Fields.Category) > 0 {
		aliases.Fields.Category = overlay.Fields.Category
	}
	if len(overlay.Fields.Usage) > 0 {
		aliases.Fields.Usage = overlay.Fields.Usage
	}
	if len(overlay.Fields.Requests) > 0 {
		aliases.Fields.Requests = overlay.Fields.Requests
	}
	if len(overlay.Fields.Cost) > 0 {
		aliases.Fields.Cost = overlay.Fields.Cost
	}
	if len(overlay.Fields.InputTokens) > 0 {
		aliases.Fields.InputTokens = overlay.Fields.InputTokens
	}
	if len(overlay.Fields.OutputTokens) > 0 {
		aliases.Fields.OutputTokens = overlay.Fields.OutputTokens
	}
	if len(overlay.Categories) > 0 {
		aliases.Categories = overlay.Categories
	}

	return aliases, nil
}
