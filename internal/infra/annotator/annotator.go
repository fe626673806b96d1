// Package annotator provides AI-powered paper annotation implementations.
// It includes adapters for Claude (Anthropic) and OpenAI-compatible APIs with
// reliability patterns. Each annotator judges whether a paper deserves the
// featured mark and writes a short commentary, with comprehensive
// observability through structured logging and Prometheus metrics.
package annotator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vegetablefj/bluearxiv/internal/domain/entity"
)

// ErrMalformedResponse indicates the model reply did not follow the
// verdict protocol (first line 0 or 1, commentary after).
var ErrMalformedResponse = errors.New("annotator: malformed model response")

// Annotator judges one paper and produces commentary plus a featured flag.
type Annotator interface {
	Annotate(ctx context.Context, paper entity.Paper) (entity.AnnotatedPaper, error)
}

// Config holds shared configuration parameters for AI annotators.
type Config struct {
	// Model is the API model identifier.
	Model string

	// MaxTokens is the maximum number of tokens for the API response.
	MaxTokens int

	// Timeout is the maximum duration for a single annotation API call.
	Timeout time.Duration

	// Keywords bias the featured verdict; papers matching one of these
	// research interests are candidates for the featured mark.
	Keywords []string

	// BaseURL overrides the API endpoint for OpenAI-compatible providers.
	BaseURL string
}

func (c *Config) withDefaults() {
	if c.MaxTokens <= 0 {
		c.MaxTokens = 300
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
}

// systemPrompt instructs the model on the verdict protocol and the
// commentary register. Kept in Chinese with English terminology, matching
// the audience of the generated digest.
const systemPrompt = `你是一位严格的数学学术专家。请用中文（数学名词术语保持英文！！！使用英文标点符号！！）为每篇论文生成内容总结。

## 输出格式（对每篇论文）：
第一行：0 或 1
第二行开始：总结（中文！！！数学名词术语保持英文！！！使用英文标点符号！！！）

## 精选标准较为严格，只对以下论文标1：
1. 方法具有一定的开创性
2. 解决了该领域长期存在的问题
3. 与我提供的关键词中的某个较为契合

## 总结撰写规则：
- 如果标1：在同一段内给出详细概括（3-4句）
- 如果标0：保持简洁概括，甚至可以模糊（2句左右）
- 对于一些可能不那么常见的概念，可以用括号在名词后面进行一定的解释，如果做不到完全严谨可以略有模糊

## 内容要求：
0. 简洁一些，不要照搬摘要！！！
1. 使用中文！！！注意斟酌术语翻译！！！
2. 使用英文标点符号！！！
3. 数学公式用$...$包裹，严格确保公式部分可以直接被latex中常用的数学包编译。这一点很重要！
4. 大致格式，不需要完全严格遵循：本文用[工具/方法]证明了[结果]，为[问题]提供了[贡献]
5. 不要解释评分原因，直接给出判断`

// buildUserPrompt renders one paper plus the keyword list into the user
// message of the annotation request.
func buildUserPrompt(paper entity.Paper, keywords []string) string {
	authors := "N/A"
	if len(paper.Authors) > 0 {
		authors = strings.Join(paper.Authors, ", ")
	}
	categories := "N/A"
	if len(paper.Categories) > 0 {
		categories = strings.Join(paper.Categories, ", ")
	}

	return fmt.Sprintf(`请总结以下数学论文：

标题: %s
作者: %s
分类: %s
摘要: %s

我的关键词列表：%s

请按以下格式输出总结：
[0或1]
[总结内容]
`, paper.Title, authors, categories, paper.Abstract, strings.Join(keywords, ", "))
}

// parseVerdict splits a model reply into the featured flag and the
// commentary. The protocol requires the first non-empty line to be "0" or
// "1" and at least one further non-empty line of commentary.
func parseVerdict(raw string) (featured bool, commentary string, err error) {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	if len(lines) < 2 {
		return false, "", fmt.Errorf("%w: %d non-empty lines", ErrMalformedResponse, len(lines))
	}

	switch lines[0] {
	case "0":
		featured = false
	case "1":
		featured = true
	default:
		return false, "", fmt.Errorf("%w: verdict line %q", ErrMalformedResponse, lines[0])
	}

	return featured, strings.Join(lines[1:], "\n"), nil
}
