package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"mehndi-album-backend/internal/config"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

// Fallback values returned whenever the generator cannot produce a usable
// caption or tag list. Describe never fails; at worst it returns these.
const FallbackCaption = "Beautiful mehndi design"

func FallbackTags() []string {
	return []string{"mehndi", "design"}
}

const describePrompt = "Analyze this image and provide a caption and tags. " +
	"Format your response exactly as:\nCaption: [short descriptive caption under 20 words]\n" +
	"Tags: [tag1, tag2, tag3]\n\nDo not include any other text."

// Captioner asks a Gemini-style generateContent endpoint to describe an
// image. It is a total function over its inputs: remote failures, non-2xx
// responses and unparseable answers all degrade to the fallback values.
type Captioner struct {
	client *resty.Client
	model  string
	apiKey string
}

// NewCaptioner creates a captioner from the gemini config section.
func NewCaptioner(cfg config.GeminiConfig) *Captioner {
	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(30 * time.Second)

	return &Captioner{
		client: cli,
		model:  cfg.Model,
		apiKey: cfg.APIKey,
	}
}

type generatePart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generateRequest struct {
	Contents []struct {
		Parts []generatePart `json:"parts"`
	} `json:"contents"`
	GenerationConfig struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Describe fetches the image, sends it to the generator and parses the
// answer into a caption and a cleaned tag list. It never returns an error.
func (c *Captioner) Describe(ctx context.Context, imageURL string) (string, []string) {
	imgResp, err := c.client.R().SetContext(ctx).Get(imageURL)
	if err != nil || !imgResp.IsSuccess() {
		log.Warn().Err(err).Str("image_url", imageURL).Msg("Failed to fetch image for captioning")
		return FallbackCaption, FallbackTags()
	}

	req := generateRequest{}
	req.Contents = make([]struct {
		Parts []generatePart `json:"parts"`
	}, 1)
	req.Contents[0].Parts = []generatePart{
		{Text: describePrompt},
		{InlineData: &inlineData{
			MimeType: mimeTypeFromURL(imageURL),
			Data:     base64.StdEncoding.EncodeToString(imgResp.Body()),
		}},
	}
	req.GenerationConfig.Temperature = 0.1
	req.GenerationConfig.MaxOutputTokens = 200

	var genResp generateResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("key", c.apiKey).
		SetBody(req).
		SetResult(&genResp).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", c.model))
	if err != nil || !resp.IsSuccess() {
		log.Warn().Err(err).Msg("Caption generator call failed")
		return FallbackCaption, FallbackTags()
	}

	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return FallbackCaption, FallbackTags()
	}

	return parseDescription(genResp.Candidates[0].Content.Parts[0].Text)
}

// mimeTypeFromURL infers the image MIME type from the URL extension,
// defaulting to JPEG.
func mimeTypeFromURL(url string) string {
	switch {
	case strings.Contains(url, ".png"):
		return "image/png"
	case strings.Contains(url, ".gif"):
		return "image/gif"
	case strings.Contains(url, ".webp"):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

var (
	fenceRe        = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")
	captionRe      = regexp.MustCompile(`(?i)caption:\s*(.+)`)
	tagsBracketRe  = regexp.MustCompile(`(?i)tags:\s*\[([^\]]*)\]`)
	tagsLineRe     = regexp.MustCompile(`(?i)tags:\s*(.+)`)
)

// parseDescription extracts a caption and tags from the model's answer.
// Canonical contract is the line format the prompt asks for; a JSON object
// answer (optionally wrapped in a code fence) is accepted as well since
// models routinely produce one. Anything unextractable falls back.
func parseDescription(text string) (string, []string) {
	text = strings.TrimSpace(text)
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		text = m[1]
	}

	var structured struct {
		Caption string   `json:"caption"`
		Tags    []string `json:"tags"`
	}
	if err := json.Unmarshal([]byte(text), &structured); err == nil && structured.Caption != "" {
		tags := cleanTags(structured.Tags)
		if len(tags) == 0 {
			tags = FallbackTags()
		}
		return strings.TrimSpace(structured.Caption), tags
	}

	caption := FallbackCaption
	if m := captionRe.FindStringSubmatch(text); m != nil {
		caption = strings.Trim(strings.TrimSpace(m[1]), `"`)
	}

	tags := FallbackTags()
	var rawTags string
	if m := tagsBracketRe.FindStringSubmatch(text); m != nil {
		rawTags = m[1]
	} else if m := tagsLineRe.FindStringSubmatch(text); m != nil {
		rawTags = m[1]
	}
	if rawTags != "" {
		if parsed := cleanTags(strings.Split(rawTags, ",")); len(parsed) > 0 {
			tags = parsed
		}
	}

	return caption, tags
}

// cleanTags trims whitespace and quotes, drops empty entries and removes
// duplicates, preserving first occurrence order.
func cleanTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.Trim(strings.TrimSpace(tag), `"`)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		cleaned = append(cleaned, tag)
	}
	return cleaned
}
