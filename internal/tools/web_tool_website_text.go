package tools

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/martinkhristi/sambanova-product-recomodation/internal/models"
	"golang.org/x/net/html"
)

// maxWebsiteTextRunes caps page dumps so a single product page cannot blow
// the model's context window.
const maxWebsiteTextRunes = 8000

type WebsiteTextTool struct {
	client *http.Client
}

// WebsiteText lets the model read a product page found through search.
var WebsiteText = WebsiteTextTool{client: &http.Client{Timeout: 20 * time.Second}}

func (w WebsiteTextTool) Call(input models.Input) (string, error) {
	url, ok := input["url"].(string)
	if !ok {
		return "", fmt.Errorf("url must be a string")
	}
	resp, err := w.client.Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch website: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("website http %d", resp.StatusCode)
	}

	var text strings.Builder
	tokenizer := html.NewTokenizer(resp.Body)
	skipDepth := 0
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			if tokenizer.Err() == io.EOF {
				break
			}
			return "", fmt.Errorf("tokenizer error: %w", tokenizer.Err())
		}
		switch tt {
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if tag := string(name); tag == "script" || tag == "style" {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if tag := string(name); (tag == "script" || tag == "style") && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			trimmed := bytes.TrimSpace(tokenizer.Text())
			if len(trimmed) > 0 {
				text.Write(trimmed)
				text.WriteRune('\n')
			}
		}
		if text.Len() > maxWebsiteTextRunes {
			break
		}
	}
	out := text.String()
	if len(out) > maxWebsiteTextRunes {
		out = out[:maxWebsiteTextRunes] + "\n... (truncated)"
	}
	return out, nil
}

func (w WebsiteTextTool) Specification() models.Specification {
	return models.Specification{
		Name:        "website_text",
		Description: "Get the text content of a website by stripping all non-text tags and trimming whitespace.",
		Inputs: &models.InputSchema{
			Type: "object",
			Properties: map[string]models.ParameterObject{
				"url": {
					Type:        "string",
					Description: "The URL of the website to retrieve the text content from.",
				},
			},
			Required: []string{"url"},
		},
	}
}
