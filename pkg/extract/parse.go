package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

var (
	thinkTags = regexp.MustCompile(`(?s)<think>.*?</think>`)
	codeFence = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")
)

// rawEntity and rawRelation mirror the JSON the model is asked to produce.
type rawEntity struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

type rawRelation struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Relation string `json:"relation"`
	Evidence string `json:"evidence"`
}

type rawExtraction struct {
	Entities  []rawEntity   `json:"entities"`
	Relations []rawRelation `json:"relations"`
}

// cleanResponse drops reasoning blocks and markdown fences around the JSON.
func cleanResponse(s string) string {
	s = strings.TrimSpace(thinkTags.ReplaceAllString(s, ""))
	if m := codeFence.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	return strings.TrimSpace(s)
}

// parseExtraction decodes a model reply, repairing it locally when the
// plain decode fails.
func parseExtraction(response string) (*rawExtraction, error) {
	cleaned := cleanResponse(response)
	if cleaned == "" {
		return nil, fmt.Errorf("empty response")
	}

	var out rawExtraction
	if err := json.Unmarshal([]byte(cleaned), &out); err == nil {
		return &out, nil
	}

	repaired, err := jsonrepair.JSONRepair(cleaned)
	if err != nil {
		return nil, fmt.Errorf("json repair failed: %w", err)
	}
	out = rawExtraction{}
	if err := json.Unmarshal([]byte(repaired), &out); err != nil {
		return nil, fmt.Errorf("unmarshal failed after repair: %w", err)
	}
	return &out, nil
}
