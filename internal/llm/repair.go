package llm

import (
	"encoding/json"
	"strings"

	"github.com/verdiscan/label-backend/internal/common"
)

// DecodeModelJSON parses a model reply expected to be a single JSON object.
// Fenced code block markers are stripped first; if direct parsing fails, a
// recovery pass retries on the substring between the first '{' and the last
// '}'. When both fail the error keeps the raw reply for diagnosis.
func DecodeModelJSON(content string) (map[string]any, error) {
	raw := content
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		lines := strings.Split(content, "\n")
		if len(lines) >= 2 {
			content = strings.Join(lines[1:len(lines)-1], "\n")
		}
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(content), &m); err == nil {
		return m, nil
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start != -1 && end > start {
		if err := json.Unmarshal([]byte(content[start:end+1]), &m); err == nil {
			return m, nil
		}
		return nil, &common.ModelResponseError{Reason: "object substring does not parse", Raw: raw}
	}
	return nil, &common.ModelResponseError{Reason: "no JSON object in reply", Raw: raw}
}
