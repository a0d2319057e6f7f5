package shipper

import (
	"encoding/json"
	"strings"
)

// detailPaths are the error envelope fields read by ExtractDetail, in priority order.
var detailPaths = [][]string{
	{"status", "detail"},
	{"detail"},
	{"message"},
	{"error"},
}

// codePaths are the error envelope fields read by ExtractCode, in priority order.
var codePaths = [][]string{
	{"code"},
	{"errorCode"},
	{"status", "code"},
	{"error_code"},
}

// ExtractDetail returns the human readable message of a carrier error body.
// The body is returned unchanged when it is not JSON or has no known message field.
func ExtractDetail(body []byte) string {
	if msg, ok := firstString(body, detailPaths); ok {
		return msg
	}
	return string(body)
}

// ExtractCode returns the carrier error code of an error body, or "".
func ExtractCode(body []byte) string {
	code, _ := firstString(body, codePaths)
	return code
}

func firstString(body []byte, paths [][]string) (string, bool) {
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", false
	}
	for _, path := range paths {
		if s, ok := lookupString(doc, path); ok {
			return s, true
		}
	}
	return "", false
}

func lookupString(doc map[string]any, path []string) (string, bool) {
	var cur any = doc
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return "", false
		}
		if cur, ok = m[key]; !ok {
			return "", false
		}
	}
	s, ok := cur.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}
