package parser

import (
	"encoding/json"
	"regexp"
	"strings"
)

var jsonBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?\\S)\\s*```")

// jsonCandidates は JSON として試す部分文字列を優先順に返します。
// コードブロックの中身、本文中で { か [ から始まり単独でデコードできる値、応答全体の順です。
func jsonCandidates(raw string) []string {
	var out []string
	for _, m := range jsonBlockRegex.FindAllStringSubmatch(raw, -1) {
		out = append(out, m[1])
	}

	for i := 0; i < len(raw); i++ {
		if raw[i] != '{' && raw[i] != '[' {
			continue
		}
		var v json.RawMessage
		if err := json.NewDecoder(strings.NewReader(raw[i:])).Decode(&v); err != nil {
			continue
		}
		out = append(out, string(v))
		// 取り出した値の内側は同じ値の一部なので飛ばす
		i += len(v) - 1
	}

	return append(out, raw)
}

// truncateString はエラーメッセージ用に文字列をルーン単位で切り詰めます。
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
