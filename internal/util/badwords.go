package util

import (
	"strings"
)

// BadWordFilter 敏感词过滤器，命中返回 true。
// 匹配前做小写化并去掉常见的分隔符，避免 "b.a.d" 这类绕过。
type BadWordFilter struct {
	words    []string
	replacer *strings.Replacer
}

var defaultBadWords = []string{
	"damn", "shit", "fuck", "bitch", "bastard", "asshole",
	"idiot", "stupid", "dumbass", "moron", "retard",
}

func NewBadWordFilter(extra ...string) *BadWordFilter {
	words := make([]string, 0, len(defaultBadWords)+len(extra))
	words = append(words, defaultBadWords...)
	for _, w := range extra {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			words = append(words, w)
		}
	}

	return &BadWordFilter{
		words: words,
		replacer: strings.NewReplacer(
			" ", "", ".", "", ",", "", "-", "", "_", "", "*", "",
		),
	}
}

// Check 文本中包含敏感词时返回 true
func (f *BadWordFilter) Check(text string) bool {
	if text == "" {
		return false
	}
	normalized := f.replacer.Replace(strings.ToLower(text))
	for _, w := range f.words {
		if strings.Contains(normalized, w) {
			return true
		}
	}
	return false
}
