package service

import (
	"log"
	"strings"
	"unicode/utf8"
)

const maxAILogSnippetRunes = 1024

// logAIExchange 输出餐单生成过程中发给模型的提示词与模型原始回复，超长内容会被截断。
func logAIExchange(phase, content string) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		log.Printf("[AI MEALPLAN] %s: <empty>", phase)
		return
	}
	log.Printf("[AI MEALPLAN] %s (runes=%d): %s", phase, utf8.RuneCountInString(trimmed), truncateRunes(trimmed, maxAILogSnippetRunes))
}

// truncateRunes 按字符数截断，超出部分以省略标记替代。
func truncateRunes(input string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(input)
	if len(runes) <= limit {
		return input
	}
	return string(runes[:limit]) + "…(truncated)"
}
