package analysis

import (
	"regexp"
	"sort"
)

// EmojiCount is one entry in an emoji-frequency report.
type EmojiCount struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

// Covers the common emoji blocks plus the scattered symbol code points
// (arrows, geometric shapes, stars) that render as emoji in practice.
var emojiPattern = regexp.MustCompile(`[\x{1F600}-\x{1F64F}]|[\x{1F300}-\x{1F5FF}]|[\x{1F680}-\x{1F6FF}]|[\x{1F1E0}-\x{1F1FF}]|[\x{2600}-\x{26FF}]|[\x{2700}-\x{27BF}]|[\x{1F900}-\x{1F9FF}]|[\x{1F018}-\x{1F270}]|[\x{238C}]|[\x{2194}-\x{21AA}]|[\x{23E9}-\x{23F3}]|[\x{23F8}-\x{23FA}]|[\x{24C2}]|[\x{25AA}-\x{25AB}]|[\x{25B6}]|[\x{25C0}]|[\x{25FB}-\x{25FE}]|[\x{2B05}-\x{2B07}]|[\x{2B1B}-\x{2B1C}]|[\x{2B50}]|[\x{2B55}]|[\x{3030}]|[\x{303D}]|[\x{3297}]|[\x{3299}]`)

// EmojiFrequencies tallies emoji occurrences across the given texts and
// returns up to limit entries sorted count-descending. Each code point
// counts separately; no deduplication within a single text.
func EmojiFrequencies(texts []string, limit int) []EmojiCount {
	counts := make(map[string]int)

	for _, text := range texts {
		for _, match := range emojiPattern.FindAllString(text, -1) {
			counts[match]++
		}
	}

	result := make([]EmojiCount, 0, len(counts))
	for emoji, count := range counts {
		result = append(result, EmojiCount{Emoji: emoji, Count: count})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Emoji < result[j].Emoji
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}
