package analysis

import (
	"regexp"
	"sort"
	"strings"
)

// WordCount is one entry in a word-frequency report.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

var (
	urlPattern     = regexp.MustCompile(`https?://\S+`)
	mentionPattern = regexp.MustCompile(`@\w+`)
	hashtagPattern = regexp.MustCompile(`#\w+`)
	punctPattern   = regexp.MustCompile(`[^\w\s]`)
	spacePattern   = regexp.MustCompile(`\s+`)
	digitsPattern  = regexp.MustCompile(`^\d+$`)

	// Known contractions fold to their apostrophe-free form so the stop
	// list below can catch them. Anything else keeps default punctuation
	// handling.
	contractionPattern = regexp.MustCompile(`\b(?:don't|won't|can't|isn't|aren't|wasn't|weren't|hasn't|haven't|hadn't|doesn't|didn't|wouldn't|shouldn't|couldn't|mightn't|mustn't|needn't|i'm|you're|he's|she's|it's|we're|they're|i've|you've|we've|they've|i'll|you'll|he'll|she'll|we'll|they'll|i'd|you'd|he'd|she'd|we'd|they'd|that's|what's|where's|when's|who's|how's|why's)\b`)
)

var stopWords = func() map[string]struct{} {
	words := []string{
		"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with", "by", "from", "up", "about", "into", "through", "during", "before", "after", "above", "below", "between", "among", "against", "is", "are", "was", "were", "be", "been", "being", "have", "has", "had", "do", "does", "did", "will", "would", "could", "should", "may", "might", "must", "can", "this", "that", "these", "those", "i", "you", "he", "she", "it", "we", "they", "me", "him", "her", "us", "them", "my", "your", "his", "its", "our", "their", "what", "which", "who", "when", "where", "why", "how", "so", "just", "not", "only", "also", "very", "much", "more", "most", "some", "any", "all", "both", "each", "few", "many", "other", "another", "such", "no", "yes", "well", "now", "then", "here", "there", "out", "get", "go", "come", "see", "know", "think", "take", "want", "give", "make", "say", "tell", "back", "way", "too", "even", "still", "good", "great", "like", "rt", "via",
		// folded contraction forms
		"dont", "wont", "cant", "isnt", "arent", "wasnt", "werent", "hasnt", "havent", "hadnt", "doesnt", "didnt", "wouldnt", "shouldnt", "couldnt", "mightnt", "mustnt", "neednt", "im", "youre", "hes", "shes", "theyre", "ive", "youve", "weve", "theyve", "ill", "youll", "hell", "shell", "theyll", "youd", "hed", "shed", "wed", "theyd", "thats", "whats", "wheres", "whens", "whos", "hows", "whys",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}()

// WordFrequencies counts significant words across the given texts and
// returns up to limit entries sorted count-descending. URLs, mentions and
// hashtags are stripped, stop words and pure numbers are skipped, and only
// words longer than two characters appearing more than once qualify.
func WordFrequencies(texts []string, limit int) []WordCount {
	counts := make(map[string]int)

	for _, text := range texts {
		clean := strings.ToLower(text)
		clean = urlPattern.ReplaceAllString(clean, "")
		clean = mentionPattern.ReplaceAllString(clean, "")
		clean = hashtagPattern.ReplaceAllString(clean, "")
		clean = contractionPattern.ReplaceAllStringFunc(clean, func(m string) string {
			return strings.ReplaceAll(m, "'", "")
		})
		clean = punctPattern.ReplaceAllString(clean, " ")
		clean = spacePattern.ReplaceAllString(clean, " ")

		for _, word := range strings.Fields(clean) {
			if len([]rune(word)) <= 2 {
				continue
			}
			if _, stop := stopWords[word]; stop {
				continue
			}
			if digitsPattern.MatchString(word) {
				continue
			}
			counts[word]++
		}
	}

	result := make([]WordCount, 0, len(counts))
	for word, count := range counts {
		if count > 1 {
			result = append(result, WordCount{Word: word, Count: count})
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Word < result[j].Word
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}
