package pipeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Chapter headings as they appear in Spanish manuscripts, with English as a
// fallback. The numeral can be arabic or roman.
var chapterHeadingRegex = regexp.MustCompile(`(?im)^[ \t]*(?:cap[ií]tulo|chapter)[ \t]+(\d+|[ivxlcdm]+)\b[^\n]*$`)

// HeadingSplitter creates a splitter that cuts the manuscript at chapter
// headings. Text before the first heading is dropped (front matter). A
// manuscript without headings becomes a single chapter numbered 1.
func HeadingSplitter() SplitFunc {
	return func(text string) ([]ChapterSection, error) {
		if strings.TrimSpace(text) == "" {
			return []ChapterSection{}, nil
		}

		headings := chapterHeadingRegex.FindAllStringSubmatchIndex(text, -1)
		if len(headings) == 0 {
			start := 0
			end := len(text)
			return []ChapterSection{{
				Number:   1,
				Content:  strings.TrimSpace(text),
				StartPos: &start,
				EndPos:   &end,
				Metadata: map[string]interface{}{"splitting_method": "single"},
			}}, nil
		}

		var sections []ChapterSection
		for i, heading := range headings {
			title := strings.TrimSpace(text[heading[0]:heading[1]])
			numeral := text[heading[2]:heading[3]]

			number, err := parseChapterNumber(numeral)
			if err != nil {
				// Fall back to position in discourse order
				number = i + 1
			}

			contentStart := heading[1]
			contentEnd := len(text)
			if i+1 < len(headings) {
				contentEnd = headings[i+1][0]
			}

			content := strings.TrimSpace(text[contentStart:contentEnd])
			if content == "" {
				continue
			}

			startPos := contentStart
			endPos := contentEnd
			sections = append(sections, ChapterSection{
				Number:   number,
				Title:    title,
				Content:  content,
				StartPos: &startPos,
				EndPos:   &endPos,
				Metadata: map[string]interface{}{"splitting_method": "heading"},
			})
		}

		return sections, nil
	}
}

// ParagraphSplitter creates a splitter that treats each blank-line separated
// block as its own chapter. Useful for short texts and tests.
func ParagraphSplitter() SplitFunc {
	return func(text string) ([]ChapterSection, error) {
		paragraphs := strings.Split(text, "\n\n")

		var sections []ChapterSection
		pos := 0
		number := 1

		for _, paragraph := range paragraphs {
			trimmed := strings.TrimSpace(paragraph)
			if trimmed == "" {
				pos += len(paragraph) + 2
				continue
			}

			startPos := pos
			endPos := pos + len(paragraph)
			sections = append(sections, ChapterSection{
				Number:   number,
				Content:  trimmed,
				StartPos: &startPos,
				EndPos:   &endPos,
				Metadata: map[string]interface{}{"splitting_method": "paragraph"},
			})

			pos = endPos + 2
			number++
		}

		return sections, nil
	}
}

var romanValues = map[byte]int{
	'i': 1, 'v': 5, 'x': 10, 'l': 50, 'c': 100, 'd': 500, 'm': 1000,
}

func parseChapterNumber(numeral string) (int, error) {
	if n, err := strconv.Atoi(numeral); err == nil {
		return n, nil
	}

	numeral = strings.ToLower(numeral)
	total := 0
	for i := 0; i < len(numeral); i++ {
		value, ok := romanValues[numeral[i]]
		if !ok {
			return 0, fmt.Errorf("invalid roman numeral %q", numeral)
		}
		if i+1 < len(numeral) && romanValues[numeral[i+1]] > value {
			total -= value
		} else {
			total += value
		}
	}
	if total == 0 {
		return 0, fmt.Errorf("invalid roman numeral %q", numeral)
	}
	return total, nil
}
