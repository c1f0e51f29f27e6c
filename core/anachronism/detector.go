package anachronism

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/siherrmann/chronicle/model"
)

const contextRadius = 50

type compiledTechnology struct {
	regex        *regexp.Regexp
	earliestYear int
	category     string
}

type compiledEpoch struct {
	regex *regexp.Regexp
	start int
	end   int
}

// Detector finds references to technologies that postdate the period a
// narrative is set in. It is purely lexical and deterministic: the same text
// always yields the same report.
type Detector struct {
	technologies []compiledTechnology
	epochs       []compiledEpoch
	logger       *slog.Logger
}

// NewDetector compiles the built-in tables into a detector.
func NewDetector(logger *slog.Logger) *Detector {
	return NewDetectorWithTables(DefaultTechnologyCategories(), DefaultEpochPatterns(), logger)
}

// NewDetectorWithTables compiles custom technology and epoch tables into a
// detector. The tables are compiled once here and never mutated afterwards.
func NewDetectorWithTables(categories []TechnologyCategory, epochs []EpochPattern, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}

	detector := &Detector{logger: logger}

	for _, category := range categories {
		for _, pattern := range category.Patterns {
			detector.technologies = append(detector.technologies, compiledTechnology{
				regex:        regexp.MustCompile(`(?i)` + pattern.Pattern),
				earliestYear: pattern.EarliestYear,
				category:     category.Name,
			})
		}
	}

	for _, pattern := range epochs {
		detector.epochs = append(detector.epochs, compiledEpoch{
			regex: regexp.MustCompile(`(?i)` + pattern.Pattern),
			start: pattern.Start,
			end:   pattern.End,
		})
	}

	return detector
}

// DetectNarrativePeriod estimates the period the text is set in from century
// mentions, era names and explicit years. When several indicators match, the
// narrowest range wins; explicit years yield a range of the year plus or minus
// ten. Returns nil when no indicator matches.
func (d *Detector) DetectNarrativePeriod(text string) *model.YearRange {
	var best *model.YearRange

	for _, epoch := range d.epochs {
		var candidate model.YearRange
		if epoch.start == 0 && epoch.end == 0 {
			match := epoch.regex.FindStringSubmatch(text)
			if match == nil {
				continue
			}
			year, err := strconv.Atoi(match[1])
			if err != nil {
				continue
			}
			candidate = model.YearRange{Start: year - 10, End: year + 10}
		} else {
			if !epoch.regex.MatchString(text) {
				continue
			}
			candidate = model.YearRange{Start: epoch.start, End: epoch.end}
		}

		if best == nil || candidate.Span() < best.Span() {
			best = &candidate
		}
	}

	return best
}

// Detect scans the text for technology references that did not yet exist at
// the end of the narrative period. A nil yearRange makes the detector estimate
// the period itself; without any period the report stays empty, since nothing
// can be anachronistic relative to an unknown time.
func (d *Detector) Detect(text string, yearRange *model.YearRange) *model.AnachronismReport {
	report := &model.AnachronismReport{}

	if yearRange == nil {
		yearRange = d.DetectNarrativePeriod(text)
	}
	if yearRange == nil {
		return report
	}

	report.EstimatedYearRange = yearRange
	report.NarrativePeriod = fmt.Sprintf("%d-%d", yearRange.Start, yearRange.End)
	narrativeEnd := yearRange.End

	for _, tech := range d.technologies {
		if tech.earliestYear <= narrativeEnd {
			continue
		}

		for _, location := range tech.regex.FindAllStringIndex(text, -1) {
			yearsDiff := tech.earliestYear - narrativeEnd
			confidence := 0.7
			switch {
			case yearsDiff > 200:
				confidence = 0.95
			case yearsDiff > 50:
				confidence = 0.85
			}

			report.Anachronisms = append(report.Anachronisms, &model.Anachronism{
				Term:          text[location[0]:location[1]],
				Context:       contextAround(text, location[0], location[1]),
				Position:      location[0],
				EarliestYear:  tech.earliestYear,
				Category:      tech.category,
				Confidence:    confidence,
				NarrativeYear: narrativeEnd,
			})
		}
	}

	sort.SliceStable(report.Anachronisms, func(i, j int) bool {
		return report.Anachronisms[i].Position < report.Anachronisms[j].Position
	})

	if len(report.Anachronisms) > 0 {
		d.logger.Info(
			"possible anachronisms detected",
			slog.Int("count", len(report.Anachronisms)),
			slog.String("period", report.NarrativePeriod),
		)
	}

	return report
}

// contextAround cuts a snippet around the match, widening to rune boundaries
// so multi-byte characters are never split.
func contextAround(text string, start, end int) string {
	ctxStart := start - contextRadius
	if ctxStart < 0 {
		ctxStart = 0
	}
	for ctxStart > 0 && !utf8.RuneStart(text[ctxStart]) {
		ctxStart--
	}

	ctxEnd := end + contextRadius
	if ctxEnd > len(text) {
		ctxEnd = len(text)
	}
	for ctxEnd < len(text) && !utf8.RuneStart(text[ctxEnd]) {
		ctxEnd++
	}

	return text[ctxStart:ctxEnd]
}
