package extraction

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/siherrmann/chronicle/llm"
	"github.com/siherrmann/chronicle/model"
)

// Responses sometimes wrap the JSON array in prose, so the array is cut out
// before decoding.
var jsonArrayRegex = regexp.MustCompile(`(?s)\[.*\]`)

const truncationMarker = "\n[...texto truncado...]"

// Options controls one extraction call.
type Options struct {
	// MinConfidence is the threshold below which extracted instances are
	// dropped, applied again after any evidence discount.
	MinConfidence float64
	// MaxChars caps the chapter text sent to the backend.
	MaxChars int
	// Temperature for the completion, low by default for structured output.
	Temperature float64
	// MaxTokens for the completion.
	MaxTokens int
}

// DefaultOptions returns the extraction defaults.
func DefaultOptions() Options {
	return Options{
		MinConfidence: 0.6,
		MaxChars:      3000,
		Temperature:   0.2,
		MaxTokens:     500,
	}
}

// Extractor pulls temporal instances out of chapter text through a language
// model backend. It complements deterministic pattern extraction: its output
// is validated against the known entity set and grounded against the source
// text before anything is accepted.
type Extractor struct {
	completer llm.Completer
	logger    *slog.Logger
}

// NewExtractor creates an extractor on the given backend.
func NewExtractor(completer llm.Completer, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		completer: completer,
		logger:    logger,
	}
}

// Extract returns temporal instances found in the chapter text, restricted to
// the given entity names. It degrades gracefully: an unavailable backend, a
// failed completion or an unparseable response all yield an empty result, never
// an error. The analysis must be able to run without the generative tier.
func (e *Extractor) Extract(ctx context.Context, chapterText string, entityNames []string, options Options) []*model.TemporalInstance {
	if e.completer == nil || len(entityNames) == 0 || strings.TrimSpace(chapterText) == "" {
		return nil
	}

	if !e.completer.Available(ctx) {
		e.logger.Debug("generative extraction skipped, backend unavailable")
		return nil
	}

	textForPrompt := truncate(chapterText, options.MaxChars)
	prompt := buildExtractionPrompt(entityNames, textForPrompt)

	response, err := e.completer.Complete(ctx, llm.CompletionRequest{
		Prompt:      prompt,
		System:      temporalExtractionSystem,
		Temperature: options.Temperature,
		MaxTokens:   options.MaxTokens,
	})
	if err != nil {
		e.logger.Debug("generative extraction failed", slog.Any("error", err))
		return nil
	}
	if response == "" {
		return nil
	}

	return e.parseResponse(response, entityNames, chapterText, options.MinConfidence)
}

// truncate cuts text to at most maxChars characters, appending a marker so the
// backend knows it sees a prefix.
func truncate(text string, maxChars int) string {
	if maxChars <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars]) + truncationMarker
}

// rawInstance mirrors one item of the expected response array. Value and
// Confidence stay untyped because backends are sloppy about number encoding.
type rawInstance struct {
	Entity     string      `json:"entity"`
	Type       string      `json:"type"`
	Value      interface{} `json:"value"`
	Evidence   string      `json:"evidence"`
	Confidence interface{} `json:"confidence"`
}

func (e *Extractor) parseResponse(response string, entityNames []string, chapterText string, minConfidence float64) []*model.TemporalInstance {
	jsonText := jsonArrayRegex.FindString(response)
	if jsonText == "" {
		e.logger.Debug("generative extraction returned no JSON array", slog.String("response", clip(response, 200)))
		return nil
	}

	var items []rawInstance
	if err := json.Unmarshal([]byte(jsonText), &items); err != nil {
		e.logger.Debug("generative extraction returned invalid JSON", slog.Any("error", err))
		return nil
	}

	knownNames := make(map[string]bool, len(entityNames))
	for _, name := range entityNames {
		knownNames[strings.ToLower(name)] = true
	}
	textLower := strings.ToLower(chapterText)

	var instances []*model.TemporalInstance
	for _, item := range items {
		instance := e.validateItem(item, knownNames, textLower, minConfidence)
		if instance != nil {
			instances = append(instances, instance)
		}
	}
	return instances
}

// validateItem checks one response item: known kind, known entity, value in
// range and evidence actually present in the chapter. Evidence quotes that
// cannot be found in the text discount the confidence instead of rejecting
// outright, since backends tend to paraphrase.
func (e *Extractor) validateItem(item rawInstance, knownNames map[string]bool, textLower string, minConfidence float64) *model.TemporalInstance {
	kind := model.InstanceKind(item.Type)
	if !model.ValidInstanceKinds[kind] {
		return nil
	}

	confidence, ok := asFloat(item.Confidence)
	if !ok || confidence < minConfidence {
		return nil
	}

	if !knownNames[strings.ToLower(item.Entity)] {
		e.logger.Debug("generative extraction dropped unknown entity", slog.String("entity", item.Entity))
		return nil
	}

	instance := &model.TemporalInstance{
		EntityName: item.Entity,
		Kind:       kind,
		Evidence:   item.Evidence,
		Confidence: confidence,
	}

	switch kind {
	case model.InstanceAge:
		number, ok := asInt(item.Value)
		if !ok || number < 0 || number > 130 {
			return nil
		}
		instance.Number = number
	case model.InstancePhase:
		value, ok := item.Value.(string)
		if !ok {
			return nil
		}
		phase := model.LifePhase(strings.ToLower(value))
		if !model.ValidLifePhases[phase] {
			return nil
		}
		instance.Phase = phase
	case model.InstanceYear:
		number, ok := asInt(item.Value)
		if !ok || number < 0 || number > 2100 {
			return nil
		}
		instance.Number = number
	case model.InstanceOffset:
		number, ok := asInt(item.Value)
		if !ok || number < -200 || number > 200 {
			return nil
		}
		instance.Number = number
	}

	if len(item.Evidence) > 3 && !strings.Contains(textLower, strings.ToLower(item.Evidence)) {
		e.logger.Debug("generative extraction evidence not found in text", slog.String("evidence", clip(item.Evidence, 80)))
		instance.Confidence *= 0.6
		if instance.Confidence < minConfidence {
			return nil
		}
	}

	return instance
}

func asFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		// Backends sometimes quote numeric fields
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func asInt(value interface{}) (int, bool) {
	f, ok := asFloat(value)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
