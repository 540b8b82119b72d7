package app

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"crackit/pkg/domain"
)

// maxParsedItems caps how many items are taken from model output.
const maxParsedItems = 20

// ParseStage identifies which stage of the recovery pipeline produced the
// result, so tests can target each stage independently.
type ParseStage int

const (
	// StageStrict decoded the extracted array without any repair.
	StageStrict ParseStage = iota
	// StageRepaired decoded only after the missing-comma repair pass.
	StageRepaired
	// StageEmpty found no decodable structured content.
	StageEmpty
)

// ParseResult carries the extracted items and the stage that produced them.
type ParseResult struct {
	Items []domain.RoadmapItem
	Stage ParseStage
}

var (
	lineBreakRE    = regexp.MustCompile(`\n\s*`)
	missingCommaRE = regexp.MustCompile(`}\s*{`)
)

// parseRoadmapItems extracts a roadmap item list from free-form model
// output. It never fails: any defect short of a decodable array degrades
// to an empty result, and individually broken items are dropped.
func parseRoadmapItems(text string) ParseResult {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end < start {
		return ParseResult{Stage: StageEmpty}
	}
	candidate := lineBreakRE.ReplaceAllString(text[start:end+1], " ")

	var raw []map[string]any
	if err := json.Unmarshal([]byte(candidate), &raw); err == nil {
		return ParseResult{Items: buildItems(raw), Stage: StageStrict}
	}

	// Common model defect: adjacent object literals with the separating
	// comma missing.
	repaired := missingCommaRE.ReplaceAllString(candidate, "},{")
	if err := json.Unmarshal([]byte(repaired), &raw); err == nil {
		return ParseResult{Items: buildItems(raw), Stage: StageRepaired}
	}
	return ParseResult{Stage: StageEmpty}
}

// buildItems constructs roadmap items from decoded objects. Absent fields
// default; an item whose estimated_hours cannot be coerced is dropped
// without failing the batch.
func buildItems(raw []map[string]any) []domain.RoadmapItem {
	if len(raw) > maxParsedItems {
		raw = raw[:maxParsedItems]
	}
	items := make([]domain.RoadmapItem, 0, len(raw))
	for _, entry := range raw {
		hours, ok := coerceHours(entry["estimated_hours"])
		if !ok {
			continue
		}
		items = append(items, domain.RoadmapItem{
			Topic:          stringField(entry, "topic", "Learning Topic"),
			Description:    stringField(entry, "description", "Important skill to master"),
			Priority:       domain.Priority(stringField(entry, "priority", string(domain.PriorityMedium))),
			EstimatedHours: hours,
			Resources:      resourceList(entry["resources"]),
		})
	}
	return items
}

func stringField(entry map[string]any, key, fallback string) string {
	if v, ok := entry[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// coerceHours converts the estimated_hours value to an integer, defaulting
// to 20 when absent. A present but non-coercible value fails the item.
func coerceHours(v any) (int, bool) {
	switch value := v.(type) {
	case nil:
		return 20, true
	case float64:
		return int(value), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func resourceList(v any) []string {
	values, ok := v.([]any)
	if !ok {
		return []string{"Practice and study materials"}
	}
	resources := make([]string, 0, len(values))
	for _, value := range values {
		if s, ok := value.(string); ok {
			resources = append(resources, s)
		}
	}
	if len(resources) == 0 {
		return []string{"Practice and study materials"}
	}
	return resources
}
