package app

import "testing"

func TestParseStrictArray(t *testing.T) {
	text := `Here is your roadmap:
[
  {"topic": "Graphs", "description": "BFS and DFS", "priority": "High", "estimated_hours": 30, "resources": ["LeetCode Graph Problems"]},
  {"topic": "Heaps", "priority": "Medium"}
]
Good luck!`
	result := parseRoadmapItems(text)
	if result.Stage != StageStrict {
		t.Fatalf("expected strict stage, got %v", result.Stage)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
	if result.Items[0].Topic != "Graphs" || result.Items[0].EstimatedHours != 30 {
		t.Fatalf("unexpected first item: %+v", result.Items[0])
	}
}

func TestParseRepairsMissingComma(t *testing.T) {
	result := parseRoadmapItems(`[{"topic":"A"} {"topic":"B"}]`)
	if result.Stage != StageRepaired {
		t.Fatalf("expected repaired stage, got %v", result.Stage)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items after comma repair, got %d", len(result.Items))
	}
	if result.Items[0].Topic != "A" || result.Items[1].Topic != "B" {
		t.Fatalf("unexpected items: %+v", result.Items)
	}
}

func TestParseNoBracketsYieldsEmpty(t *testing.T) {
	result := parseRoadmapItems("I'm sorry, I'm having trouble processing your request right now.")
	if result.Stage != StageEmpty || len(result.Items) != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestParseUndecodableYieldsEmpty(t *testing.T) {
	result := parseRoadmapItems(`some noise [not json at all] trailing`)
	if result.Stage != StageEmpty || len(result.Items) != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestParseAppliesDefaults(t *testing.T) {
	result := parseRoadmapItems(`[{}]`)
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result.Items))
	}
	item := result.Items[0]
	if item.Topic != "Learning Topic" {
		t.Fatalf("unexpected topic default: %q", item.Topic)
	}
	if item.Description != "Important skill to master" {
		t.Fatalf("unexpected description default: %q", item.Description)
	}
	if string(item.Priority) != "Medium" {
		t.Fatalf("unexpected priority default: %q", item.Priority)
	}
	if item.EstimatedHours != 20 {
		t.Fatalf("unexpected hours default: %d", item.EstimatedHours)
	}
	if len(item.Resources) != 1 || item.Resources[0] != "Practice and study materials" {
		t.Fatalf("unexpected resources default: %v", item.Resources)
	}
}

func TestParseDropsItemWithBadHours(t *testing.T) {
	result := parseRoadmapItems(`[{"topic":"A","estimated_hours":"soonish"},{"topic":"B","estimated_hours":"15"}]`)
	if len(result.Items) != 1 {
		t.Fatalf("expected the bad item dropped, got %d items", len(result.Items))
	}
	if result.Items[0].Topic != "B" || result.Items[0].EstimatedHours != 15 {
		t.Fatalf("unexpected surviving item: %+v", result.Items[0])
	}
}

func TestParseCapsAtTwentyItems(t *testing.T) {
	text := "["
	for i := 0; i < 25; i++ {
		if i > 0 {
			text += ","
		}
		text += `{"topic":"T"}`
	}
	text += "]"
	result := parseRoadmapItems(text)
	if len(result.Items) != 20 {
		t.Fatalf("expected cap of 20 items, got %d", len(result.Items))
	}
}

func TestParseNormalizesLineBreaksInsideArray(t *testing.T) {
	result := parseRoadmapItems("[\n  {\"topic\":\n    \"Split\"}\n]")
	if result.Stage != StageStrict || len(result.Items) != 1 || result.Items[0].Topic != "Split" {
		t.Fatalf("unexpected result: %+v", result)
	}
}
