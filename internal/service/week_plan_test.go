package service

import (
	"encoding/json"
	"reflect"
	"testing"
)

func dayLabels(t *testing.T, plan map[string]any) []string {
	t.Helper()
	days, ok := plan[WeekPlanKey].([]any)
	if !ok {
		t.Fatalf("week_plan is not a list: %#v", plan[WeekPlanKey])
	}
	labels := make([]string, 0, len(days))
	for _, entry := range days {
		day, _ := entry.(map[string]any)
		label, _ := day["day"].(string)
		labels = append(labels, label)
	}
	return labels
}

func planWithDays(labels ...string) map[string]any {
	days := make([]any, 0, len(labels))
	for i, label := range labels {
		days = append(days, map[string]any{"day": label, "seq": i})
	}
	return map[string]any{WeekPlanKey: days}
}

func TestSortWeekPlanReverseOrder(t *testing.T) {
	plan := planWithDays("Sunday", "Saturday", "Friday", "Thursday", "Wednesday", "Tuesday", "Monday")

	got := dayLabels(t, SortWeekPlan(plan))
	if !reflect.DeepEqual(got, Weekdays) {
		t.Fatalf("expected %v, got %v", Weekdays, got)
	}
}

func TestSortWeekPlanIsIdempotent(t *testing.T) {
	once := SortWeekPlan(planWithDays("Wednesday", "Holiday", "Monday", "Sunday", "Monday"))
	first, _ := json.Marshal(once)

	twice := SortWeekPlan(once)
	second, _ := json.Marshal(twice)

	if string(first) != string(second) {
		t.Fatalf("sorting twice changed the plan:\n%s\n%s", first, second)
	}
}

func TestSortWeekPlanUnknownLabelsKeepRelativeOrder(t *testing.T) {
	plan := planWithDays("Holiday", "Tuesday", "", "Monday", "Someday")

	got := SortWeekPlan(plan)
	labels := dayLabels(t, got)
	want := []string{"Monday", "Tuesday", "Holiday", "", "Someday"}
	if !reflect.DeepEqual(labels, want) {
		t.Fatalf("expected %v, got %v", want, labels)
	}

	// 同为无法识别的条目保持原始相对顺序
	days := got[WeekPlanKey].([]any)
	if days[2].(map[string]any)["seq"] != 0 || days[4].(map[string]any)["seq"] != 4 {
		t.Fatalf("unrecognized entries reordered: %#v", days)
	}
}

func TestSortWeekPlanJapaneseLabels(t *testing.T) {
	plan := planWithDays("日曜日", "水曜日", "月曜日")

	labels := dayLabels(t, SortWeekPlan(plan))
	want := []string{"月曜日", "水曜日", "日曜日"}
	if !reflect.DeepEqual(labels, want) {
		t.Fatalf("expected %v, got %v", want, labels)
	}
}

func TestSortWeekPlanPassThrough(t *testing.T) {
	tests := []struct {
		name string
		plan map[string]any
	}{
		{name: "nil", plan: nil},
		{name: "missing key", plan: map[string]any{"days": []any{map[string]any{"day": "Sunday"}}}},
		{name: "not a list", plan: map[string]any{WeekPlanKey: "Monday"}},
		{name: "object", plan: map[string]any{WeekPlanKey: map[string]any{"day": "Monday"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, _ := json.Marshal(tt.plan)
			got := SortWeekPlan(tt.plan)
			after, _ := json.Marshal(got)
			if string(before) != string(after) {
				t.Fatalf("expected identity, got %s from %s", after, before)
			}
		})
	}
}

func TestSortWeekPlanKeepsExtraEntries(t *testing.T) {
	plan := planWithDays("Friday", "Monday", "Friday", "Monday", "Tuesday", "Sunday", "Saturday", "Thursday", "Wednesday")

	labels := dayLabels(t, SortWeekPlan(plan))
	if len(labels) != 9 {
		t.Fatalf("expected 9 entries, got %d", len(labels))
	}
	want := []string{"Monday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Friday", "Saturday", "Sunday"}
	if !reflect.DeepEqual(labels, want) {
		t.Fatalf("expected %v, got %v", want, labels)
	}
}

func TestWeekdayRankCoversWholeWeek(t *testing.T) {
	if len(Weekdays) != WeekLength || len(weekdayAliases) != WeekLength {
		t.Fatalf("weekday tables must have %d entries, got %d and %d", WeekLength, len(Weekdays), len(weekdayAliases))
	}
	for i, label := range Weekdays {
		if got := weekdayRank(map[string]any{"day": label}); got != i {
			t.Fatalf("rank of %s = %d, want %d", label, got, i)
		}
	}
	if got := weekdayRank(map[string]any{"day": "Holiday"}); got != unknownWeekdayRank || got < len(Weekdays) {
		t.Fatalf("unknown label should rank after Sunday, got %d", got)
	}
	if got := weekdayRank("Monday"); got != unknownWeekdayRank {
		t.Fatalf("non-object entry should rank last, got %d", got)
	}
}
