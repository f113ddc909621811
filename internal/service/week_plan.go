package service

import (
	"slices"
	"strings"
)

// WeekPlanKey 是模型输出中一周菜单数组所在的键。
const WeekPlanKey = "week_plan"

// Weekdays 为一周菜单的规范顺序。
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// 日文星期标签，与 Weekdays 一一对应
var weekdayAliases = []string{"月曜日", "火曜日", "水曜日", "木曜日", "金曜日", "土曜日", "日曜日"}

const unknownWeekdayRank = WeekLength

// SortWeekPlan 将 week_plan 中的每日条目按周一到周日重新排序。
// 无法识别的 day 排在所有已识别条目之后并保持原有相对顺序；
// 缺少 week_plan 或其值不是数组时原样返回。
func SortWeekPlan(plan map[string]any) map[string]any {
	if plan == nil {
		return plan
	}
	days, ok := plan[WeekPlanKey].([]any)
	if !ok {
		return plan
	}

	sorted := slices.Clone(days)
	slices.SortStableFunc(sorted, func(a, b any) int {
		return weekdayRank(a) - weekdayRank(b)
	})

	plan[WeekPlanKey] = sorted
	return plan
}

func weekdayRank(entry any) int {
	day, ok := entry.(map[string]any)
	if !ok {
		return unknownWeekdayRank
	}
	label, ok := day["day"].(string)
	if !ok {
		return unknownWeekdayRank
	}
	label = strings.TrimSpace(label)
	if idx := slices.Index(Weekdays, label); idx >= 0 {
		return idx
	}
	if idx := slices.Index(weekdayAliases, label); idx >= 0 {
		return idx
	}
	return unknownWeekdayRank
}
