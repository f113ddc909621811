package service

import "github.com/healthmeal/internal/db"

// 营养类型标签词表
const (
	NutritionLowSalt      = "low_salt"
	NutritionLowSugar     = "low_sugar"
	NutritionLowFat       = "low_fat"
	NutritionLiverSupport = "liver_support"
	NutritionHighProtein  = "high_protein"
	NutritionHighFiber    = "high_fiber"
)

// NutritionTypes 列出全部可用的营养类型标签。
var NutritionTypes = []string{
	NutritionLowSalt,
	NutritionLowSugar,
	NutritionLowFat,
	NutritionLiverSupport,
	NutritionHighProtein,
	NutritionHighFiber,
}

// ClassifyHealthRecord 按固定阈值从体检数据推导推荐的营养类型。
// 规则按顺序独立判断，命中即追加；总胆固醇与中性脂肪同时超标时 low_fat 会出现两次。
// 缺失的指标按 0 处理，因此不会触发任何规则。
func ClassifyHealthRecord(record db.HealthRecord) []string {
	types := make([]string, 0, 5)

	// 血压偏高 → 减盐
	if intValue(record.BloodPressureSystolic) >= 130 || intValue(record.BloodPressureDiastolic) >= 85 {
		types = append(types, NutritionLowSalt)
	}

	// 血糖偏高 → 低糖
	if floatValue(record.BloodSugar) >= 126 || floatValue(record.HbA1c) >= 6.5 {
		types = append(types, NutritionLowSugar)
	}

	if floatValue(record.CholesterolTotal) >= 220 || floatValue(record.CholesterolLDL) >= 140 {
		types = append(types, NutritionLowFat)
	}

	// 中性脂肪单独判断
	if floatValue(record.Triglycerides) >= 150 {
		types = append(types, NutritionLowFat)
	}

	if floatValue(record.LiverGPT) >= 56 {
		types = append(types, NutritionLiverSupport)
	}

	return types
}

func intValue(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func floatValue(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
