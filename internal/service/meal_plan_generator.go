package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/healthmeal/internal/db"
	"gorm.io/gorm"
)

const (
	defaultMealPlanTemperature = 0.7
	defaultMealPlanTimeout     = 3 * time.Minute
	defaultMealPlanMaxTokens   = 4096

	mealPlanSystemPrompt = "You are a registered dietitian. Reply with a single JSON object only, no prose and no markdown."
)

// MealPlanGeneratorOptions 控制模型调用参数。
type MealPlanGeneratorOptions struct {
	// Temperature 为 nil 时使用默认值 0.7，显式传入 0 表示确定性输出。
	Temperature *float64
	// Timeout 为单次模型调用的上限，<=0 时使用默认值。
	Timeout time.Duration
}

// MealPlanGenerator 基于最新健康记录调用大模型生成一周餐单。
type MealPlanGenerator struct {
	db          *gorm.DB
	plans       *MealPlanService
	client      *aiChatClient
	temperature float64
	timeout     time.Duration
}

// NewMealPlanGenerator 构造 MealPlanGenerator。
func NewMealPlanGenerator(gdb *gorm.DB, plans *MealPlanService, settings AIProviderSettings, opts MealPlanGeneratorOptions) *MealPlanGenerator {
	temperature := defaultMealPlanTemperature
	if opts.Temperature != nil && *opts.Temperature >= 0 {
		temperature = *opts.Temperature
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultMealPlanTimeout
	}
	return &MealPlanGenerator{
		db:          gdb,
		plans:       plans,
		client:      newAIChatClient(settings),
		temperature: temperature,
		timeout:     timeout,
	}
}

// SetHTTPClient 覆盖默认 HTTP 客户端，主要用于测试。
func (g *MealPlanGenerator) SetHTTPClient(client httpDoer) {
	g.client.SetHTTPClient(client)
}

// Generate 为用户生成以最新健康记录日期开始的一周餐单。
//
// 流程：查找最新记录 → 清理重叠餐单 → 构造提示词 → 调用模型 → 解析 JSON →
// 按星期排序 → 再次清理重叠餐单 → 写入。任一步失败立即返回，不重试。
// 注意模型调用失败时，第一次清理已经提交，旧餐单不会恢复。
func (g *MealPlanGenerator) Generate(ctx context.Context, userID string) (*db.MealPlan, error) {
	userID = strings.TrimSpace(userID)

	unlock := g.plans.locks.Lock(userID)
	defer unlock()

	record, err := latestHealthRecord(g.db.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}

	start := normalizeToDate(record.Date)
	end := weekEnd(start)

	if _, err := g.plans.DeleteOverlapping(ctx, userID, start, end); err != nil {
		return nil, err
	}

	prompt := buildMealPlanPrompt(*record)
	logAIExchange("prompt", prompt)

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	result, err := g.client.call(callCtx, aiChatRequest{
		SystemPrompt: mealPlanSystemPrompt,
		UserPrompt:   prompt,
		MaxTokens:    defaultMealPlanMaxTokens,
		Temperature:  g.temperature,
	})
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: model call timed out after %s", ErrUpstream, g.timeout)
		}
		return nil, err
	}
	logAIExchange("response", result.Content)

	plan, err := parseWeekPlan(result.Content)
	if err != nil {
		return nil, err
	}
	plan = SortWeekPlan(plan)

	// 模型调用期间可能有其他餐单写入
	if _, err := g.plans.DeleteOverlapping(ctx, userID, start, end); err != nil {
		return nil, err
	}

	return g.plans.insertGenerated(ctx, userID, start, plan)
}

func buildMealPlanPrompt(record db.HealthRecord) string {
	var builder strings.Builder
	builder.WriteString("Based on the health checkup data below, propose a 7-day meal plan (breakfast, lunch and dinner for each day) as structured JSON.\n\n")
	builder.WriteString("Output format:\n")
	builder.WriteString(`{
  "week_plan": [
    {
      "day": "Monday",
      "breakfast": {"title": "Natto rice and miso soup", "nutritionType": ["high_protein"], "cookingTime": 10, "isQuick": true},
      "lunch": {"title": "...", "nutritionType": ["..."], "cookingTime": 15, "isQuick": true},
      "dinner": {"title": "...", "nutritionType": ["..."], "cookingTime": 40, "isQuick": false}
    }
  ]
}`)
	builder.WriteString("\n\n")
	builder.WriteString("Use the days Monday through Sunday exactly once each. ")
	builder.WriteString("nutritionType values must come from: ")
	builder.WriteString(strings.Join(NutritionTypes, ", "))
	builder.WriteString(". cookingTime is in minutes.\n\n")

	builder.WriteString("Health checkup data:\n")
	fmt.Fprintf(&builder, "Date: %s\n", FormatDate(record.Date))
	fmt.Fprintf(&builder, "Age: %d\n", record.Age)
	fmt.Fprintf(&builder, "Gender: %s\n", record.Gender)
	fmt.Fprintf(&builder, "Height: %s cm\n", formatMetric(record.Height))
	fmt.Fprintf(&builder, "Weight: %s kg\n", formatMetric(record.Weight))
	fmt.Fprintf(&builder, "BMI: %s\n", formatMetric(record.BMI))
	fmt.Fprintf(&builder, "Blood pressure: %s/%s mmHg\n", formatIntMetric(record.BloodPressureSystolic), formatIntMetric(record.BloodPressureDiastolic))
	fmt.Fprintf(&builder, "Blood sugar: %s mg/dL\n", formatMetric(record.BloodSugar))
	fmt.Fprintf(&builder, "HbA1c: %s %%\n", formatMetric(record.HbA1c))
	fmt.Fprintf(&builder, "Cholesterol: total %s, LDL %s, HDL %s mg/dL\n", formatMetric(record.CholesterolTotal), formatMetric(record.CholesterolLDL), formatMetric(record.CholesterolHDL))
	fmt.Fprintf(&builder, "Triglycerides: %s mg/dL\n", formatMetric(record.Triglycerides))
	fmt.Fprintf(&builder, "Liver function: GOT %s, GPT %s, γ-GTP %s U/L\n", formatMetric(record.LiverGOT), formatMetric(record.LiverGPT), formatMetric(record.LiverRGPT))

	if tags := ClassifyHealthRecord(record); len(tags) > 0 {
		fmt.Fprintf(&builder, "Recommended nutrition types: %s\n", strings.Join(tags, ", "))
	}
	return builder.String()
}

func formatMetric(v *float64) string {
	if v == nil {
		return "unknown"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatIntMetric(v *int) string {
	if v == nil {
		return "unknown"
	}
	return strconv.Itoa(*v)
}

// parseWeekPlan 解析模型输出，允许外层包裹 markdown 代码块。
// 解析失败或缺少 week_plan 时返回携带原文的 ModelOutputError。
func parseWeekPlan(raw string) (map[string]any, error) {
	cleaned := cleanModelJSON(raw)

	var plan map[string]any
	if err := json.Unmarshal([]byte(cleaned), &plan); err != nil {
		return nil, &ModelOutputError{Raw: raw, Err: err}
	}
	if plan == nil {
		return nil, &ModelOutputError{Raw: raw, Err: errors.New("empty json object")}
	}
	if _, ok := plan[WeekPlanKey]; !ok {
		return nil, &ModelOutputError{Raw: raw, Err: fmt.Errorf("missing %q key", WeekPlanKey)}
	}
	return plan, nil
}

func cleanModelJSON(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start != -1 && end > start {
		cleaned = cleaned[start : end+1]
	}
	return cleaned
}
