package service

import (
	"errors"
	"fmt"
)

var (
	// ErrUserNotFound 在指定用户不存在时返回
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken 在注册邮箱已被占用时返回，按参数错误处理
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials 在邮箱或密码不匹配时返回
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken 在 Bearer Token 无法验证时返回
	ErrInvalidToken = errors.New("invalid authentication token")
	// ErrHealthRecordNotFound 在用户没有任何健康记录时返回
	ErrHealthRecordNotFound = errors.New("health record not found")
	// ErrRecipeNotFound 在指定菜谱不存在时返回
	ErrRecipeNotFound = errors.New("recipe not found")
	// ErrRecipesEmpty 在菜谱目录为空、无法随机分配时返回
	ErrRecipesEmpty = errors.New("no recipes available")
	// ErrMealNotFound 在指定餐食记录不存在时返回
	ErrMealNotFound = errors.New("meal not found")
	// ErrMealPlanNotFound 在指定餐单不存在时返回
	ErrMealPlanNotFound = errors.New("meal plan not found")
	// ErrInvalidInput 表示请求参数不合法
	ErrInvalidInput = errors.New("invalid input")
	// ErrAIAPIKeyMissing 表示未配置当前 AI 平台的 API Key
	ErrAIAPIKeyMissing = errors.New("api key is required")
	// ErrUpstream 表示外部模型服务调用失败
	ErrUpstream = errors.New("upstream model service failed")
)

// ModelOutputError 表示模型返回的文本无法解析为预期的 JSON。
// Raw 保留原始输出，便于排查。
type ModelOutputError struct {
	Raw string
	Err error
}

func (e *ModelOutputError) Error() string {
	return fmt.Sprintf("model output is not valid meal plan json: %v", e.Err)
}

func (e *ModelOutputError) Unwrap() error {
	return e.Err
}

// ErrorKind 是面向请求边界的错误分类，由 handler 统一映射为状态码。
type ErrorKind int

const (
	KindPersistence ErrorKind = iota
	KindNotFound
	KindValidation
	KindAuthentication
	KindUpstream
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindUpstream:
		return "upstream"
	default:
		return "persistence"
	}
}

// KindOf 将业务错误归类；无法识别的错误视为存储层失败。
func KindOf(err error) ErrorKind {
	var outputErr *ModelOutputError
	switch {
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrHealthRecordNotFound),
		errors.Is(err, ErrRecipeNotFound),
		errors.Is(err, ErrRecipesEmpty),
		errors.Is(err, ErrMealNotFound),
		errors.Is(err, ErrMealPlanNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrEmailTaken):
		return KindValidation
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidToken):
		return KindAuthentication
	case errors.As(err, &outputErr),
		errors.Is(err, ErrUpstream),
		errors.Is(err, ErrAIAPIKeyMissing):
		return KindUpstream
	default:
		return KindPersistence
	}
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
