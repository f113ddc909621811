package main

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/healthmeal/internal/config"
	"github.com/healthmeal/internal/db"
	"github.com/healthmeal/internal/service"
	"gorm.io/gorm"
)

const (
	demoEmail    = "demo@healthmeal.local"
	demoPassword = "demo12345"
)

type recipeSeed struct {
	Name        string
	Description string
	CookingTime int
	Difficulty  string
}

var starterRecipes = []recipeSeed{
	{Name: "納豆ご飯と味噌汁", Description: "発酵食品で**たんぱく質**と食物繊維を補う朝食。", CookingTime: 10, Difficulty: "easy"},
	{Name: "鮭の塩焼き定食", Description: "減塩醤油を使い、*塩分控えめ*に仕上げる。", CookingTime: 20, Difficulty: "easy"},
	{Name: "鶏むね肉と野菜の蒸し料理", Description: "脂質を抑えた高たんぱくメニュー。\n\n- 鶏むね肉\n- ブロッコリー\n- にんじん", CookingTime: 25, Difficulty: "medium"},
	{Name: "豆腐とわかめのサラダ", Description: "低脂肪で肝臓にやさしい一品。", CookingTime: 5, Difficulty: "easy"},
	{Name: "玄米と根菜の煮物", Description: "食物繊維が豊富で血糖値の上昇を緩やかにする。", CookingTime: 40, Difficulty: "medium"},
	{Name: "しじみの味噌汁", Description: "肝機能をサポートするオルニチンを含む。", CookingTime: 15, Difficulty: "easy"},
}

func main() {
	cfg := config.Load()

	// 初始化数据库
	gdb, err := db.Open(db.Options{
		Driver: cfg.DatabaseDriver,
		Path:   cfg.DatabasePath,
		DSN:    cfg.DatabaseDSN,
	})
	if err != nil {
		log.Fatal("数据库初始化失败:", err)
	}
	defer db.Close(gdb)

	created, err := seedRecipes(gdb)
	if err != nil {
		log.Fatal("写入菜谱失败:", err)
	}
	fmt.Printf("新增菜谱 %d 道\n", created)

	user, err := ensureDemoUser(gdb)
	if err != nil {
		log.Fatal("创建演示用户失败:", err)
	}

	token, err := service.NewJWTIdentityProvider(cfg.JWTSecret, cfg.TokenTTL).
		Issue(service.Identity{Subject: user.ID, Email: user.Email})
	if err != nil {
		log.Fatal("签发 Token 失败:", err)
	}

	fmt.Println("演示用户:", user.Email)
	fmt.Println("密码:", demoPassword)
	fmt.Println("用户 ID:", user.ID)
	fmt.Println("Bearer Token:", token)
}

// seedRecipes 写入尚不存在的初始菜谱，返回新增数量
func seedRecipes(gdb *gorm.DB) (int, error) {
	recipes := service.NewRecipeService(gdb)

	existing, err := recipes.List()
	if err != nil {
		return 0, err
	}
	names := make(map[string]struct{}, len(existing))
	for _, recipe := range existing {
		names[recipe.Name] = struct{}{}
	}

	created := 0
	for _, seed := range starterRecipes {
		if _, ok := names[seed.Name]; ok {
			continue
		}
		cookingTime := seed.CookingTime
		if _, err := recipes.Create(service.RecipeInput{
			Name:        seed.Name,
			Description: seed.Description,
			CookingTime: &cookingTime,
			Difficulty:  seed.Difficulty,
		}); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

// ensureDemoUser 返回演示用户，不存在时创建并附带一条健康记录
func ensureDemoUser(gdb *gorm.DB) (*db.User, error) {
	users := service.NewUserService(gdb)

	user, err := users.GetByEmail(demoEmail)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, service.ErrUserNotFound) {
		return nil, err
	}

	user, err = users.Register(service.UserInput{Email: demoEmail, Name: "Demo", Password: demoPassword})
	if err != nil {
		return nil, err
	}

	systolic, diastolic := 138, 88
	ldl, gpt := 145.0, 42.0
	records := service.NewHealthRecordService(gdb, users)
	if _, err := records.Create(service.HealthRecordInput{
		UserID:                 user.ID,
		Date:                   time.Now().UTC(),
		Age:                    48,
		Gender:                 "male",
		BloodPressureSystolic:  &systolic,
		BloodPressureDiastolic: &diastolic,
		CholesterolLDL:         &ldl,
		LiverGPT:               &gpt,
	}); err != nil {
		return nil, err
	}
	return user, nil
}
