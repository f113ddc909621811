package service

import (
	"errors"
	"strings"
	"testing"
)

func TestRecipeCreateAndGet(t *testing.T) {
	gdb := setupServiceTestDB(t)
	recipes := NewRecipeService(gdb)

	minutes := 20
	created, err := recipes.Create(RecipeInput{Name: "  鮭の塩焼き ", CookingTime: &minutes, Difficulty: "easy"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.Name != "鮭の塩焼き" {
		t.Fatalf("expected trimmed name, got %q", created.Name)
	}

	fetched, err := recipes.Get(created.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if fetched.CookingTime == nil || *fetched.CookingTime != 20 {
		t.Fatalf("unexpected cooking time: %v", fetched.CookingTime)
	}

	if _, err := recipes.Get("missing"); !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("expected ErrRecipeNotFound, got %v", err)
	}

	negative := -1
	if _, err := recipes.Create(RecipeInput{Name: "x", CookingTime: &negative}); KindOf(err) != KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := recipes.Create(RecipeInput{Name: " "}); KindOf(err) != KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRenderDescriptionSanitizes(t *testing.T) {
	html, err := RenderDescription("**Grill** the salmon.\n\n<script>alert(1)</script>")
	if err != nil {
		t.Fatalf("RenderDescription returned error: %v", err)
	}
	if !strings.Contains(html, "<strong>Grill</strong>") {
		t.Fatalf("expected markdown to be rendered, got %s", html)
	}
	if strings.Contains(html, "<script>") {
		t.Fatalf("expected script to be stripped, got %s", html)
	}

	empty, err := RenderDescription("   ")
	if err != nil || empty != "" {
		t.Fatalf("expected empty output, got %q, %v", empty, err)
	}
}
