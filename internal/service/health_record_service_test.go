package service

import (
	"errors"
	"slices"
	"testing"
)

func TestHealthRecordRecommendUsesLatestRecord(t *testing.T) {
	gdb := setupServiceTestDB(t)
	users := NewUserService(gdb)
	records := NewHealthRecordService(gdb, users)
	user := createTestUser(t, users, "records@example.com")

	if _, err := records.Recommend(user.ID); !errors.Is(err, ErrHealthRecordNotFound) {
		t.Fatalf("expected ErrHealthRecordNotFound, got %v", err)
	}

	if _, err := records.Create(HealthRecordInput{
		UserID:                user.ID,
		Date:                  mustDate(t, "2025-05-10"),
		Age:                   40,
		Gender:                "female",
		BloodPressureSystolic: intPtr(140),
	}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	// 日期较早的记录后录入，不影响推荐
	if _, err := records.Create(HealthRecordInput{
		UserID:     user.ID,
		Date:       mustDate(t, "2025-01-10"),
		Age:        40,
		Gender:     "female",
		BloodSugar: floatPtr(150),
		Anomalies:  map[string]string{"blood_sugar": "high"},
	}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	tags, err := records.Recommend(user.ID)
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	if !slices.Equal(tags, []string{NutritionLowSalt}) {
		t.Fatalf("expected [low_salt], got %v", tags)
	}

	list, err := records.ListByUser(user.ID)
	if err != nil {
		t.Fatalf("ListByUser returned error: %v", err)
	}
	if len(list) != 2 || FormatDate(list[0].Date) != "2025-05-10" {
		t.Fatalf("expected newest record first, got %+v", list)
	}
	if anomalies := DecodeAnomalies(list[1].Anomalies); anomalies["blood_sugar"] != "high" {
		t.Fatalf("unexpected anomalies: %v", anomalies)
	}
}

func TestHealthRecordCreateValidation(t *testing.T) {
	gdb := setupServiceTestDB(t)
	users := NewUserService(gdb)
	records := NewHealthRecordService(gdb, users)
	user := createTestUser(t, users, "validation@example.com")

	valid := HealthRecordInput{UserID: user.ID, Date: mustDate(t, "2025-05-10"), Age: 30, Gender: "male"}

	noDate := valid
	noDate.Date = mustDate(t, "0001-01-01")
	noAge := valid
	noAge.Age = 0
	noGender := valid
	noGender.Gender = " "

	for _, input := range []HealthRecordInput{noDate, noAge, noGender} {
		if _, err := records.Create(input); KindOf(err) != KindValidation {
			t.Fatalf("expected validation error for %+v, got %v", input, err)
		}
	}

	missingUser := valid
	missingUser.UserID = "missing"
	if _, err := records.Create(missingUser); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestHealthRecordDelete(t *testing.T) {
	gdb := setupServiceTestDB(t)
	users := NewUserService(gdb)
	records := NewHealthRecordService(gdb, users)
	user := createTestUser(t, users, "remove@example.com")

	record, err := records.Create(HealthRecordInput{UserID: user.ID, Date: mustDate(t, "2025-05-10"), Age: 30, Gender: "male"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := records.Delete(record.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := records.Delete(record.ID); !errors.Is(err, ErrHealthRecordNotFound) {
		t.Fatalf("expected ErrHealthRecordNotFound, got %v", err)
	}
}
