package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDate_JSON(t *testing.T) {
	d := NewDate(time.Date(2024, 3, 9, 17, 45, 0, 0, time.UTC))

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Failed to marshal date: %v", err)
	}
	if string(data) != `"2024-03-09"` {
		t.Errorf("Expected \"2024-03-09\", got %s", data)
	}

	var back Date
	if err := json.Unmarshal([]byte(`"2024-03-09T06:00:00Z"`), &back); err != nil {
		t.Fatalf("Failed to unmarshal timestamp: %v", err)
	}
	if !back.Equal(d) {
		t.Errorf("Expected %s, got %s", d, back)
	}

	var empty Date
	if err := json.Unmarshal([]byte(`null`), &empty); err != nil {
		t.Fatalf("Failed to unmarshal null: %v", err)
	}
	if !empty.IsZero() {
		t.Errorf("Expected zero date for null, got %s", empty)
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, s := range []string{"", "09/03/2024", "2024-13-01"} {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("Expected error for %q", s)
		}
	}
}

func TestMilkInEntry_NullIDOnCreate(t *testing.T) {
	entry := MMilkInEntry{
		CowID:       4,
		OwnerID:     2,
		Liters:      decimal.RequireFromString("12.5"),
		Date:        NewDate(time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)),
		MilkingType: MilkingMorning,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("Failed to marshal entry: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Failed to decode entry: %v", err)
	}
	id, present := raw["id"]
	if !present || id != nil {
		t.Errorf("Expected explicit null id, got %v (present=%v)", id, present)
	}
	if raw["liters"] != 12.5 {
		t.Errorf("Expected liters as JSON number 12.5, got %v", raw["liters"])
	}
	if raw["date"] != "2024-03-09" {
		t.Errorf("Expected date 2024-03-09, got %v", raw["date"])
	}
}
