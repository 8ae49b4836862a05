package types

import (
	"encoding/json"
	"testing"
)

func TestAdStatus_SetUnset(t *testing.T) {
	var s AdStatus
	s.Set(AdStatusSold, AdStatusDiscontinued)
	if !s.Contain(AdStatusSold) || !s.Contain(AdStatusDiscontinued) {
		t.Errorf("Expected sold|discontinued, got %s", s)
	}

	s.Unset(AdStatusSold)
	if s.Contain(AdStatusSold) {
		t.Error("Expected status to not have AdStatusSold")
	}
	if !s.Contain(AdStatusDiscontinued) {
		t.Error("Expected status to still have AdStatusDiscontinued")
	}
}

func TestAdStatus_Predicates(t *testing.T) {
	tests := []struct {
		status  AdStatus
		sold    bool
		hidden  bool
		canSell bool
		canList bool
	}{
		{AdStatusNone, false, false, true, true},
		{AdStatusVINUnverified, false, false, true, true},
		{AdStatusUserHidden, false, true, true, false},
		{AdStatusAdmHidden, false, true, true, false},
		{AdStatusDiscontinued, false, false, false, false},
		{AdStatusSold | AdStatusDiscontinued, true, false, false, false},
		{AdStatusAdmBlocked, false, false, false, false},
	}

	for _, tt := range tests {
		if got := tt.status.IsSold(); got != tt.sold {
			t.Errorf("%s.IsSold() = %v, want %v", tt.status, got, tt.sold)
		}
		if got := tt.status.IsHidden(); got != tt.hidden {
			t.Errorf("%s.IsHidden() = %v, want %v", tt.status, got, tt.hidden)
		}
		if got := tt.status.CanSell(); got != tt.canSell {
			t.Errorf("%s.CanSell() = %v, want %v", tt.status, got, tt.canSell)
		}
		if got := tt.status.CanList(); got != tt.canList {
			t.Errorf("%s.CanList() = %v, want %v", tt.status, got, tt.canList)
		}
	}
}

func TestAdStatus_UnlistedMask(t *testing.T) {
	// 六个状态位的全部组合：列表可见当且仅当可成交且未隐藏
	for s := AdStatus(0); s < AdStatusVINUnverified<<1; s++ {
		want := s.CanSell() && !s.IsHidden()
		if got := s.CanList(); got != want {
			t.Errorf("%s.CanList() = %v, want %v", s, got, want)
		}
		if got := s&AdStatusUnlisted == 0; got != want {
			t.Errorf("%s & AdStatusUnlisted = %v, want listed %v", s, s&AdStatusUnlisted, want)
		}
	}
}

func TestAdStatus_String(t *testing.T) {
	tests := map[AdStatus]string{
		AdStatusNone:                         "active",
		AdStatusSold:                         "sold",
		AdStatusDiscontinued | AdStatusSold:  "discontinued|sold",
		AdStatusUserHidden | AdStatus(1<<40): "user_hidden|0x10000000000",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}

func TestParseAdStatus(t *testing.T) {
	s, err := ParseAdStatus("discontinued|sold")
	if err != nil {
		t.Fatalf("ParseAdStatus() error = %v", err)
	}
	if s != AdStatusDiscontinued|AdStatusSold {
		t.Errorf("ParseAdStatus() = %d", s)
	}

	if s, err := ParseAdStatus("active"); err != nil || s != AdStatusNone {
		t.Errorf("ParseAdStatus(active) = %d, %v", s, err)
	}

	if _, err := ParseAdStatus("sold|teleported"); err == nil {
		t.Error("Expected error for unknown status name")
	}
}

func TestAdStatus_ValueScan(t *testing.T) {
	s := AdStatusSold | AdStatusDiscontinued
	v, err := s.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	if v.(int64) != int64(s) {
		t.Errorf("Value() = %v, want %d", v, s)
	}

	inputs := []any{int64(s), int(s), uint64(s), []byte("3")}
	wants := []AdStatus{s, s, s, AdStatus(3)}
	for i, in := range inputs {
		var got AdStatus
		if err := got.Scan(in); err != nil {
			t.Fatalf("Scan(%v) error = %v", in, err)
		}
		if got != wants[i] {
			t.Errorf("Scan(%v) = %d, want %d", in, got, wants[i])
		}
	}

	var got AdStatus = AdStatusSold
	if err := got.Scan(nil); err != nil || got != AdStatusNone {
		t.Errorf("Scan(nil) = %d, %v", got, err)
	}
	if err := got.Scan("sold"); err == nil {
		t.Error("Expected error scanning string")
	}
}

func TestAdStatus_JSON(t *testing.T) {
	s := AdStatusSold | AdStatusDiscontinued
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}
	if string(data) != `"discontinued|sold"` {
		t.Errorf("Marshal = %s", data)
	}

	var decoded AdStatus
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}
	if decoded != s {
		t.Errorf("Unmarshal = %d, want %d", decoded, s)
	}

	if err := json.Unmarshal([]byte("4"), &decoded); err != nil || decoded != AdStatusSold {
		t.Errorf("Unmarshal(4) = %d, %v", decoded, err)
	}
	if err := json.Unmarshal([]byte(`"bogus"`), &decoded); err == nil {
		t.Error("Expected error for bogus status")
	}
}
