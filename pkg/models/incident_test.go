package models

import "testing"

func TestSeverityRank_Ordering(t *testing.T) {
	order := []string{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
	for i := 1; i < len(order); i++ {
		if SeverityRank(order[i-1]) >= SeverityRank(order[i]) {
			t.Errorf("%s should rank below %s", order[i-1], order[i])
		}
	}
	if SeverityRank("bogus") >= SeverityRank(SeverityLow) {
		t.Error("unknown severity should rank below LOW")
	}
	if SeverityRank("critical") != SeverityRank(SeverityCritical) {
		t.Error("rank should be case-insensitive")
	}
}

func TestCameraName_UnknownCamera(t *testing.T) {
	inc := Incident{ID: 1, CameraID: 99}
	if got := inc.CameraName(); got != "[Unknown Camera]" {
		t.Errorf("CameraName = %q", got)
	}
	inc.Camera = &Camera{Name: "Parking Garage"}
	if got := inc.CameraName(); got != "Parking Garage" {
		t.Errorf("CameraName = %q", got)
	}
}
