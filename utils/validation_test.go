package utils

import "testing"

func TestFieldPath(t *testing.T) {
	cases := []struct {
		namespace string
		want      string
	}{
		{"CreateItineraryInput.Title", "title"},
		{"CreateItineraryInput.StartDate", "startDate"},
		{"CreateItineraryInput.Items[0].Activity", "items.0.activity"},
		{"GenerateItineraryInput.Days", "days"},
	}

	for _, tc := range cases {
		if got := fieldPath(tc.namespace); got != tc.want {
			t.Errorf("fieldPath(%q) = %q, want %q", tc.namespace, got, tc.want)
		}
	}
}
