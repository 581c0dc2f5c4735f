// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"encoding/json"
	"testing"
)

func TestRecord_ID(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{"mongo id", `{"_id":"65f1","id":"other"}`, "65f1"},
		{"plain id", `{"id":"b7"}`, "b7"},
		{"numeric id", `{"id":42}`, "42"},
		{"null _id falls back", `{"_id":null,"id":"x"}`, "x"},
		{"no id", `{"name":"n"}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Record
			if err := json.Unmarshal([]byte(tt.json), &r); err != nil {
				t.Fatal(err)
			}
			if got := r.ID(); got != tt.want {
				t.Errorf("ID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecord_StringPaths(t *testing.T) {
	var r Record
	raw := `{
		"name": "Palm Villa",
		"price": 1250000.5,
		"featured": true,
		"location": {"city": "Dubai"},
		"developer": {"_id": "d1", "name": "Emaar"},
		"images": ["a.jpg", "b.jpg"],
		"tags": []
	}`
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path string
		want string
	}{
		{"name", "Palm Villa"},
		{"price", "1250000.5"},
		{"featured", "true"},
		{"location.city", "Dubai"},
		{"developer", "Emaar"},
		{"images", "a.jpg, b.jpg"},
		{"images.1", "b.jpg"},
		{"images.5", ""},
		{"location.zip", ""},
		{"name.first", ""},
		{"tags", ""},
	}

	for _, tt := range tests {
		if got := r.String(tt.path); got != tt.want {
			t.Errorf("String(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
