package core

import (
	"math"
	"reflect"
	"testing"
)

func TestNormalizeOptionsWrapsStrings(t *testing.T) {
	for _, entry := range []string{"main", "home-entry", "with space", "ünïcode"} {
		got := NormalizeOptions(entry)
		want := Options{"entry": entry}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("NormalizeOptions(%q) = %#v, want %#v", entry, got, want)
		}
	}
}

func TestNormalizeOptionsPassesThroughObjects(t *testing.T) {
	obj := map[string]any{"entry": "main", "title": "Home"}
	got := NormalizeOptions(obj)

	m, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("NormalizeOptions() returned %T, want map[string]any", got)
	}
	m["mutated"] = true
	if obj["mutated"] != true {
		t.Error("NormalizeOptions() did not return the same object")
	}
}

func TestNormalizeOptionsLeavesOtherValues(t *testing.T) {
	for _, raw := range []any{42, true, []string{"main"}} {
		got := NormalizeOptions(raw)
		if !reflect.DeepEqual(got, raw) {
			t.Errorf("NormalizeOptions(%#v) = %#v, want unchanged", raw, got)
		}
	}
}

type pageKey string

type pageOptions struct {
	Entry     string `json:"entry"`
	PageTitle string `json:"pageTitle,omitempty"`
}

func TestAsOptions(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		wantOK bool
	}{
		{name: "options record", value: Options{"entry": "main"}, wantOK: true},
		{name: "plain map", value: map[string]any{"entry": "main"}, wantOK: true},
		{name: "empty map", value: map[string]any{}, wantOK: true},
		{name: "nil map", value: map[string]any(nil), wantOK: false},
		{name: "string map", value: map[string]string{"entry": "main"}, wantOK: true},
		{name: "named string keys", value: map[pageKey]int{"count": 1}, wantOK: true},
		{name: "struct", value: pageOptions{Entry: "main", PageTitle: "Home"}, wantOK: true},
		{name: "struct pointer", value: &pageOptions{Entry: "main"}, wantOK: true},
		{name: "nil struct pointer", value: (*pageOptions)(nil), wantOK: false},
		{name: "int keys", value: map[int]string{1: "main"}, wantOK: false},
		{name: "number", value: 3, wantOK: false},
		{name: "bool", value: true, wantOK: false},
		{name: "slice", value: []any{"main"}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := AsOptions(tt.value)
			if ok != tt.wantOK {
				t.Errorf("AsOptions(%#v) ok = %v, want %v", tt.value, ok, tt.wantOK)
			}
		})
	}
}

func TestAsOptionsConvertsTypedValues(t *testing.T) {
	got, ok := AsOptions(map[string]string{"entry": "main", "pageTitle": "Home"})
	if !ok {
		t.Fatal("AsOptions(map[string]string) not ok")
	}
	want := Options{"entry": "main", "pageTitle": "Home"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AsOptions(map[string]string) = %#v, want %#v", got, want)
	}

	got, ok = AsOptions(pageOptions{Entry: "main", PageTitle: "Home"})
	if !ok {
		t.Fatal("AsOptions(struct) not ok")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AsOptions(struct) = %#v, want %#v", got, want)
	}
	if got.Entry() != "main" {
		t.Errorf("Entry() = %q, want main", got.Entry())
	}
}

func TestIsAbsent(t *testing.T) {
	tests := []struct {
		raw  any
		want bool
	}{
		{raw: nil, want: true},
		{raw: "", want: true},
		{raw: false, want: true},
		{raw: "main", want: false},
		{raw: true, want: false},
		{raw: map[string]any{}, want: false},
		{raw: 0, want: true},
		{raw: int64(0), want: true},
		{raw: uint8(0), want: true},
		{raw: 0.0, want: true},
		{raw: math.NaN(), want: true},
		{raw: 1, want: false},
		{raw: -0.5, want: false},
	}

	for _, tt := range tests {
		if got := IsAbsent(tt.raw); got != tt.want {
			t.Errorf("IsAbsent(%#v) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestOptionsEntry(t *testing.T) {
	if got := (Options{"entry": "main"}).Entry(); got != "main" {
		t.Errorf("Entry() = %q, want main", got)
	}
	if got := (Options{"entry": 7}).Entry(); got != "" {
		t.Errorf("Entry() with non-string = %q, want empty", got)
	}
	if got := (Options{}).Entry(); got != "" {
		t.Errorf("Entry() without key = %q, want empty", got)
	}
}
