package models

import (
	"reflect"
	"testing"
)

func TestNormalizeTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{name: "nil input", in: nil, want: []string{}},
		{name: "trims whitespace", in: []string{"  work ", "home"}, want: []string{"work", "home"}},
		{name: "drops empties", in: []string{"", "  ", "work"}, want: []string{"work"}},
		{
			name: "case-insensitive dedup keeps first casing",
			in:   []string{"Work", "work", "WORK", "home"},
			want: []string{"Work", "home"},
		},
		{name: "preserves order", in: []string{"b", "a", "c"}, want: []string{"b", "a", "c"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := NormalizeTags(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeTags(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestHasTag(t *testing.T) {
	t.Parallel()

	tags := []string{"Work", "home"}
	if !HasTag(tags, "work") {
		t.Error("expected case-insensitive match for work")
	}
	if !HasTag(tags, "HOME") {
		t.Error("expected case-insensitive match for HOME")
	}
	if HasTag(tags, "errand") {
		t.Error("unexpected match for errand")
	}
	if HasTag(nil, "work") {
		t.Error("unexpected match on nil tags")
	}
}
