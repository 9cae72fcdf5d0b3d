package alias

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lowercases", input: "Starbucks", want: "starbucks"},
		{name: "trims", input: "  Whole Foods  ", want: "whole foods"},
		{name: "collapses inner whitespace", input: "WHOLE\t\tFOODS   MARKET", want: "whole foods market"},
		{name: "empty stays empty", input: "", want: ""},
		{name: "whitespace only becomes empty", input: "   \t ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestCleanOCRMerchant(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "strips hash store number", input: "WALMART #1234", want: "WALMART"},
		{name: "strips store keyword number", input: "STARBUCKS STORE 0457", want: "STARBUCKS"},
		{name: "strips no-dot number", input: "TRADER JOE'S NO. 552", want: "TRADER JOE'S"},
		{name: "keeps casing", input: "Whole Foods #10203", want: "Whole Foods"},
		{name: "no store number untouched", input: "Blue Bottle", want: "Blue Bottle"},
		{name: "only a store number stays as-is", input: "#1234", want: "#1234"},
		{name: "trims surrounding whitespace", input: "  CHEVRON #99  ", want: "CHEVRON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanOCRMerchant(tt.input))
		})
	}
}
