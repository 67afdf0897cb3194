package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMatchString(t *testing.T) {
	tests := []struct {
		name       string
		mode       string
		fieldValue string
		filter     string
		want       bool
	}{
		{name: "equals match", mode: MatchEquals, fieldValue: "Ana", filter: "Ana", want: true},
		{name: "equals is case sensitive", mode: MatchEquals, fieldValue: "Ana", filter: "ana", want: false},
		{name: "notEquals", mode: MatchNotEquals, fieldValue: "Ana", filter: "Bob", want: true},
		{name: "contains is case insensitive", mode: MatchContains, fieldValue: "Ana Horvat", filter: "horvat", want: true},
		{name: "empty mode defaults to contains", mode: "", fieldValue: "Ana Horvat", filter: "Hor", want: true},
		{name: "unknown mode passes through", mode: "startsWith", fieldValue: "Ana", filter: "zzz", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchString(tt.mode, tt.fieldValue, tt.filter))
		})
	}
}

func TestMatchNumber(t *testing.T) {
	tests := []struct {
		name       string
		mode       string
		fieldValue float64
		filter     float64
		want       bool
	}{
		{name: "equals", mode: MatchEquals, fieldValue: 13.5, filter: 13.5, want: true},
		{name: "empty mode defaults to equals", mode: "", fieldValue: 13.5, filter: 13.5, want: true},
		{name: "lt", mode: MatchLt, fieldValue: 5, filter: 10, want: true},
		{name: "lte boundary", mode: MatchLte, fieldValue: 10, filter: 10, want: true},
		{name: "gt rejects equal", mode: MatchGt, fieldValue: 10, filter: 10, want: false},
		{name: "gte boundary", mode: MatchGte, fieldValue: 10, filter: 10, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchNumber(tt.mode, tt.fieldValue, tt.filter))
		})
	}
}

func TestMatchDate(t *testing.T) {
	noon := time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		mode   string
		filter string
		want   bool
	}{
		{name: "dateIs compares the calendar day", mode: MatchDateIs, filter: "2024-03-15", want: true},
		{name: "dateIs rejects other days", mode: MatchDateIs, filter: "2024-03-16", want: false},
		{name: "dateIsNot", mode: MatchDateIsNot, filter: "2024-03-16", want: true},
		{name: "dateBefore", mode: MatchDateBefore, filter: "2024-04-01", want: true},
		{name: "dateAfter", mode: MatchDateAfter, filter: "2024-03-01", want: true},
		{name: "dateBefore with garbage filter", mode: MatchDateBefore, filter: "not-a-date", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchDate(tt.mode, noon, tt.filter))
		})
	}
}
