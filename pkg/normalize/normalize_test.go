// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/madr-app/madr/pkg/normalize"
)

/*
TestName covers trimming, lowercasing, whitespace collapsing and composition.
*/
func TestName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"mixed_case_and_spaces", " A   NAmE to correct ", "a name to correct"},
		{"tabs_and_newlines", "Machado\t\tde\nAssis", "machado de assis"},
		{"already_normalized", "clarice lispector", "clarice lispector"},
		{"empty", "", ""},
		{"only_spaces", "     ", ""},
		{"decomposed_accent", "Jose\u0301 Saramago", "jos\u00e9 saramago"},
		{"uppercase_accent", "ÉRICO VERÍSSIMO", "érico veríssimo"},
		{"non_breaking_space", "Cec\u00edlia\u00a0Meireles", "cec\u00edlia meireles"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize.Name(tt.in))
		})
	}
}

/*
TestName_Idempotent checks that normalizing twice changes nothing.
*/
func TestName_Idempotent(t *testing.T) {
	inputs := []string{
		" A   NAmE to correct ",
		"ÉRICO   VERÍSSIMO",
		"José\tSaramago ",
		"  ",
		"ǅemal Bijedić",
		"İstanbul Kitabı",
	}

	for _, in := range inputs {
		once := normalize.Name(in)
		assert.Equal(t, once, normalize.Name(once), "input %q", in)
	}
}

/*
TestLikePattern escapes LIKE wildcards.
*/
func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%a name%", normalize.LikePattern("  A  Name "))
	assert.Equal(t, `%50\% off\_now%`, normalize.LikePattern("50% OFF_now"))
	assert.Equal(t, `%back\\slash%`, normalize.LikePattern(`back\slash`))
}
