package main

import (
	"testing"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"
)

func TestPrintUsage(t *testing.T) {
	got := testboil.CaptureStdout(t, func(t *testing.T) {
		printUsage()
	})
	testboil.AssertStringContains(t, got, "recommender")
	testboil.AssertStringContains(t, got, "SAMBANOVA_API_KEY")
	testboil.AssertStringContains(t, got, "r|recommend")
}

func TestPrintCategories(t *testing.T) {
	got := testboil.CaptureStdout(t, func(t *testing.T) {
		printCategories()
	})
	for _, want := range []string{"Cameras", "Laptops", "Smartphones", "Smart Home Devices", "4K Video"} {
		testboil.AssertStringContains(t, got, want)
	}
}
