package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	require.Equal(t, "devworks-bootcamp", Slugify("Devworks Bootcamp"))
	require.Equal(t, "modern-tech-bootcamp", Slugify("  Modern Tech -- Bootcamp!! "))
	require.Equal(t, "ui-ux-2024", Slugify("UI/UX 2024"))
	require.Equal(t, "", Slugify("!!!"))
}

func TestNewPoint(t *testing.T) {
	p := NewPoint(42.35, -71.06)
	require.Equal(t, "Point", p.Type)
	require.Equal(t, []float64{-71.06, 42.35}, p.Coordinates)
}
