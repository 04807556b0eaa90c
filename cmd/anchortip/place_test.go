package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/anchortip/internal/geom"
	"github.com/jmylchreest/anchortip/internal/tooltip"
	"github.com/jmylchreest/anchortip/internal/tour"
)

func TestPlace(t *testing.T) {
	tall := geom.Size{Width: 1000, Height: 2000}
	balloon := geom.Size{Width: 160, Height: 80}
	right := tooltip.GravityRight

	tests := []struct {
		name     string
		target   string
		forced   *tooltip.Gravity
		gravity  tooltip.Gravity
		position geom.Point
		wantErr  bool
	}{
		{
			name:     "rect near the top of a tall viewport",
			target:   "rect:100,100,100,40",
			gravity:  tooltip.GravityBottom,
			position: geom.Point{X: 70, Y: 135},
		},
		{
			name:     "point with size hint",
			target:   "point:150,120,100,40",
			gravity:  tooltip.GravityBottom,
			position: geom.Point{X: 70, Y: 135},
		},
		{
			name:    "forced gravity",
			target:  "rect:100,100,100,40",
			forced:  &right,
			gravity: tooltip.GravityRight,
			// Right edge minus half the arrow width, centered vertically.
			position: geom.Point{X: 195, Y: 80},
		},
		{
			name:    "views need a live host",
			target:  "view:save",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := tour.ParseTarget(tt.target)
			require.NoError(t, err)

			p, err := place(spec, tall, balloon, 10, tt.forced)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.gravity, p.Gravity)
			assert.Equal(t, tt.position, p.Position)
			assert.Equal(t, tall, p.Viewport)
		})
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    geom.Size
		wantErr bool
	}{
		{in: "1920x1080", want: geom.Size{Width: 1920, Height: 1080}},
		{in: " 80X24 ", want: geom.Size{Width: 80, Height: 24}},
		{in: "1920", wantErr: true},
		{in: "ax10", wantErr: true},
		{in: "10x0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseSize(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteFormatted(t *testing.T) {
	p := placement{Gravity: tooltip.GravityTop, Position: geom.Point{X: 1, Y: 2}}

	var buf bytes.Buffer
	require.NoError(t, writeFormatted(&buf, formatYAML, p, nil))
	assert.Contains(t, buf.String(), "gravity: top")

	buf.Reset()
	require.NoError(t, writeFormatted(&buf, formatJSON, p, nil))
	assert.Contains(t, buf.String(), `"gravity": "top"`)

	assert.Error(t, writeFormatted(&buf, "xml", p, nil))
}
