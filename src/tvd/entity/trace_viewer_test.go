package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseToolchainVersion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ToolchainVersion
		wantErr bool
	}{
		{name: "major minor", input: "1.45", want: ToolchainVersion{Major: 1, Minor: 45}},
		{name: "with patch", input: "1.45.2", want: ToolchainVersion{Major: 1, Minor: 45}},
		{name: "surrounding whitespace", input: " 2.3 ", want: ToolchainVersion{Major: 2, Minor: 3}},
		{name: "missing minor", input: "1", wantErr: true},
		{name: "not numeric", input: "a.b", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseToolchainVersion(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToolchainVersionAtLeast(t *testing.T) {
	tests := []struct {
		name  string
		v     ToolchainVersion
		other ToolchainVersion
		want  bool
	}{
		{name: "equal", v: ToolchainVersion{1, 45}, other: ToolchainVersion{1, 45}, want: true},
		{name: "newer minor", v: ToolchainVersion{1, 50}, other: ToolchainVersion{1, 45}, want: true},
		{name: "older minor", v: ToolchainVersion{1, 30}, other: ToolchainVersion{1, 35}, want: false},
		{name: "newer major older minor", v: ToolchainVersion{2, 0}, other: ToolchainVersion{1, 45}, want: true},
		{name: "older major newer minor", v: ToolchainVersion{1, 99}, other: ToolchainVersion{2, 0}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.AtLeast(tt.other))
		})
	}
}

func TestToolchainVersionString(t *testing.T) {
	assert.Equal(t, "1.45", ToolchainVersion{Major: 1, Minor: 45}.String())
}

func TestThemeKindMode(t *testing.T) {
	assert.Equal(t, ThemeModeLight, ThemeKindLight.Mode())
	assert.Equal(t, ThemeModeDark, ThemeKindDark.Mode())
	assert.Equal(t, ThemeModeDark, ThemeKindHighContrast.Mode())
	assert.Equal(t, ThemeModeLight, ThemeKindHighContrastLight.Mode())
	assert.Equal(t, ThemeModeLight, ThemeKind(0).Mode())
}
