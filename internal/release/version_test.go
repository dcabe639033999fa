package release

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBumpVersion(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		current string
		bump    string
		want    string
	}{
		"patch":                    {current: "1.2.3", bump: "patch", want: "1.2.4"},
		"minor resets patch":       {current: "1.2.3", bump: "minor", want: "1.3.0"},
		"major resets the rest":    {current: "1.2.3", bump: "major", want: "2.0.0"},
		"from zero":                {current: "0.0.0", bump: "patch", want: "0.0.1"},
		"multi digit":              {current: "0.9.19", bump: "patch", want: "0.9.20"},
		"explicit passthrough":     {current: "1.2.3", bump: "2.0.0", want: "2.0.0"},
		"explicit may go down":     {current: "1.2.3", bump: "0.1.0", want: "0.1.0"},
		"explicit ignores current": {current: "garbage", bump: "3.1.4", want: "3.1.4"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := BumpVersion(tt.current, tt.bump)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBumpVersion_Errors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		current string
		bump    string
		errMsg  string
	}{
		"two components":   {current: "1.2", bump: "patch", errMsg: "invalid version format"},
		"four components":  {current: "1.2.3.4", bump: "minor", errMsg: "invalid version format"},
		"v prefix":         {current: "v1.2.3", bump: "patch", errMsg: "invalid version format"},
		"prerelease":       {current: "1.2.3-beta", bump: "patch", errMsg: "invalid version format"},
		"non numeric":      {current: "a.b.c", bump: "major", errMsg: "invalid version format"},
		"unknown bump":     {current: "1.2.3", bump: "huge", errMsg: "invalid bump type"},
		"partial explicit": {current: "1.2.3", bump: "2.0", errMsg: "invalid bump type"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := BumpVersion(tt.current, tt.bump)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestIsExplicitVersion(t *testing.T) {
	t.Parallel()

	assert.True(t, IsExplicitVersion("1.0.0"))
	assert.True(t, IsExplicitVersion("10.20.30"))
	assert.False(t, IsExplicitVersion("v1.0.0"))
	assert.False(t, IsExplicitVersion("1.0"))
	assert.False(t, IsExplicitVersion("patch"))

	assert.True(t, IsBumpKeyword("major"))
	assert.True(t, IsBumpKeyword("minor"))
	assert.True(t, IsBumpKeyword("patch"))
	assert.False(t, IsBumpKeyword("Patch"))
	assert.False(t, IsBumpKeyword("1.0.0"))
}
