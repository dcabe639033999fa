package changelog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultHeader(t *testing.T) {
	t.Parallel()

	header := DefaultHeader()
	assert.True(t, strings.HasPrefix(header, "# Changelog\n\n"))
	assert.Contains(t, header, "All notable changes to this project will be documented in this file.")
	assert.Contains(t, header, "[Keep a Changelog](https://keepachangelog.com/en/1.1.0/)")
	assert.Contains(t, header, "[Semantic Versioning](https://semver.org/spec/v2.0.0.html)")
	assert.True(t, strings.HasSuffix(header, ".html).\n\n"), "header ends with a blank line")

	_, ok := ParseDocument(header).FirstVersion()
	assert.False(t, ok)
}
