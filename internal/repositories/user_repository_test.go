package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegexQuoteMeta(t *testing.T) {
	assert.Equal(t, "alice", regexQuoteMeta("alice"))
	assert.Equal(t, `a\.b`, regexQuoteMeta("a.b"))
	assert.Equal(t, `\(\[\{\^\$\}\]\)`, regexQuoteMeta("([{^$}])"))
	assert.Equal(t, `a\\b`, regexQuoteMeta(`a\b`))
	assert.Equal(t, "", regexQuoteMeta(""))
}
