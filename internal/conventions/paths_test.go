package conventions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slok/jeval/internal/conventions"
)

func TestPaths(t *testing.T) {
	assert := assert.New(t)

	dir := conventions.WorkspaceDir("./eval/", 4242)
	assert.Equal("eval/4242", dir)
	assert.Equal("eval/4242/tmp", conventions.StagedFilePath(dir))
	assert.Equal("eval/4242/Hello.java", conventions.SourceFilePath(dir, "Hello"))
	assert.Equal("eval/4242/Hello.class", conventions.ClassFilePath(dir, "Hello"))
}
