package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := NewDefault()
	require.NoError(t, err)
	return p
}

func TestRun_SuccessfulCompileProducesEveryArtifact(t *testing.T) {
	assert := assert.New(t)
	p := newTestPipeline(t)

	res := p.Run("int main ( ) { int x ; x = 1 + 2 ; write ( x ) ; return 0 ; }", Manual)

	assert.Equal(Success, res.Status)
	assert.Empty(res.Error)
	assert.NotEmpty(res.SessionID)
	assert.NotEmpty(res.Tokens)
	assert.Empty(res.LexErrors)
	assert.NotNil(res.CST)
	assert.NotNil(res.AST)
	assert.Empty(res.SymanticErrors)
	assert.NotNil(res.Symbols)
	assert.NotEmpty(res.Quadruples)
	assert.Empty(res.IRWarnings)
}

func TestRun_LexErrorsSkipParseAndLaterStages(t *testing.T) {
	assert := assert.New(t)
	p := newTestPipeline(t)

	res := p.Run("int main ( ) { int x ; x = 1 @ 2 ; return 0 ; }", Manual)

	assert.Equal(Failed, res.Status)
	assert.NotEmpty(res.Error)
	assert.NotEmpty(res.LexErrors)
	assert.Nil(res.CST)
	assert.Nil(res.AST)
	assert.Nil(res.Symbols)
	assert.Empty(res.Quadruples)
}

func TestRun_SyntaxErrorSkipsAnalysisAndIR(t *testing.T) {
	assert := assert.New(t)
	p := newTestPipeline(t)

	res := p.Run("int main ( { return 0 ; }", Manual)

	assert.Equal(Failed, res.Status)
	assert.NotEmpty(res.Error)
	assert.Nil(res.AST)
	assert.Nil(res.Symbols)
	assert.Empty(res.Quadruples)
}

func TestRun_SemanticErrorsStillProduceCSTAndASTAndIR(t *testing.T) {
	assert := assert.New(t)
	p := newTestPipeline(t)

	res := p.Run("int main ( ) { int x ; int x ; return 0 ; }", Manual)

	assert.Equal(Failed, res.Status)
	assert.NotEmpty(res.Error)
	assert.NotNil(res.CST)
	assert.NotNil(res.AST)
	assert.NotEmpty(res.SymanticErrors)
	// IR still ran over the malformed tree rather than aborting.
	assert.NotEmpty(res.Quadruples)
}

func TestRun_AutoBackendIsRejectedNotSilentlyIgnored(t *testing.T) {
	assert := assert.New(t)
	p := newTestPipeline(t)

	res := p.Run("int main ( ) { return 0 ; }", Auto)

	assert.Equal(Failed, res.Status)
	assert.Contains(res.Error, "auto")
}

func TestRun_SessionIDsAreUniquePerCall(t *testing.T) {
	assert := assert.New(t)
	p := newTestPipeline(t)

	r1 := p.Run("int main ( ) { return 0 ; }", Manual)
	r2 := p.Run("int main ( ) { return 0 ; }", Manual)

	assert.NotEqual(r1.SessionID, r2.SessionID)
}

func TestRun_PipelineIsReusableAcrossCalls(t *testing.T) {
	assert := assert.New(t)
	p := newTestPipeline(t)

	for i := 0; i < 3; i++ {
		res := p.Run("int main ( ) { return 0 ; }", Manual)
		assert.Equal(Success, res.Status)
	}
}
