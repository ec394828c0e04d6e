package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitErrorFormatting(t *testing.T) {
	assert.Equal(t, "bad root", NewExitError(ExitCommandError, "bad root").Error())

	inner := errors.New("boom")
	wrapped := WrapExitError(ExitCommandError, "loading workspace", inner)
	assert.Equal(t, "loading workspace: boom", wrapped.Error())
	assert.ErrorIs(t, wrapped, inner)

	// A bare wrapped error surfaces the diagnostic verbatim.
	bare := &ExitError{Code: ExitFailure, Err: inner}
	assert.Equal(t, "boom", bare.Error())
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(NewExitError(ExitFailure, "x")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "x")))

	// Errors that never pass through an ExitError are command errors.
	assert.Equal(t, ExitCommandError, GetExitCode(errors.New("unknown flag")))
}

func TestFormatterSuccessText(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}
	require.NoError(t, f.Success("done"))
	assert.Equal(t, "done\n", buf.String())
}

func TestFormatterSuccessJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}
	require.NoError(t, f.Success(map[string]bool{"passed": true}))
	assert.Contains(t, buf.String(), `"status": "ok"`)
	assert.Contains(t, buf.String(), `"passed": true`)
}

func TestVerboseLog(t *testing.T) {
	var out, errOut bytes.Buffer

	f := &OutputFormatter{Format: "text", Writer: &out, ErrWriter: &errOut, Verbose: false}
	f.VerboseLog("hidden %d", 1)
	assert.Empty(t, errOut.String())

	f.Verbose = true
	f.VerboseLog("shown %d", 2)
	assert.Equal(t, "shown 2\n", errOut.String())
	assert.Empty(t, out.String(), "diagnostics must not reach stdout")
}
