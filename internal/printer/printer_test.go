package printer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
)

func TestNew_BufferIsNotColored(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.Successf("installed %s", "game.exe")

	assert.Equal(t, Check+" installed game.exe\n", buf.String())
}

func TestFatalError_Plain(t *testing.T) {
	var buf bytes.Buffer
	NewPlain(&buf).FatalError(errors.New("pipe not found"))

	assert.Equal(t, "╭ Error\n│ pipe not found\n╵\n", buf.String())
}

func TestFatalError_FieldErrors(t *testing.T) {
	var buf bytes.Buffer
	fieldErrs := criterio.FieldErrors{
		{Field: "placeholder", Err: errors.New("not found")},
		{Field: "catalog.mirror_url", Err: errors.New("url must be http or https")},
	}

	NewPlain(&buf).FatalError(fmt.Errorf("validate config: %w", fieldErrs))

	out := buf.String()
	assert.Contains(t, out, "Validation Error")
	assert.Contains(t, out, "validate config")
	assert.Contains(t, out, Cross+" placeholder: not found")
	assert.Contains(t, out, Cross+" catalog.mirror_url: url must be http or https")
}

func TestFatalError_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPlain(&buf).FatalError(nil)
	assert.Empty(t, buf.String())
}

func TestCtx(t *testing.T) {
	var buf bytes.Buffer
	p := NewPlain(&buf)

	ctx := NewContext(context.Background(), p)
	assert.Same(t, p, Ctx(ctx))
	assert.NotNil(t, Ctx(context.Background()))
}

func TestStatus(t *testing.T) {
	p := NewPlain(&bytes.Buffer{})
	assert.Equal(t, Check+" running", p.StatusOK("running"))
	assert.Equal(t, Cross+" gone", p.StatusFailed("gone"))
	assert.Equal(t, Dot+" idle", p.StatusWarn("idle"))
}
