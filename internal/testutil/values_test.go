package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/petrolc/internal/ir"
)

func TestList(t *testing.T) {
	p := ir.NewPool()
	assert.Equal(t, "(a b c)", List(p, "a", "b", "c").String())
	assert.Equal(t, "()", List(p).String())
}

func TestImproper(t *testing.T) {
	p := ir.NewPool()
	assert.Equal(t, "(a b . c)", Improper(p, "c", "a", "b").String())
	assert.Equal(t, "c", Improper(p, "c").String())
}

func TestCaptureLogs(t *testing.T) {
	buf := CaptureLogs(t)
	slog.Debug("captured", "n", 1)
	assert.Contains(t, buf.String(), "msg=captured n=1")
}
