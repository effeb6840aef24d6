package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Interface compliance (compile-time assertions)
var (
	_ Tool = (*WebSearch)(nil)
	_ Tool = (*Lookup)(nil)
	_ Tool = (*Calculator)(nil)
	_ Tool = (*Summarizer)(nil)
	_ Tool = (*CitationGenerator)(nil)
	_ Tool = (*Comparator)(nil)
)

type stubTool struct {
	name string
}

func (s *stubTool) Name() string        { return s.name }
func (s *stubTool) Description() string { return "stub" }
func (s *stubTool) Invoke(context.Context, string) (string, error) {
	return "ok", nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	assert.NoError(t, r.Register(&stubTool{name: "alpha"}))
	assert.NoError(t, r.Register(&stubTool{name: "beta"}))

	got, err := r.Get("alpha")
	assert.NoError(t, err)
	assert.Equal(t, "alpha", got.Name())
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_DuplicateName(t *testing.T) {
	r := NewRegistry()
	assert.NoError(t, r.Register(&stubTool{name: "alpha"}))

	err := r.Register(&stubTool{name: "alpha"})
	assert.Error(t, err)
	var dup *DuplicateToolError
	assert.ErrorAs(t, err, &dup)
	assert.Equal(t, "alpha", dup.Name)
}

func TestRegistry_UnknownTool(t *testing.T) {
	r := NewRegistry()

	_, err := r.Get("missing")
	var unknown *UnknownToolError
	assert.ErrorAs(t, err, &unknown)
	assert.Equal(t, "missing", unknown.Name)
}

func TestRegistry_ListSorted(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(&stubTool{name: "zeta"}, &stubTool{name: "alpha"}, &stubTool{name: "mid"})

	infos := r.List()
	assert.Len(t, infos, 3)
	assert.Equal(t, "alpha", infos[0].Name)
	assert.Equal(t, "mid", infos[1].Name)
	assert.Equal(t, "zeta", infos[2].Name)
}

func TestAsError_NormalizesForeignErrors(t *testing.T) {
	te := AsError("web_search", assert.AnError)
	assert.Equal(t, KindInternal, te.Kind)
	assert.False(t, te.Transient)

	passthrough := NewUnavailableError("web_search", "down")
	assert.Same(t, passthrough, AsError("web_search", passthrough))
	assert.Nil(t, AsError("web_search", nil))
}
