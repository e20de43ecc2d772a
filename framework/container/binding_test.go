package container

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type color string

type goneRef struct{}

func (goneRef) Deref() (any, bool) { return nil, false }

type widget struct{ n int }

func TestClassify_Kinds(t *testing.T) {
	w := &widget{}
	fn := NewCallable("fn", nil, func([]any) (any, error) { return 1, nil })

	tests := []struct {
		name     string
		concrete any
		want     Kind
	}{
		{"go func", func() int { return 1 }, KindFactory},
		{"callable", fn, KindFactory},
		{"weak ref", goneRef{}, KindWeak},
		{"string", "target", KindAlias},
		{"int", 42, KindScalar},
		{"float", 2.5, KindScalar},
		{"bool", true, KindScalar},
		{"named string", color("red"), KindScalar},
		{"pointer", w, KindShared},
		{"struct", widget{n: 1}, KindShared},
		{"map", map[string]int{"a": 1}, KindShared},
		{"slice", []int{1, 2}, KindShared},
		{"explicit scalar", Scalar("Alice"), KindScalar},
		{"explicit alias", Alias("x"), KindAlias},
		{"explicit shared", Shared(w), KindShared},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := classify("id", tt.concrete, false)
			require.NoError(t, err)
			assert.Equal(t, tt.want, b.Kind())
		})
	}
}

func TestClassify_Rejects(t *testing.T) {
	var nilPtr *widget
	var x int

	tests := []struct {
		name     string
		concrete any
	}{
		{"nil", nil},
		{"nil pointer", nilPtr},
		{"unsafe pointer", unsafe.Pointer(&x)},
		{"variadic func", func(xs ...int) int { return len(xs) }},
		{"too many results", func() (int, int, error) { return 0, 0, nil }},
		{"empty factory", FactoryBinding{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := classify("id", tt.concrete, false)
			var invalid *InvalidArgumentError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, "id", invalid.ID)
		})
	}
}

func TestClassify_SharedFlag(t *testing.T) {
	b, err := classify("id", "target", true)
	require.NoError(t, err)
	assert.True(t, isSharedBinding(b))

	b, err = classify("id", func() int { return 1 }, true)
	require.NoError(t, err)
	assert.True(t, isSharedBinding(b))

	// scalars and objects carry no shared flag of their own
	b, err = classify("id", 7, true)
	require.NoError(t, err)
	assert.False(t, isSharedBinding(b))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "alias", KindAlias.String())
	assert.Equal(t, "weak", KindWeak.String())
	assert.Equal(t, "unknown", Kind(99).String())
}

func TestTypeKey(t *testing.T) {
	assert.Equal(t, "github.com/km-arc/go-container/framework/container.widget", TypeKey(&widget{}))
	assert.Equal(t, TypeKey(&widget{}), TypeKey(widget{}))
	assert.Equal(t, "github.com/km-arc/go-container/framework/container.Maker", TypeKey((*Maker)(nil)))
	assert.Equal(t, "int", TypeKey(0))
	assert.Equal(t, "", TypeKey(nil))
	assert.Equal(t, TypeKey((*Maker)(nil)), KeyOf[Maker]())
}

func TestState_RollbackRestoresReplacedEntries(t *testing.T) {
	s := newState()
	s.store("explicit", 1)
	mark := s.mark()
	s.cache("explicit", 2)
	s.cache("fresh", 3)

	touched := s.rollback(mark)

	assert.Equal(t, []string{"fresh", "explicit"}, touched)
	v, ok := s.instance("explicit")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	_, ok = s.instance("fresh")
	assert.False(t, ok)
}

func TestState_RollbackStopsAtMark(t *testing.T) {
	s := newState()
	s.cache("outer", 1)
	mark := s.mark()
	s.cache("inner", 2)

	assert.Equal(t, []string{"inner"}, s.rollback(mark))
	_, ok := s.instance("outer")
	assert.True(t, ok)
	_, ok = s.instance("inner")
	assert.False(t, ok)

	s.commit()
	assert.Empty(t, s.rollback(0))
	_, ok = s.instance("outer")
	assert.True(t, ok)
}

func TestTransient_ClearsSharedFlag(t *testing.T) {
	fn := NewCallable("f", nil, func([]any) (any, error) { return 1, nil })
	assert.False(t, isSharedBinding(transient(FactoryBinding{Producer: fn, Shared: true})))
	assert.False(t, isSharedBinding(transient(AliasBinding{Target: "x", Shared: true})))
	assert.Equal(t, ScalarBinding{Value: 1}, transient(ScalarBinding{Value: 1}))
}
