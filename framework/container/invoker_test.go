package container_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-container/framework/container"
)

type report struct {
	title string
}

func (r *report) Render(format string) string { return r.title + "." + format }

func (r *report) Fail() error { return errors.New("render failed") }

func TestCall_GoFuncWithDependencies(t *testing.T) {
	c := container.New()
	shared := &clock{tick: 5}
	c.Instance(container.KeyOf[*clock](), shared)

	v, err := c.Call(func(cl *clock, n int) int { return cl.tick + n }, container.Params{"arg1": 10})
	require.NoError(t, err)
	assert.Equal(t, 15, v)
}

func TestCall_NamedFunc(t *testing.T) {
	c := container.New()
	fn, err := container.Func(func(a, b int) int { return a * b }, "a", "b")
	require.NoError(t, err)

	v, err := c.Call(fn, container.Params{"a": 6, "b": 7})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestCall_CallableWithDefault(t *testing.T) {
	c := container.New()
	fn := container.NewCallable("hello", []container.Param{container.Opt("name", "world")},
		func(args []any) (any, error) { return "hello " + args[0].(string), nil })

	v, err := c.Call(fn, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello world", v)
}

func TestCall_MissingArgument(t *testing.T) {
	c := container.New()

	_, err := c.Call(func(n int) int { return n }, nil)

	var re *container.ResolutionError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "arg0", re.Param)
}

func TestCall_WrongArgumentType(t *testing.T) {
	c := container.New()

	_, err := c.Call(func(n int) int { return n }, container.Params{"arg0": "seven"})

	var re *container.ResolutionError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "arg0", re.Param)
}

func TestCall_ErrorOnlyResult(t *testing.T) {
	c := container.New()
	boom := errors.New("boom")

	v, err := c.Call(func() error { return nil }, nil)
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = c.Call(func() error { return boom }, nil)
	assert.ErrorIs(t, err, boom)
}

func TestCall_MethodByReflection(t *testing.T) {
	c := container.New()
	r := &report{title: "q3"}

	v, err := c.Call(container.Method{Receiver: r, Name: "Render"}, container.Params{"arg0": "pdf"})
	require.NoError(t, err)
	assert.Equal(t, "q3.pdf", v)
}

func TestCall_MethodError(t *testing.T) {
	c := container.New()

	_, err := c.Call(container.Method{Receiver: &report{}, Name: "Fail"}, nil)

	var re *container.ResolutionError
	require.ErrorAs(t, err, &re)
	assert.Contains(t, err.Error(), "render failed")
}

func TestCall_UnknownMethod(t *testing.T) {
	c := container.New()

	_, err := c.Call(container.Method{Receiver: &report{}, Name: "Missing"}, nil)
	assert.True(t, container.IsNotFound(err))
}

func TestCall_MethodFromDescriptor(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Describe(container.TypeDescriptor{
		Name: container.KeyOf[*report](),
		Constructor: container.NewCallable("report", []container.Param{container.Opt("title", "daily")},
			func(args []any) (any, error) { return &report{title: args[0].(string)}, nil }),
		Methods: map[string]container.MethodDescriptor{
			"render": {
				Params: []container.Param{container.Opt("format", "html")},
				Fn: func(recv any, args []any) (any, error) {
					return recv.(*report).Render(args[0].(string)), nil
				},
			},
		},
	}))

	v, err := c.Call(container.Method{Receiver: &report{title: "mine"}, Name: "render"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "mine.html", v)
}

func describeReport(t *testing.T, c *container.Container) {
	t.Helper()
	require.NoError(t, c.Describe(container.TypeDescriptor{
		Name: "Report",
		Constructor: container.NewCallable("Report", []container.Param{container.Opt("title", "daily")},
			func(args []any) (any, error) { return &report{title: args[0].(string)}, nil }),
		Methods: map[string]container.MethodDescriptor{
			"render": {
				Params: []container.Param{container.Arg("format")},
				Fn: func(recv any, args []any) (any, error) {
					return recv.(*report).Render(args[0].(string)), nil
				},
			},
			"formats": {
				Static: true,
				Fn: func(recv any, _ []any) (any, error) {
					if recv != nil {
						return nil, errors.New("static method got a receiver")
					}
					return []string{"pdf", "html"}, nil
				},
			},
		},
	}))
}

func TestCall_StaticString(t *testing.T) {
	c := container.New()
	describeReport(t, c)

	v, err := c.Call("Report::formats", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"pdf", "html"}, v)
}

func TestCall_InstanceMethodStringBuildsReceiver(t *testing.T) {
	c := container.New()
	describeReport(t, c)

	v, err := c.Call("Report::render", container.Params{"format": "pdf"})
	require.NoError(t, err)
	assert.Equal(t, "daily.pdf", v)
}

func TestCall_InstanceMethodStringUsesBoundReceiver(t *testing.T) {
	c := container.New()
	describeReport(t, c)
	c.Instance("Report", &report{title: "bound"})

	v, err := c.Call("Report::render", container.Params{"format": "csv"})
	require.NoError(t, err)
	assert.Equal(t, "bound.csv", v)
}

func TestCall_StaticStringErrors(t *testing.T) {
	c := container.New()
	describeReport(t, c)

	_, err := c.Call("Nope::render", nil)
	assert.True(t, container.IsNotFound(err))

	_, err = c.Call("Report::missing", nil)
	assert.True(t, container.IsNotFound(err))

	var invalid *container.InvalidArgumentError
	_, err = c.Call("Report", nil)
	assert.ErrorAs(t, err, &invalid)
}

func TestCall_InvalidTargets(t *testing.T) {
	c := container.New()
	var nilCallable *container.Callable

	for name, target := range map[string]any{
		"nil":          nil,
		"nil callable": nilCallable,
		"int":          42,
		"variadic":     func(xs ...int) int { return len(xs) },
		"no name":      container.Method{Receiver: &report{}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := c.Call(target, nil)
			var invalid *container.InvalidArgumentError
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestInvoke_Typed(t *testing.T) {
	c := container.New()

	n, err := container.Invoke[int](c, func() int { return 3 }, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = container.Invoke[string](c, func() int { return 3 }, nil)
	var re *container.ResolutionError
	require.ErrorAs(t, err, &re)
	assert.Contains(t, err.Error(), "not string")
}

func TestCall_ContextualOverride(t *testing.T) {
	c := container.New()
	global := &clock{tick: 1}
	local := &clock{tick: 2}
	clockID := container.KeyOf[*clock]()
	c.Instance(clockID, global)
	describeGreeter(t, c)
	greeterID := container.KeyOf[*greeter]()

	require.NoError(t, c.When(greeterID).Needs(clockID).Give(container.Shared(local)))

	v, err := c.Make(greeterID, container.Params{"name": "x"})
	require.NoError(t, err)
	assert.Same(t, local, v.(*greeter).clock)

	other, err := c.Call(func(cl *clock) *clock { return cl }, nil)
	require.NoError(t, err)
	assert.Same(t, global, other, "the override only applies to the named consumer")
}

func TestCall_SharedContextualBindingStaysLocal(t *testing.T) {
	c := container.New()
	global := &clock{tick: 1}
	clockID := container.KeyOf[*clock]()
	require.NoError(t, c.Bind(clockID, container.Shared(global), false))
	describeGreeter(t, c)
	greeterID := container.KeyOf[*greeter]()

	calls := 0
	require.NoError(t, c.When(greeterID).Needs(clockID).Give(container.FactoryBinding{
		Producer: container.NewCallable("local", nil, func([]any) (any, error) {
			calls++
			return &clock{tick: 2}, nil
		}),
		Shared: true,
	}))

	v, err := c.Make(greeterID, container.Params{"name": "x"})
	require.NoError(t, err)
	assert.Equal(t, 2, v.(*greeter).clock.tick)

	got, err := c.Make(clockID, nil)
	require.NoError(t, err)
	assert.Same(t, global, got, "the container-wide binding must not see the contextual value")
	assert.False(t, c.Resolved(clockID))

	_, err = c.Make(greeterID, container.Params{"name": "y"})
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "contextual values are never cached")
}

func TestCall_FailureRollsBackResolvedDependencies(t *testing.T) {
	c := container.New()
	calls := 0
	require.NoError(t, c.Shared("dep", func() *clock {
		calls++
		return &clock{}
	}))
	job := container.NewCallable("job", []container.Param{
		container.Dep("dep", "dep"),
		container.Arg("missing"),
	}, func(args []any) (any, error) { return args, nil })

	_, err := c.Call(job, nil)
	require.Error(t, err)
	assert.False(t, c.Resolved("dep"))

	_, err = c.Call(job, container.Params{"missing": 1})
	require.NoError(t, err)
	assert.True(t, c.Resolved("dep"))
	assert.Equal(t, 2, calls)
}
