package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New("test error")
	require.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNewf(t *testing.T) {
	err := Newf("error: %s %d", "test", 42)
	require.NotNil(t, err)
	assert.Equal(t, "error: test 42", err.Error())
}

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWrapf(t *testing.T) {
	original := New("original")
	wrapped := Wrapf(original, "wrapped: %d", 42)

	assert.Contains(t, wrapped.Error(), "wrapped: 42")
	assert.Contains(t, wrapped.Error(), "original")
}

func TestIs(t *testing.T) {
	err1 := New("error 1")
	err2 := New("error 2")
	wrapped := Wrap(err1, "wrapped")

	assert.True(t, Is(wrapped, err1))
	assert.False(t, Is(wrapped, err2))
	assert.False(t, Is(nil, err1))
}

type customError struct {
	msg string
}

func (e *customError) Error() string {
	return e.msg
}

func TestAs(t *testing.T) {
	original := &customError{msg: "custom"}
	wrapped := Wrap(original, "wrapped")

	var target *customError
	require.True(t, As(wrapped, &target))
	assert.Equal(t, "custom", target.msg)
}

func TestWithHint(t *testing.T) {
	err := New("error")
	withHint := WithHint(err, "check dsg.toml")

	hints := GetAllHints(withHint)
	require.Len(t, hints, 1)
	assert.Equal(t, "check dsg.toml", hints[0])
}

func TestWithDetail(t *testing.T) {
	err := New("error")
	withDetail := WithDetail(err, "template controller.go.tmpl")

	details := GetAllDetails(withDetail)
	require.Len(t, details, 1)
	assert.Equal(t, "template controller.go.tmpl", details[0])
}

func TestWithHintf(t *testing.T) {
	err := New("error")
	withHint := WithHintf(err, "add %d topics", 2)

	hints := GetAllHints(withHint)
	require.Len(t, hints, 1)
	assert.Equal(t, "add 2 topics", hints[0])
}

func TestStackTrace(t *testing.T) {
	err := New("with stack")

	// Format with stack trace
	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "errors_test.go")
}

func TestUnwrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	unwrapped := Unwrap(wrapped)
	assert.NotNil(t, unwrapped)
}

func TestUnwrapAll(t *testing.T) {
	err1 := New("base")
	err2 := Wrap(err1, "middle")
	err3 := Wrap(err2, "top")

	all := UnwrapAll(err3)
	assert.NotEmpty(t, all)
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithStack(nil))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.Nil(t, WithDetail(nil, "detail"))
}

func TestErrorChaining(t *testing.T) {
	base := New("base error")

	err := Wrap(base, "layer 1")
	err = WithHint(err, "helpful hint")
	err = WithDetail(err, "detailed info")
	err = Wrap(err, "layer 2")

	// Should preserve all context
	assert.True(t, Is(err, base))
	assert.Contains(t, err.Error(), "layer 2")
	assert.Contains(t, err.Error(), "layer 1")
	assert.Contains(t, err.Error(), "base error")

	// Hints and details should be accessible
	hints := GetAllHints(err)
	assert.Contains(t, hints, "helpful hint")

	details := GetAllDetails(err)
	assert.Contains(t, details, "detailed info")
}

func TestSentinelHelpers(t *testing.T) {
	t.Run("not found survives wrapping", func(t *testing.T) {
		err := NewNotFoundError("template %s", "controller.go.tmpl")
		assert.Equal(t, "template controller.go.tmpl", err.Error())
		assert.True(t, IsNotFoundError(Wrap(err, "load")))
		assert.False(t, IsInvalidInputError(err))
	})

	t.Run("invalid input", func(t *testing.T) {
		err := NewInvalidInputError("direction %q", "sideways")
		assert.True(t, IsInvalidInputError(err))
		assert.False(t, IsNotFoundError(err))
	})

	t.Run("nil is never a sentinel", func(t *testing.T) {
		assert.False(t, IsNotFoundError(nil))
		assert.False(t, IsInvalidInputError(nil))
	})
}

func TestMark(t *testing.T) {
	sentinel := New("sentinel")
	err := Mark(New("declaration KafkaController"), sentinel)

	assert.True(t, Is(err, sentinel))
	assert.Equal(t, "declaration KafkaController", err.Error())
}

func ExampleNew() {
	err := New("template has no package clause")
	fmt.Println(err)
	// Output: template has no package clause
}

func ExampleWrap() {
	baseErr := New("unexpected token")
	err := Wrap(baseErr, "failed to parse controller template")
	fmt.Println(err)
	// Output: failed to parse controller template: unexpected token
}

func ExampleWithHint() {
	err := New("topic name missing")
	err = WithHint(err, "set topic_name for every receive pattern")

	hints := GetAllHints(err)
	fmt.Println(hints[0])
	// Output: set topic_name for every receive pattern
}
