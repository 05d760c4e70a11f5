// Package assert provides the few test assertions that the payment channel
// packages use next to testify. Every assertion stops the test on failure.
package assert

import (
	"reflect"
	"testing"

	"github.com/iov-one/weave-paychan/errors"
)

// Tester is the subset of testing.TB the assertions need.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Nil fails the test unless value is nil, including a typed nil.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if !isNil(value) {
		// %+v prints the stack trace of errors.
		t.Fatalf("want a nil value, got %+v", value)
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	}
	return false
}

// Equal fails the test if two values are not deeply equal.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("values not equal \nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// Panics fails the test if fn returns without panicking.
func Panics(t Tester, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	fn()
}

// FieldError fails the test unless err holds exactly one error for
// fieldName and that error is of the want kind. A nil want asserts that
// there is no error for the field.
func FieldError(t testing.TB, err error, fieldName string, want *errors.Error) {
	t.Helper()
	errs := errors.FieldErrors(err, fieldName)
	switch {
	case want == nil && len(errs) == 0:
	case want == nil:
		t.Fatalf("want no %q field error, got %d: %v", fieldName, len(errs), errs)
	case len(errs) == 0:
		t.Fatalf("no %q field error found in %+v", fieldName, err)
	case len(errs) > 1:
		t.Fatalf("want one %q field error, got %d: %v", fieldName, len(errs), errs)
	case !want.Is(errs[0]):
		t.Fatalf("want %q field error of kind %q, got %q", fieldName, want, errs[0])
	}
}

// IsErr fails the test unless got is of the want kind. Kinds are compared
// with the Is method, so wrapped errors match their root error.
func IsErr(t testing.TB, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	if w, ok := want.(interface{ Is(error) bool }); ok && w.Is(got) {
		return
	}
	t.Fatalf("want %q, got %+v", want, got)
}
