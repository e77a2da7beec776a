package envutil

import (
	"reflect"
	"testing"
	"time"
)

func TestInt(t *testing.T) {
	t.Setenv("ENVUTIL_INT", " 42 ")
	if got := Int("ENVUTIL_INT", 1); got != 42 {
		t.Fatalf("Int: got=%d want=42", got)
	}
	t.Setenv("ENVUTIL_INT", "nope")
	if got := Int("ENVUTIL_INT", 1); got != 1 {
		t.Fatalf("Int fallback: got=%d want=1", got)
	}
}

func TestFloat(t *testing.T) {
	t.Setenv("ENVUTIL_FLOAT", "0.25")
	if got := Float("ENVUTIL_FLOAT", 1); got != 0.25 {
		t.Fatalf("Float: got=%v want=0.25", got)
	}
	t.Setenv("ENVUTIL_FLOAT", "half")
	if got := Float("ENVUTIL_FLOAT", 1); got != 1 {
		t.Fatalf("Float fallback: got=%v want=1", got)
	}
}

func TestBool(t *testing.T) {
	cases := map[string]bool{"true": true, "ON": true, "0": false, "off": false}
	for raw, want := range cases {
		t.Setenv("ENVUTIL_BOOL", raw)
		if got := Bool("ENVUTIL_BOOL", !want); got != want {
			t.Fatalf("Bool(%q): got=%v want=%v", raw, got, want)
		}
	}
	t.Setenv("ENVUTIL_BOOL", "maybe")
	if got := Bool("ENVUTIL_BOOL", true); !got {
		t.Fatalf("Bool fallback: got=%v want=true", got)
	}
}

func TestDuration(t *testing.T) {
	t.Setenv("ENVUTIL_DUR", "1500")
	if got := Duration("ENVUTIL_DUR", time.Second, time.Millisecond); got != 1500*time.Millisecond {
		t.Fatalf("Duration int: got=%v", got)
	}
	t.Setenv("ENVUTIL_DUR", "30m")
	if got := Duration("ENVUTIL_DUR", time.Second, time.Millisecond); got != 30*time.Minute {
		t.Fatalf("Duration string: got=%v", got)
	}
	t.Setenv("ENVUTIL_DUR", "")
	if got := Duration("ENVUTIL_DUR", time.Second, time.Millisecond); got != time.Second {
		t.Fatalf("Duration default: got=%v", got)
	}
}

func TestList(t *testing.T) {
	t.Setenv("ENVUTIL_LIST", "a, b,,c ")
	if got := List("ENVUTIL_LIST", nil); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("List: got=%v", got)
	}
}
