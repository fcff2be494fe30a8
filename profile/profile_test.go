package profile

import "testing"

func TestMake(t *testing.T) {
	p := Make(WithMode("cpu"), WithPath("/tmp/p"), WithQuiet(true))

	want := Profiler{Mode: "cpu", Path: "/tmp/p", Quiet: true}
	if p != want {
		t.Errorf("expected %+v, got %+v", want, p)
	}
}

func TestStart_NoMode(t *testing.T) {
	stop := Make().Start()

	if _, ok := stop.(ignore); !ok {
		t.Errorf("expected no-op profiler, got %T", stop)
	}

	stop.Stop()
}

func TestStart_UnknownMode(t *testing.T) {
	stop := Make(WithMode("bogus"), WithPath(t.TempDir())).Start()

	if _, ok := stop.(ignore); !ok {
		t.Errorf("expected no-op profiler, got %T", stop)
	}

	stop.Stop()
}
