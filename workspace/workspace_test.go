package workspace

import (
	"sync"
	"testing"
	"time"

	"gopkg.in/src-d/go-billy.v4/memfs"
)

func TestExists(t *testing.T) {
	fs := memfs.New()
	if err := fs.MkdirAll("present/.git", 0755); err != nil {
		t.Fatal(err)
	}
	w := New(fs)

	tests := []struct {
		name    string
		project string
		want    bool
	}{
		{"cloned", "present", true},
		{"never cloned", "absent", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := w.Exists(tt.project)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Exists() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	w, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := w.Path("myapp"), dir+"/myapp"; got != want {
		t.Errorf("Path() = %v, want %v", got, want)
	}
	if _, err := Open(dir + "/missing"); err == nil {
		t.Error("expected an error for a missing root")
	}
}

func TestLocksSerializeSameKey(t *testing.T) {
	l := NewLocks()
	unlock := l.Lock("app")

	acquired := make(chan struct{})
	go func() {
		release := l.Lock("app")
		close(acquired)
		release()
	}()

	select {
	case <-acquired:
		t.Fatal("second Lock acquired while the first was held")
	case <-time.After(50 * time.Millisecond):
	}
	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second Lock never acquired")
	}
}

func TestLocksIndependentKeys(t *testing.T) {
	l := NewLocks()
	unlock := l.Lock("a")
	defer unlock()

	done := make(chan struct{})
	go func() {
		l.Lock("b")()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different key blocked")
	}
}

func TestLocksAreReleased(t *testing.T) {
	l := NewLocks()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Lock("app")()
		}()
	}
	wg.Wait()
	if n := l.len(); n != 0 {
		t.Errorf("%d lock entries left behind", n)
	}
}
