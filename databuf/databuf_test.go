package databuf

import "testing"

func TestShortBufferStaysInline(t *testing.T) {
	b := New(8)
	if b.isLong() {
		t.Fatal("expected short buffer")
	}
	if err := b.Resize(8, true); err != nil {
		t.Fatal(err)
	}
	if len(b.Bytes()) != 8 {
		t.Fatalf("expected length 8, got %d", len(b.Bytes()))
	}
}

func TestGrowPastShortBuffer(t *testing.T) {
	b := New(4)
	if err := b.Resize(4, false); err != nil {
		t.Fatal(err)
	}
	copy(b.Bytes(), []byte{1, 2, 3, 4})

	if err := b.Reserve(64); err != nil {
		t.Fatal(err)
	}
	if !b.isLong() {
		t.Fatal("expected long buffer after growing past the inline size")
	}
	if b.Bytes()[0] != 1 || b.Bytes()[3] != 4 {
		t.Fatal("grow did not preserve existing contents")
	}
}

func TestResizeZeroesOnGrowWithFill(t *testing.T) {
	b := New(0)
	if err := b.Resize(32, true); err != nil {
		t.Fatal(err)
	}
	for i, v := range b.Bytes() {
		if v != 0 {
			t.Fatalf("byte %d not zeroed: %d", i, v)
		}
	}
}

func TestClonePreservesContents(t *testing.T) {
	b := New(4)
	if err := b.Resize(4, false); err != nil {
		t.Fatal(err)
	}
	copy(b.Bytes(), []byte("abcd"))

	clone, err := b.Clone(0)
	if err != nil {
		t.Fatal(err)
	}
	if string(clone.Bytes()) != "abcd" {
		t.Fatalf("clone mismatch: %q", clone.Bytes())
	}

	// Mutating the original must not affect the clone.
	b.Bytes()[0] = 'z'
	if clone.Bytes()[0] != 'a' {
		t.Fatal("clone aliases the original's storage")
	}
}

func TestResizeRejectsNegativeLength(t *testing.T) {
	b := New(4)
	if err := b.Resize(-1, false); err == nil {
		t.Fatal("expected an error for a negative length")
	}
}
