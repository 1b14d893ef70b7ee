package rs

import (
	"math/rand"
	"testing"
)

// testCode builds a small GF(16) RS code: symsize=4, gfpoly=0x13,
// fcr=1, prim=1, nroots=4 -- mindist 5, correcting up to 2 errors.
func testCode(t *testing.T) *Code {
	t.Helper()
	c, err := NewCode(4, 0x13, 1, 1, 4)
	if err != nil {
		t.Fatalf("NewCode: %v", err)
	}
	return c
}

func encodedWord(t *testing.T, c *Code, length int, seed int64) []uint16 {
	t.Helper()
	r := rand.New(rand.NewSource(seed))
	buf := make([]uint16, length)
	k := length - c.NRoots()
	for i := 0; i < k; i++ {
		buf[i] = uint16(r.Intn(c.NN() + 1))
	}
	if err := c.Encode(NewView(buf, 0, 1, length)); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return buf
}

func TestEncodeDecodeNoErrors(t *testing.T) {
	c := testCode(t)
	length := 15
	word := encodedWord(t, c, length, 1)

	got := make([]uint16, length)
	copy(got, word)
	n := c.Decode(NewView(got, 0, 1, length), nil, nil)
	if n != 0 {
		t.Fatalf("Decode on a clean codeword returned %d, want 0", n)
	}
	for i := range word {
		if got[i] != word[i] {
			t.Fatalf("clean codeword was modified at %d: got %d, want %d", i, got[i], word[i])
		}
	}
}

func TestDecodeCorrectsUpToT(t *testing.T) {
	c := testCode(t)
	length := 15
	t_ := c.NRoots() / 2

	for trial := 0; trial < 20; trial++ {
		word := encodedWord(t, c, length, int64(trial))
		r := rand.New(rand.NewSource(int64(1000 + trial)))

		corrupt := make([]uint16, length)
		copy(corrupt, word)
		positions := r.Perm(length)[:t_]
		for _, pos := range positions {
			var val uint16
			for val == 0 {
				val = uint16(r.Intn(c.NN() + 1))
			}
			corrupt[pos] ^= val
		}

		n := c.Decode(NewView(corrupt, 0, 1, length), nil, nil)
		if n != t_ {
			t.Fatalf("trial %d: Decode with %d errors returned %d, want %d", trial, t_, n, t_)
		}
		for i := range word {
			if corrupt[i] != word[i] {
				t.Fatalf("trial %d: position %d not corrected: got %d, want %d", trial, i, corrupt[i], word[i])
			}
		}
	}
}

func TestDecodeBeyondCapacityFailsOrMiscorrect(t *testing.T) {
	c := testCode(t)
	length := 15
	tooMany := c.NRoots()/2 + 2 // guaranteed beyond the t=2 correction radius

	word := encodedWord(t, c, length, 42)
	r := rand.New(rand.NewSource(99))
	corrupt := make([]uint16, length)
	copy(corrupt, word)
	positions := r.Perm(length)[:tooMany]
	for _, pos := range positions {
		var val uint16
		for val == 0 {
			val = uint16(r.Intn(c.NN() + 1))
		}
		corrupt[pos] ^= val
	}

	n := c.Decode(NewView(corrupt, 0, 1, length), nil, nil)
	// A decoder facing more errors than its guaranteed radius is allowed
	// to either detect the failure (negative return) or miscorrect; it
	// must never claim success while leaving the word wrong.
	if n >= 0 {
		match := true
		for i := range word {
			if corrupt[i] != word[i] {
				match = false
				break
			}
		}
		if !match {
			t.Fatalf("Decode claimed success (%d) but word does not match original", n)
		}
	}
}

func TestDecodeWithErasures(t *testing.T) {
	c := testCode(t)
	length := 15
	word := encodedWord(t, c, length, 7)

	// nroots=4 erasures-only correction capacity is nroots; use 3
	// erasures plus 0 errors, safely inside that bound.
	r := rand.New(rand.NewSource(123))
	corrupt := make([]uint16, length)
	copy(corrupt, word)
	erasPositions := r.Perm(length)[:3]
	for _, pos := range erasPositions {
		var val uint16
		for val == 0 {
			val = uint16(r.Intn(c.NN() + 1))
		}
		corrupt[pos] ^= val
	}

	n := c.Decode(NewView(corrupt, 0, 1, length), erasPositions, nil)
	if n != len(erasPositions) {
		t.Fatalf("Decode with %d erasures returned %d, want %d", len(erasPositions), n, len(erasPositions))
	}
	for i := range word {
		if corrupt[i] != word[i] {
			t.Fatalf("position %d not corrected via erasure: got %d, want %d", i, corrupt[i], word[i])
		}
	}
}

func TestDecodeReportsErrPos(t *testing.T) {
	c := testCode(t)
	length := 15
	word := encodedWord(t, c, length, 55)

	r := rand.New(rand.NewSource(56))
	corrupt := make([]uint16, length)
	copy(corrupt, word)
	positions := r.Perm(length)[:2]
	for _, pos := range positions {
		var val uint16
		for val == 0 {
			val = uint16(r.Intn(c.NN() + 1))
		}
		corrupt[pos] ^= val
	}

	var errPos []int
	n := c.Decode(NewView(corrupt, 0, 1, length), nil, &errPos)
	if n != 2 {
		t.Fatalf("Decode returned %d, want 2", n)
	}
	if len(errPos) != 2 {
		t.Fatalf("errPos has %d entries, want 2", len(errPos))
	}
	seen := map[int]bool{positions[0]: true, positions[1]: true}
	for _, p := range errPos {
		if !seen[p] {
			t.Errorf("errPos contains unexpected position %d", p)
		}
	}
}

func TestShortenedCode(t *testing.T) {
	c := testCode(t)
	length := 9 // shortened: far fewer than MaxLen (15)
	word := encodedWord(t, c, length, 3)

	corrupt := make([]uint16, length)
	copy(corrupt, word)
	corrupt[2] ^= 5
	corrupt[6] ^= 9

	n := c.Decode(NewView(corrupt, 0, 1, length), nil, nil)
	if n != 2 {
		t.Fatalf("Decode on shortened code returned %d, want 2", n)
	}
	for i := range word {
		if corrupt[i] != word[i] {
			t.Fatalf("shortened codeword position %d not corrected: got %d, want %d", i, corrupt[i], word[i])
		}
	}
}

func TestViewStride(t *testing.T) {
	rows, cols := 3, 15
	buf := make([]uint16, rows*cols)
	r := rand.New(rand.NewSource(11))

	// Round-trip a column code through a length-rows view with
	// stride==cols, exercising View's stride handling end to end.
	colCode, err := NewCode(4, 0x13, 1, 1, 2)
	if err != nil {
		t.Fatalf("NewCode: %v", err)
	}
	k := rows - colCode.NRoots()
	for i := 0; i < k; i++ {
		buf[i*cols] = uint16(r.Intn(colCode.NN() + 1))
	}
	view := NewView(buf, 0, cols, rows)
	if err := colCode.Encode(view); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	original := make([]uint16, rows)
	for i := 0; i < rows; i++ {
		original[i] = view.At(i)
	}

	view.Set(0, view.At(0)^1)
	n := colCode.Decode(NewView(buf, 0, cols, rows), nil, nil)
	if n != 1 {
		t.Fatalf("Decode over strided view returned %d, want 1", n)
	}
	for i := 0; i < rows; i++ {
		if view.At(i) != original[i] {
			t.Fatalf("strided position %d not corrected: got %d, want %d", i, view.At(i), original[i])
		}
	}
}

func TestNewCodeValidation(t *testing.T) {
	if _, err := NewCode(1, 0x7, 1, 1, 2); err == nil {
		t.Error("NewCode with symSize 1 should fail")
	}
	if _, err := NewCode(4, 0x13, 1, 1, 0); err == nil {
		t.Error("NewCode with nroots 0 should fail")
	}
	if _, err := NewCode(4, 0x13, 1, 1, 15); err == nil {
		t.Error("NewCode with nroots == nn should fail")
	}
}
