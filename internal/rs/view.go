package rs

// View is a strided window into a flat symbol buffer. The product code
// stores its codeword row-major in one flat slice; a column is a View
// with stride == number of columns, a row is a View with stride == 1.
// This mirrors the pointer+stride pairs passed to rs_encode/rs_decode
// in the reference implementation (product_code.c), translated into a
// bounds-checked Go value instead of raw pointer arithmetic.
type View struct {
	buf    []uint16
	offset int
	stride int
	length int
}

// NewView builds a View of length symbols starting at offset, spaced
// stride apart, over buf.
func NewView(buf []uint16, offset, stride, length int) View {
	return View{buf: buf, offset: offset, stride: stride, length: length}
}

// Len returns the number of symbols in the view.
func (v View) Len() int { return v.length }

// At returns the symbol at logical position i.
func (v View) At(i int) uint16 { return v.buf[v.offset+i*v.stride] }

// Set stores val at logical position i.
func (v View) Set(i int, val uint16) { v.buf[v.offset+i*v.stride] = val }
