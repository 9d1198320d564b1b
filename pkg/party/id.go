package party

import (
	"fmt"
	"io"
)

// ID represents the identifier of a share holder.
type ID string

// WriteTo makes ID implement the io.WriterTo interface.
//
// This writes out the content of this ID, in a domain separated way.
func (id ID) WriteTo(w io.Writer) (int64, error) {
	if id == "" {
		return 0, io.ErrUnexpectedEOF
	}
	n, err := w.Write([]byte(id))
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain.
func (ID) Domain() string {
	return "ID"
}

// Numbered returns n share holder IDs "p1" … "pn".
// For n ≥ 10 the numbers are zero-padded so that the lexical order matches the numeric one.
func Numbered(n int) IDSlice {
	width := len(fmt.Sprint(n))
	ids := make([]ID, n)
	for i := range ids {
		ids[i] = ID(fmt.Sprintf("p%0*d", width, i+1))
	}
	return NewIDSlice(ids)
}
