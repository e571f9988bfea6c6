package web

import (
	"unicode/utf16"
	"unicode/utf8"
)

// utf16Cursor converts byte offsets into UTF-16 code unit offsets. It walks
// forward from the previous query and restarts when asked for an earlier one.
type utf16Cursor struct {
	text    string
	byteOff int
	unitOff int
}

func (c *utf16Cursor) at(off int) int {
	if off < c.byteOff {
		c.byteOff, c.unitOff = 0, 0
	}
	for c.byteOff < off && c.byteOff < len(c.text) {
		r, size := utf8.DecodeRuneInString(c.text[c.byteOff:])
		c.unitOff += utf16.RuneLen(r)
		c.byteOff += size
	}
	return c.unitOff
}
