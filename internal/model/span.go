package model

// CommentKind はコメントの種別（行コメント／ブロックコメント）を表します。
type CommentKind string

const (
	CommentKindLine  CommentKind = "line"
	CommentKindBlock CommentKind = "block"
)

// Span は 1 件の検出範囲を行・桁・バイトオフセットで表します。
//
// ByteStart/ByteEnd は半開区間 [ByteStart, ByteEnd) で、走査したバッファを
// そのままスライスできます。行は 1 始まり、桁はルーン単位の 1 始まりです。
type Span struct {
	Kind      CommentKind `json:"kind"`
	ByteStart int         `json:"start"`
	ByteEnd   int         `json:"end"`
	StartLine int         `json:"start_line"`
	StartCol  int         `json:"start_col"`
	EndLine   int         `json:"end_line"`
	EndCol    int         `json:"end_col"`
}

// Len はスパンのバイト長を返します。
func (s Span) Len() int {
	return s.ByteEnd - s.ByteStart
}

// Text は text から該当範囲を切り出します。範囲外の場合は空文字列を返します。
func (s Span) Text(text string) string {
	if s.ByteStart < 0 || s.ByteEnd > len(text) || s.ByteStart > s.ByteEnd {
		return ""
	}
	return text[s.ByteStart:s.ByteEnd]
}
