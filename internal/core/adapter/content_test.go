package adapter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContentText(t *testing.T) {
	tests := []struct {
		name   string
		stream string
		want   string
	}{
		{
			name:   "tj with line moves",
			stream: "BT /F1 12 Tf 72 712 Td (John Smith) Tj 0 -14 Td (john@example.com) Tj ET",
			want:   "John Smith\njohn@example.com\n",
		},
		{
			name:   "tj array with kerning and word gap",
			stream: "BT [(Jo) 120 (hn) -300 (Smith)] TJ ET",
			want:   "John Smith\n",
		},
		{
			name:   "hex string",
			stream: "BT <4869> Tj ET",
			want:   "Hi\n",
		},
		{
			name:   "escaped parens and octal",
			stream: `BT (a\(b\) \101) Tj ET`,
			want:   "a(b) A\n",
		},
		{
			name:   "nested parens",
			stream: "BT (f(x)) Tj ET",
			want:   "f(x)\n",
		},
		{
			name:   "text matrix y change",
			stream: "BT 1 0 0 1 72 700 Tm (A) Tj 1 0 0 1 90 700 Tm (B) Tj 1 0 0 1 72 680 Tm (C) Tj ET",
			want:   "A B\nC\n",
		},
		{
			name:   "quote operators start new lines",
			stream: "BT (one) Tj (two) ' 1 2 (three) \" ET",
			want:   "one\ntwo\nthree\n",
		},
		{
			name:   "comments and inline images skipped",
			stream: "% comment (no)\nq BI /W 1 /H 1 ID x)((y EI Q BT (ok) Tj ET",
			want:   "ok\n",
		},
		{
			name:   "text without ET keeps no break",
			stream: "BT (open) Tj ",
			want:   "open",
		},
		{
			name:   "no text",
			stream: "q 1 0 0 1 0 0 cm Q",
			want:   "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, contentText([]byte(tt.stream)))
		})
	}
}
