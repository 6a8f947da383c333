package adapter

import (
	"bytes"
	"strconv"
	"strings"
)

// tjSpaceThreshold is the TJ displacement (thousandths of text space) treated as a word gap.
const tjSpaceThreshold = -200

type csKind int

const (
	csNumber csKind = iota
	csString
	csName
	csArray
	csOperator
	csOther
)

type csToken struct {
	kind  csKind
	num   float64
	str   []byte
	op    string
	items []csToken
}

// contentText recovers text from a page content stream. Text-showing operators
// (Tj, TJ, ', ") emit their strings; positioning operators become line breaks or
// spaces so that visual lines survive as text lines.
func contentText(data []byte) string {
	l := &csLexer{data: data}
	w := &layoutWriter{}

	var (
		operands []csToken
		arrays   [][]csToken
		lastY    float64
		haveY    bool
	)
	push := func(t csToken) {
		if n := len(arrays); n > 0 {
			arrays[n-1] = append(arrays[n-1], t)
			return
		}
		operands = append(operands, t)
	}

	for {
		tok, ok := l.next()
		if !ok {
			break
		}
		switch tok.kind {
		case csOther:
			switch tok.op {
			case "[":
				arrays = append(arrays, nil)
			case "]":
				if n := len(arrays); n > 0 {
					arr := arrays[n-1]
					arrays = arrays[:n-1]
					push(csToken{kind: csArray, items: arr})
				}
			}
			continue
		case csOperator:
		default:
			push(tok)
			continue
		}

		switch tok.op {
		case "Tj":
			if s, ok := lastString(operands); ok {
				w.text(s)
			}
		case "TJ":
			if n := len(operands); n > 0 && operands[n-1].kind == csArray {
				for _, it := range operands[n-1].items {
					switch it.kind {
					case csString:
						w.text(it.str)
					case csNumber:
						if it.num <= tjSpaceThreshold {
							w.space()
						}
					}
				}
			}
		case "'", "\"":
			w.newline()
			if s, ok := lastString(operands); ok {
				w.text(s)
			}
		case "T*":
			w.newline()
		case "Td", "TD":
			if len(operands) >= 2 {
				tx, ty := operands[len(operands)-2].num, operands[len(operands)-1].num
				switch {
				case ty != 0:
					w.newline()
				case tx != 0:
					w.space()
				}
			}
		case "Tm":
			if len(operands) >= 6 {
				y := operands[len(operands)-1].num
				if haveY && y != lastY {
					w.newline()
				} else {
					w.space()
				}
				lastY, haveY = y, true
			}
		case "ET":
			w.newline()
		case "ID":
			l.skipInlineImage()
		}
		operands = operands[:0]
		arrays = arrays[:0]
	}
	out := w.String()
	body := strings.TrimRight(out, " \n")
	// keep one final line break so the next page starts on its own line
	if strings.Contains(out[len(body):], "\n") {
		body += "\n"
	}
	return body
}

func lastString(ops []csToken) ([]byte, bool) {
	if n := len(ops); n > 0 && ops[n-1].kind == csString {
		return ops[n-1].str, true
	}
	return nil, false
}

// layoutWriter collapses repeated separators.
type layoutWriter struct {
	b bytes.Buffer
}

func (w *layoutWriter) text(s []byte) {
	w.b.Write(s)
}

func (w *layoutWriter) space() {
	if w.b.Len() == 0 {
		return
	}
	if last := w.b.Bytes()[w.b.Len()-1]; last == ' ' || last == '\n' {
		return
	}
	w.b.WriteByte(' ')
}

func (w *layoutWriter) newline() {
	if w.b.Len() == 0 {
		return
	}
	buf := w.b.Bytes()
	if buf[len(buf)-1] == '\n' {
		return
	}
	if buf[len(buf)-1] == ' ' {
		w.b.Truncate(w.b.Len() - 1)
	}
	w.b.WriteByte('\n')
}

func (w *layoutWriter) String() string { return w.b.String() }

// csLexer tokenizes a PDF content stream.
type csLexer struct {
	data []byte
	pos  int
}

func isPDFSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', 0:
		return true
	}
	return false
}

func isPDFDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (l *csLexer) next() (csToken, bool) {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		switch {
		case isPDFSpace(c):
			l.pos++
		case c == '%':
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
		case c == '(':
			l.pos++
			return csToken{kind: csString, str: l.literal()}, true
		case c == '<':
			if l.pos+1 < len(l.data) && l.data[l.pos+1] == '<' {
				l.pos += 2
				return csToken{kind: csOther, op: "<<"}, true
			}
			l.pos++
			return csToken{kind: csString, str: l.hex()}, true
		case c == '>':
			if l.pos+1 < len(l.data) && l.data[l.pos+1] == '>' {
				l.pos += 2
				return csToken{kind: csOther, op: ">>"}, true
			}
			l.pos++
		case c == '[' || c == ']' || c == '{' || c == '}' || c == ')':
			l.pos++
			return csToken{kind: csOther, op: string(c)}, true
		case c == '/':
			l.pos++
			return csToken{kind: csName, op: l.word()}, true
		default:
			w := l.word()
			if w == "" {
				l.pos++
				continue
			}
			if n, err := strconv.ParseFloat(w, 64); err == nil {
				return csToken{kind: csNumber, num: n}, true
			}
			return csToken{kind: csOperator, op: w}, true
		}
	}
	return csToken{}, false
}

func (l *csLexer) word() string {
	start := l.pos
	for l.pos < len(l.data) && !isPDFSpace(l.data[l.pos]) && !isPDFDelim(l.data[l.pos]) {
		l.pos++
	}
	return string(l.data[start:l.pos])
}

// literal reads a (string) body; the opening paren is already consumed.
func (l *csLexer) literal() []byte {
	var out []byte
	depth := 1
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		switch c {
		case '(':
			depth++
			out = append(out, c)
		case ')':
			depth--
			if depth == 0 {
				return out
			}
			out = append(out, c)
		case '\\':
			if l.pos >= len(l.data) {
				return out
			}
			e := l.data[l.pos]
			l.pos++
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b', 'f':
			case '\r':
				if l.pos < len(l.data) && l.data[l.pos] == '\n' {
					l.pos++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					val := int(e - '0')
					for i := 0; i < 2 && l.pos < len(l.data) && l.data[l.pos] >= '0' && l.data[l.pos] <= '7'; i++ {
						val = val*8 + int(l.data[l.pos]-'0')
						l.pos++
					}
					out = append(out, byte(val))
				} else {
					out = append(out, e)
				}
			}
		default:
			out = append(out, c)
		}
	}
	return out
}

// hex reads a <hex string> body; the opening bracket is already consumed.
func (l *csLexer) hex() []byte {
	var out []byte
	var hi byte
	odd := false
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		if c == '>' {
			break
		}
		v, ok := hexVal(c)
		if !ok {
			continue
		}
		if !odd {
			hi, odd = v, true
			continue
		}
		out = append(out, hi<<4|v)
		odd = false
	}
	if odd {
		out = append(out, hi<<4)
	}
	return out
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// skipInlineImage advances past binary inline image data up to the EI operator.
func (l *csLexer) skipInlineImage() {
	for l.pos+2 <= len(l.data) {
		if l.data[l.pos] == 'E' && l.data[l.pos+1] == 'I' &&
			(l.pos == 0 || isPDFSpace(l.data[l.pos-1])) &&
			(l.pos+2 == len(l.data) || isPDFSpace(l.data[l.pos+2])) {
			l.pos += 2
			return
		}
		l.pos++
	}
	l.pos = len(l.data)
}
