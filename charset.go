/*******************************************************************************
The MIT License (MIT)

Copyright (c) 2013 Hajime Nakagami

Permission is hereby granted, free of charge, to any person obtaining a copy of
this software and associated documentation files (the "Software"), to deal in
the Software without restriction, including without limitation the rights to
use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
the Software, and to permit persons to whom the Software is furnished to do so,
subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
*******************************************************************************/

package fb

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

// Firebird character sets that need transcoding. Anything not listed
// (NONE, OCTETS, ASCII, UTF8, UNICODE_FSS) is passed through as is.
var charsetEncodings = map[string]encoding.Encoding{
	"WIN1250":    charmap.Windows1250,
	"WIN1251":    charmap.Windows1251,
	"WIN1252":    charmap.Windows1252,
	"WIN1253":    charmap.Windows1253,
	"WIN1254":    charmap.Windows1254,
	"WIN1255":    charmap.Windows1255,
	"WIN1256":    charmap.Windows1256,
	"WIN1257":    charmap.Windows1257,
	"WIN1258":    charmap.Windows1258,
	"ISO8859_1":  charmap.ISO8859_1,
	"ISO8859_2":  charmap.ISO8859_2,
	"ISO8859_3":  charmap.ISO8859_3,
	"ISO8859_4":  charmap.ISO8859_4,
	"ISO8859_5":  charmap.ISO8859_5,
	"ISO8859_6":  charmap.ISO8859_6,
	"ISO8859_7":  charmap.ISO8859_7,
	"ISO8859_8":  charmap.ISO8859_8,
	"ISO8859_9":  charmap.ISO8859_9,
	"ISO8859_13": charmap.ISO8859_13,
	"KOI8R":      charmap.KOI8R,
	"KOI8U":      charmap.KOI8U,
	"DOS437":     charmap.CodePage437,
	"DOS850":     charmap.CodePage850,
	"DOS852":     charmap.CodePage852,
	"DOS858":     charmap.CodePage858,
	"DOS860":     charmap.CodePage860,
	"DOS862":     charmap.CodePage862,
	"DOS863":     charmap.CodePage863,
	"DOS865":     charmap.CodePage865,
	"DOS866":     charmap.CodePage866,
	"SJIS_0208":  japanese.ShiftJIS,
	"EUCJ_0208":  japanese.EUCJP,
	"GB_2312":    simplifiedchinese.GBK,
	"GBK":        simplifiedchinese.GBK,
	"GB18030":    simplifiedchinese.GB18030,
	"KSC_5601":   korean.EUCKR,
	"BIG_5":      traditionalchinese.Big5,
}

type charset struct {
	name string
	enc  encoding.Encoding
}

func lookupCharset(name string) *charset {
	name = strings.ToUpper(name)
	return &charset{name: name, enc: charsetEncodings[name]}
}

func (cs *charset) encode(s string) ([]byte, error) {
	if cs == nil || cs.enc == nil {
		return str_to_bytes(s), nil
	}
	return cs.enc.NewEncoder().Bytes(str_to_bytes(s))
}

func (cs *charset) decode(b []byte) (string, error) {
	if cs == nil || cs.enc == nil {
		return bytes_to_str(b), nil
	}
	d, err := cs.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return bytes_to_str(d), nil
}
