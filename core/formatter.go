package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidNumberFormat = errors.New("invalid number format pattern")
	ErrInvalidDateFormat   = errors.New("invalid date format pattern")
)

// fieldFormatter turns raw source values into their text form. It is
// compiled once per conversion from the configured patterns; it never
// quotes or escapes, that is the encoder's job.
type fieldFormatter struct {
	number     *numberPattern
	dateLayout string
}

func newFieldFormatter(cfg *config) (*fieldFormatter, error) {
	np, err := compileNumberPattern(cfg.numberFormat)
	if err != nil {
		return nil, err
	}

	layout, err := compileDateLayout(cfg.dateFormat)
	if err != nil {
		return nil, err
	}

	return &fieldFormatter{number: np, dateLayout: layout}, nil
}

// format produces the text form of a single value. Nil values format
// to the empty string regardless of kind.
func (f *fieldFormatter) format(value any, col *Column) (string, error) {
	if value == nil {
		return "", nil
	}

	var (
		out string
		err error
	)
	switch col.Kind {
	case KindNumeric:
		out, err = f.formatNumber(value)
	case KindTemporal:
		out, err = f.formatTemporal(value)
	default:
		out = toText(value)
	}
	if err != nil {
		return "", fmt.Errorf("column %d (%s): %w", col.Position, col.Name, err)
	}

	return out, nil
}

func toText(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func (f *fieldFormatter) formatNumber(value any) (string, error) {
	switch v := value.(type) {
	case int:
		return f.number.formatInt(int64(v)), nil
	case int8:
		return f.number.formatInt(int64(v)), nil
	case int16:
		return f.number.formatInt(int64(v)), nil
	case int32:
		return f.number.formatInt(int64(v)), nil
	case int64:
		return f.number.formatInt(v), nil
	case uint:
		return f.number.formatUint(uint64(v)), nil
	case uint8:
		return f.number.formatUint(uint64(v)), nil
	case uint16:
		return f.number.formatUint(uint64(v)), nil
	case uint32:
		return f.number.formatUint(uint64(v)), nil
	case uint64:
		return f.number.formatUint(v), nil
	case float32:
		return f.number.formatFloat(float64(v)), nil
	case float64:
		return f.number.formatFloat(v), nil
	case string:
		return f.numberFromString(v)
	case []byte:
		return f.numberFromString(string(v))
	default:
		return "", fmt.Errorf("cannot format %T as a number", value)
	}
}

// numberFromString handles drivers that report numerics as text, for
// example DECIMAL columns scanned into []byte.
func (f *fieldFormatter) numberFromString(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return f.number.formatInt(i), nil
	}

	// integer strings beyond MaxInt64 must not degrade to float64
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return f.number.formatUint(u), nil
	}

	fl, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return "", fmt.Errorf("cannot format %q as a number", s)
	}
	return f.number.formatFloat(fl), nil
}

// temporalLayouts are tried in order for sources that report temporal
// values as text (sqlite stores them that way).
var temporalLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"15:04:05",
}

func (f *fieldFormatter) formatTemporal(value any) (string, error) {
	switch v := value.(type) {
	case time.Time:
		return v.Format(f.dateLayout), nil
	case string:
		return f.temporalFromString(v)
	case []byte:
		return f.temporalFromString(string(v))
	default:
		return "", fmt.Errorf("cannot format %T as a timestamp", value)
	}
}

func (f *fieldFormatter) temporalFromString(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}

	for _, layout := range temporalLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(f.dateLayout), nil
		}
	}

	return "", fmt.Errorf("cannot format %q as a timestamp", s)
}

// numberPattern is a compiled picture pattern like "$#,##0.00":
// optional literal prefix and suffix, '#' and '0' digit slots, ','
// grouping in the integer part and '.' starting the fraction part.
type numberPattern struct {
	prefix   string
	suffix   string
	grouping bool
	minInt   int
	minFrac  int
	maxFrac  int
}

// canonical is the zero pattern: trimmed strconv representation with
// no padding and no grouping.
func (p *numberPattern) canonical() bool {
	return p == nil
}

func compileNumberPattern(pattern string) (*numberPattern, error) {
	if pattern == "" {
		return nil, nil
	}

	np := &numberPattern{maxFrac: -1}

	// digit section boundaries
	first := strings.IndexAny(pattern, "#0")
	last := strings.LastIndexAny(pattern, "#0")
	if first < 0 {
		return nil, fmt.Errorf("%w: %q has no digit placeholders", ErrInvalidNumberFormat, pattern)
	}

	np.prefix = pattern[:first]
	np.suffix = pattern[last+1:]
	digits := pattern[first : last+1]

	intPart := digits
	if dot := strings.IndexByte(digits, '.'); dot >= 0 {
		intPart = digits[:dot]
		frac := digits[dot+1:]

		np.maxFrac = 0
		for _, r := range frac {
			switch r {
			case '0':
				np.minFrac++
				np.maxFrac++
			case '#':
				np.maxFrac++
			default:
				return nil, fmt.Errorf("%w: unexpected %q in fraction part of %q", ErrInvalidNumberFormat, r, pattern)
			}
		}
		// required digits must precede optional ones: "0.0##" is
		// valid, "0.#0" is not
		if strings.Contains(frac, "#0") {
			return nil, fmt.Errorf("%w: '0' after '#' in fraction part of %q", ErrInvalidNumberFormat, pattern)
		}
	}

	for _, r := range intPart {
		switch r {
		case '0':
			np.minInt++
		case '#':
		case ',':
			np.grouping = true
		default:
			return nil, fmt.Errorf("%w: unexpected %q in integer part of %q", ErrInvalidNumberFormat, r, pattern)
		}
	}

	return np, nil
}

func (p *numberPattern) formatInt(v int64) string {
	if p.canonical() {
		return strconv.FormatInt(v, 10)
	}

	neg := v < 0
	digits := strconv.FormatInt(v, 10)
	if neg {
		digits = digits[1:]
	}

	return p.assemble(neg, digits, "")
}

func (p *numberPattern) formatUint(v uint64) string {
	if p.canonical() {
		return strconv.FormatUint(v, 10)
	}

	return p.assemble(false, strconv.FormatUint(v, 10), "")
}

func (p *numberPattern) formatFloat(v float64) string {
	if p.canonical() {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	// a pattern without a fraction part rounds to an integer
	prec := p.maxFrac
	if prec < 0 {
		prec = 0
	}
	s := strconv.FormatFloat(v, 'f', prec, 64)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intDigits, fracDigits := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intDigits, fracDigits = s[:dot], s[dot+1:]
	}

	// drop optional trailing fraction digits that are zero
	for len(fracDigits) > p.minFrac && strings.HasSuffix(fracDigits, "0") {
		fracDigits = fracDigits[:len(fracDigits)-1]
	}

	return p.assemble(neg, intDigits, fracDigits)
}

func (p *numberPattern) assemble(neg bool, intDigits, fracDigits string) string {
	for len(intDigits) < p.minInt {
		intDigits = "0" + intDigits
	}
	if p.grouping {
		intDigits = groupThousands(intDigits)
	}
	for len(fracDigits) < p.minFrac {
		fracDigits += "0"
	}

	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	sb.WriteString(p.prefix)
	sb.WriteString(intDigits)
	if len(fracDigits) > 0 {
		sb.WriteByte('.')
		sb.WriteString(fracDigits)
	}
	sb.WriteString(p.suffix)

	return sb.String()
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var sb strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		sb.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(digits[i : i+3])
	}

	return sb.String()
}

// dateTokens maps pattern tokens to Go reference layout fragments.
// Longer tokens are matched first.
var dateTokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"HH24", "15"},
	{"HH", "03"},
	{"MI", "04"},
	{"SS", "05"},
	{"AM", "PM"},
	{"PM", "PM"},
}

// compileDateLayout translates a token pattern such as "MM/DD/YYYY"
// or "YYYY-MM-DD HH24:MI:SS" into a Go time layout. Non-alphabetic
// characters pass through as literals; an alphabetic run that is not
// a known token is a pattern error.
func compileDateLayout(pattern string) (string, error) {
	if pattern == "" {
		pattern = DefaultDateFormat
	}

	var sb strings.Builder

	for i := 0; i < len(pattern); {
		matched := false
		for _, tok := range dateTokens {
			if strings.HasPrefix(pattern[i:], tok.token) {
				sb.WriteString(tok.layout)
				i += len(tok.token)
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		c := pattern[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			return "", fmt.Errorf("%w: unknown token at %q", ErrInvalidDateFormat, pattern[i:])
		}
		sb.WriteByte(c)
		i++
	}

	return sb.String(), nil
}
