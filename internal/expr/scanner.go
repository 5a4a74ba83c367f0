package expr

import "regexp"

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokOperator
	tokOpenParen
	tokCloseParen
	tokFunction
	tokFactorial
	tokBareMarker
)

func (k tokenKind) String() string {
	switch k {
	case tokNumber:
		return "number"
	case tokOperator:
		return "operator"
	case tokOpenParen:
		return "open paren"
	case tokCloseParen:
		return "close paren"
	case tokFunction:
		return "function"
	case tokFactorial:
		return "factorial"
	case tokBareMarker:
		return "bare marker"
	}
	return "unknown"
}

// token is one lexical unit recognised at the cursor. length is the number
// of bytes the unit occupies, leading whitespace included.
type token struct {
	kind   tokenKind
	length int

	// numbers and factorials
	sign      string
	literal   string
	constants string

	// power or root marker bound to the operand
	marker string

	// operators
	op       byte
	priority bool

	// functions
	name      string
	needsBase bool
}

const (
	literalBody  = `\d+(?:[.,]\d+)?`
	constantBody = `(?:pi|π|e)+`
	markerBody   = `[\^ER√]`
	operandBody  = `(?:(?P<sign>[+-]+)\s*)?` +
		`(?:(?P<literal>` + literalBody + `)(?P<constants>` + constantBody + `)?` +
		`|(?P<bare>` + constantBody + `))` +
		`(?P<marker>` + markerBody + `)?`
)

var (
	closeParenPattern = regexp.MustCompile(`^\s*\)`)
	openParenPattern  = regexp.MustCompile(`^\s*\(`)
	argParenPattern   = regexp.MustCompile(`^\(`)
	functionPattern   = regexp.MustCompile(
		`^\s*(?:(?P<base>log)|(?P<plain>cotan|cosin|cocos|tan|sin|cos|ln))`)
	factorialPattern    = regexp.MustCompile(`^\s*(?P<sign>[+-]*)(?P<literal>\d+)!`)
	operandPattern      = regexp.MustCompile(`^\s*` + operandBody)
	basePattern         = regexp.MustCompile(`^` + operandBody)
	markerPattern       = regexp.MustCompile(`^(?P<marker>` + markerBody + `)`)
	rightLiteralPattern = regexp.MustCompile(`^(?P<sign>[+-]*)(?P<literal>` + literalBody + `)`)
	bareMarkerPattern   = regexp.MustCompile(`^\s*(?P<marker>[R√])`)
	operatorPattern     = regexp.MustCompile(`^\s*(?:(?P<additive>[+-])|(?P<priority>[*/%]))`)
)

// scanner walks an immutable source through a byte offset. Matching never
// moves the cursor; callers advance by the reported token length.
type scanner struct {
	src string
	pos int
}

func (s *scanner) rest() string { return s.src[s.pos:] }

func (s *scanner) done() bool { return s.pos >= len(s.src) }

func (s *scanner) advance(t token) { s.pos += t.length }

// match runs an anchored pattern at the cursor and returns a lookup for its
// named groups. ok is false when the group did not take part in the match.
func (s *scanner) match(re *regexp.Regexp) (length int, group func(name string) (string, bool), matched bool) {
	rest := s.rest()
	loc := re.FindStringSubmatchIndex(rest)
	if loc == nil {
		return 0, nil, false
	}

	group = func(name string) (string, bool) {
		i := re.SubexpIndex(name)
		if i < 0 || loc[2*i] < 0 {
			return "", false
		}
		return rest[loc[2*i]:loc[2*i+1]], true
	}
	return loc[1], group, true
}

func (s *scanner) plain(re *regexp.Regexp, kind tokenKind) (token, bool) {
	n, _, ok := s.match(re)
	if !ok {
		return token{}, false
	}
	return token{kind: kind, length: n}, true
}

func (s *scanner) closeParen() (token, bool) { return s.plain(closeParenPattern, tokCloseParen) }

func (s *scanner) openParen() (token, bool) { return s.plain(openParenPattern, tokOpenParen) }

// argParen matches the parenthesis that must follow a function name or its
// base without any whitespace in between.
func (s *scanner) argParen() (token, bool) { return s.plain(argParenPattern, tokOpenParen) }

func (s *scanner) function() (token, bool) {
	n, group, ok := s.match(functionPattern)
	if !ok {
		return token{}, false
	}

	t := token{kind: tokFunction, length: n}
	if name, ok := group("base"); ok {
		t.name, t.needsBase = name, true
	} else {
		t.name, _ = group("plain")
	}
	return t, true
}

func (s *scanner) factorial() (token, bool) {
	n, group, ok := s.match(factorialPattern)
	if !ok {
		return token{}, false
	}

	t := token{kind: tokFactorial, length: n}
	t.sign, _ = group("sign")
	t.literal, _ = group("literal")
	return t, true
}

func (s *scanner) operand() (token, bool) { return s.number(operandPattern) }

// base matches the operand glued to a function name, as in log2(8).
func (s *scanner) base() (token, bool) { return s.number(basePattern) }

func (s *scanner) number(re *regexp.Regexp) (token, bool) {
	n, group, ok := s.match(re)
	if !ok {
		return token{}, false
	}

	t := token{kind: tokNumber, length: n}
	t.sign, _ = group("sign")
	t.literal, _ = group("literal")
	if c, ok := group("constants"); ok {
		t.constants = c
	} else {
		t.constants, _ = group("bare")
	}
	t.marker, _ = group("marker")
	return t, true
}

// marker matches a power or root marker directly at the cursor, used after a
// closing parenthesis.
func (s *scanner) marker() (token, bool) {
	n, group, ok := s.match(markerPattern)
	if !ok {
		return token{}, false
	}
	m, _ := group("marker")
	return token{kind: tokBareMarker, length: n, marker: m}, true
}

// rightLiteral matches the signed literal on the right side of a marker.
func (s *scanner) rightLiteral() (token, bool) {
	n, group, ok := s.match(rightLiteralPattern)
	if !ok {
		return token{}, false
	}

	t := token{kind: tokNumber, length: n}
	t.sign, _ = group("sign")
	t.literal, _ = group("literal")
	return t, true
}

// bareMarker matches a root marker with no left operand, as in R16.
func (s *scanner) bareMarker() (token, bool) {
	n, group, ok := s.match(bareMarkerPattern)
	if !ok {
		return token{}, false
	}
	m, _ := group("marker")
	return token{kind: tokBareMarker, length: n, marker: m}, true
}

func (s *scanner) operator() (token, bool) {
	n, group, ok := s.match(operatorPattern)
	if !ok {
		return token{}, false
	}

	t := token{kind: tokOperator, length: n}
	if op, ok := group("priority"); ok {
		t.op, t.priority = op[0], true
	} else {
		op, _ := group("additive")
		t.op = op[0]
	}
	return t, true
}
