package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanner_Operand(t *testing.T) {
	tests := []struct {
		src       string
		sign      string
		literal   string
		constants string
		marker    string
		length    int
	}{
		{"42", "", "42", "", "", 2},
		{"  -- 4.5 + 1", "--", "4.5", "", "", 8},
		{"2.5pipiπ", "", "2.5", "pipiπ", "", len("2.5pipiπ")},
		{"---pi", "---", "", "pi", "", 5},
		{"e^3", "", "", "e", "^", 2},
		{"3√27", "", "3", "", "√", len("3√")},
		{"2,6", "", "2,6", "", "", 3},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			s := scanner{src: tt.src}
			tok, ok := s.operand()
			require.True(t, ok)
			assert.Equal(t, tokNumber, tok.kind)
			assert.Equal(t, tt.sign, tok.sign)
			assert.Equal(t, tt.literal, tok.literal)
			assert.Equal(t, tt.constants, tok.constants)
			assert.Equal(t, tt.marker, tok.marker)
			assert.Equal(t, tt.length, tok.length)
		})
	}
}

func TestScanner_MatchingDoesNotAdvance(t *testing.T) {
	s := scanner{src: " 12 + 3"}

	_, ok := s.operand()
	require.True(t, ok)
	assert.Equal(t, 0, s.pos)

	tok, _ := s.operand()
	s.advance(tok)
	assert.Equal(t, 3, s.pos)

	op, ok := s.operator()
	require.True(t, ok)
	assert.Equal(t, byte('+'), op.op)
	assert.False(t, op.priority)
}

func TestScanner_Function(t *testing.T) {
	tests := []struct {
		src       string
		name      string
		needsBase bool
	}{
		{"log2(8)", "log", true},
		{" ln(5)", "ln", false},
		{"cosin(1)", "cosin", false},
		{"cocos(1)", "cocos", false},
		{"cotan(1)", "cotan", false},
		{"cos(1)", "cos", false},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			s := scanner{src: tt.src}
			tok, ok := s.function()
			require.True(t, ok)
			assert.Equal(t, tt.name, tok.name)
			assert.Equal(t, tt.needsBase, tok.needsBase)
		})
	}
}

func TestScanner_Factorial(t *testing.T) {
	s := scanner{src: "-4! + 1"}
	tok, ok := s.factorial()
	require.True(t, ok)
	assert.Equal(t, "-", tok.sign)
	assert.Equal(t, "4", tok.literal)
	assert.Equal(t, 3, tok.length)

	s = scanner{src: "12 !"}
	_, ok = s.factorial()
	assert.False(t, ok)
}

func TestScanner_OperatorKinds(t *testing.T) {
	for _, src := range []string{"*", " /", "%"} {
		s := scanner{src: src}
		tok, ok := s.operator()
		require.True(t, ok, src)
		assert.True(t, tok.priority, src)
	}

	s := scanner{src: "^2"}
	_, ok := s.operator()
	assert.False(t, ok)
}

func TestScanner_BaseRequiresNoWhitespace(t *testing.T) {
	s := scanner{src: " 2(5)"}
	_, ok := s.base()
	assert.False(t, ok)

	s = scanner{src: "-2(5)"}
	tok, ok := s.base()
	require.True(t, ok)
	assert.Equal(t, "-", tok.sign)
}
