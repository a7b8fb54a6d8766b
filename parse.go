package gtarray

import (
	"strconv"
	"strings"
)

// Parser reads and writes the textual genotype notation:
//
//	<tok><sep><tok>...
//
// where each tok is an allele symbol, an allele index, or the missing token,
// and sep is UnphasedSep or PhasedSep. All separators in one call must
// agree. The number of toks is the ploidy.
type Parser struct {
	MissingToken string
	UnphasedSep  string
	PhasedSep    string
}

var defaultParser = &Parser{MissingToken: ".", UnphasedSep: "/", PhasedSep: "|"}

// DefaultParser returns a copy of the default notation: "." for missing, "/"
// for unphased and "|" for phased calls.
func DefaultParser() Parser {
	return *defaultParser
}

// Parse reads raw against set using the default notation. ploidy is the
// required number of allele slots. The bare missing token "." becomes a
// missing call of that ploidy, so it renders back as "./." at ploidy 2.
func Parse(raw string, set *AlleleSet, ploidy int) (Genotype, error) {
	return defaultParser.Parse(raw, set, ploidy)
}

type tokenKind uint8

const (
	tokenAllele tokenKind = iota
	tokenIndex
	tokenMissing
)

type token struct {
	kind  tokenKind
	text  string
	index int
}

// call is the result of tokenizing one raw genotype, before allele symbols
// have been resolved against an allele set.
type call struct {
	tokens []token
	phased bool
}

func (c call) missing() bool {
	for _, t := range c.tokens {
		if t.kind != tokenMissing {
			return false
		}
	}
	return true
}

// tokenize splits raw on the separators and classifies each token. It
// does not know the allele set, so symbols stay unresolved.
func (p *Parser) tokenize(raw string) (call, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return call{}, &MalformedGenotypeError{Raw: raw, Reason: "empty genotype"}
	}
	if s == p.MissingToken {
		return call{tokens: []token{{kind: tokenMissing, text: s}}}, nil
	}

	var c call
	sawUnphased, sawPhased := false, false
	for {
		cut, sepLen, phased := p.nextSeparator(s)
		text := s
		if cut >= 0 {
			text = s[:cut]
		}
		tok, err := p.classify(raw, text)
		if err != nil {
			return call{}, err
		}
		c.tokens = append(c.tokens, tok)
		if cut < 0 {
			break
		}
		if phased {
			sawPhased = true
		} else {
			sawUnphased = true
		}
		s = s[cut+sepLen:]
	}
	if sawPhased && sawUnphased {
		return call{}, &MalformedGenotypeError{Raw: raw, Reason: "mixes phased and unphased separators"}
	}
	c.phased = sawPhased
	return c, nil
}

// nextSeparator finds the first separator in s.
func (p *Parser) nextSeparator(s string) (cut, size int, phased bool) {
	u := strings.Index(s, p.UnphasedSep)
	ph := strings.Index(s, p.PhasedSep)
	switch {
	case u < 0 && ph < 0:
		return -1, 0, false
	case ph < 0 || (u >= 0 && u < ph):
		return u, len(p.UnphasedSep), false
	}
	return ph, len(p.PhasedSep), true
}

func (p *Parser) classify(raw, text string) (token, error) {
	switch {
	case text == "":
		return token{}, &MalformedGenotypeError{Raw: raw, Reason: "empty allele token"}
	case text == p.MissingToken:
		return token{kind: tokenMissing, text: text}, nil
	case isDigits(text):
		i, err := strconv.Atoi(text)
		if err != nil {
			return token{}, &MalformedGenotypeError{Raw: raw, Reason: "allele index " + text + " does not fit an int"}
		}
		return token{kind: tokenIndex, text: text, index: i}, nil
	case validAllele(text):
		return token{kind: tokenAllele, text: text}, nil
	}
	return token{}, &MalformedGenotypeError{Raw: raw, Reason: "unparsable allele token " + strconv.Quote(text)}
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// Parse reads raw against set. The call must have exactly ploidy allele
// slots; a call whose slots are all missing, or the bare missing token, is
// Missing. The bare token takes on the requested ploidy and is rendered
// with one placeholder per slot. Partially missing calls are rejected
// rather than silently dropped or half-called.
func (p *Parser) Parse(raw string, set *AlleleSet, ploidy int) (Genotype, error) {
	c, err := p.tokenize(raw)
	if err != nil {
		return Genotype{}, err
	}
	return p.resolve(raw, c, set, ploidy)
}

func (p *Parser) resolve(raw string, c call, set *AlleleSet, ploidy int) (Genotype, error) {
	if len(c.tokens) == 1 && c.tokens[0].kind == tokenMissing {
		return Genotype{ploidy: ploidy, phased: c.phased}, nil
	}
	if len(c.tokens) != ploidy {
		return Genotype{}, &MalformedGenotypeError{
			Raw:    raw,
			Reason: "has " + strconv.Itoa(len(c.tokens)) + " alleles, expected ploidy " + strconv.Itoa(ploidy),
		}
	}
	if c.missing() {
		return Genotype{ploidy: ploidy, phased: c.phased}, nil
	}

	indices := make([]int, len(c.tokens))
	for i, t := range c.tokens {
		switch t.kind {
		case tokenMissing:
			return Genotype{}, &MalformedGenotypeError{Raw: raw, Reason: "partially missing calls are not supported"}
		case tokenIndex:
			if t.index >= set.Len() {
				return Genotype{}, &MalformedGenotypeError{
					Raw:    raw,
					Reason: "allele index " + t.text + " not in allele set " + set.String(),
				}
			}
			indices[i] = t.index
		case tokenAllele:
			idx, ok := set.Index(Allele(t.text))
			if !ok {
				return Genotype{}, &UnknownAlleleError{Raw: raw, Allele: t.text, Set: set}
			}
			indices[i] = idx
		}
	}
	return Genotype{indices: indices, phased: c.phased, ploidy: ploidy}, nil
}

// ToSymbols renders g with the alleles of set.
func (p *Parser) ToSymbols(g Genotype, set *AlleleSet) string {
	return p.format(g, func(i int) string {
		if i < 0 || i >= set.Len() {
			return p.MissingToken
		}
		return string(set.At(i))
	})
}

func (p *Parser) format(g Genotype, name func(int) string) string {
	sep := p.UnphasedSep
	if g.phased {
		sep = p.PhasedSep
	}
	if g.IsMissing() {
		n := g.ploidy
		if n < 1 {
			return p.MissingToken
		}
		return strings.TrimSuffix(strings.Repeat(p.MissingToken+sep, n), sep)
	}
	var b strings.Builder
	for i, idx := range g.indices {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(name(idx))
	}
	return b.String()
}
