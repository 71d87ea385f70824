// Package xkb parses the xkb_v1 text keymaps that compositors hand to
// clients over wl_keyboard. Only the parts needed to translate
// keycodes to keysyms are understood: keycode names, key symbol
// lists, and group names. Types, compat rules, and virtual modifier
// wiring are skipped over structurally.
package xkb

import (
	"fmt"
	"strconv"
	"strings"
)

// Standard real modifier bits as reported by wl_keyboard.modifiers.
const (
	ModShift   = 1 << 0
	ModLock    = 1 << 1
	ModControl = 1 << 2
	ModAlt     = 1 << 3 // Mod1
	ModNum     = 1 << 4 // Mod2
	ModLogo    = 1 << 6 // Mod4
)

// Keymap is a parsed keymap for the first group.
type Keymap struct {
	syms      map[uint32][]Keysym
	minCode   uint32
	maxCode   uint32
	groupName string
}

// GroupName returns the human-readable name of the first group, e.g.
// "English (US)".
func (km *Keymap) GroupName() string { return km.groupName }

// Syms returns the per-level keysyms bound to an xkb keycode, or nil
// if the keycode is unbound.
func (km *Keymap) Syms(code uint32) []Keysym { return km.syms[code] }

// Sym returns the keysym at the given shift level for a keycode,
// falling back to level 0 when the requested level is unbound.
func (km *Keymap) Sym(code uint32, level int) Keysym {
	syms := km.syms[code]
	if len(syms) == 0 {
		return NoSymbol
	}
	if level >= len(syms) || syms[level] == NoSymbol {
		level = 0
	}
	return syms[level]
}

// Range returns the lowest and highest bound keycodes.
func (km *Keymap) Range() (min, max uint32) { return km.minCode, km.maxCode }

// Parse parses an xkb_v1 keymap in text form.
func Parse(data []byte) (*Keymap, error) {
	p := parser{toks: tokenize(string(data))}
	if !p.expect("xkb_keymap") || !p.expect("{") {
		return nil, fmt.Errorf("parse keymap: missing xkb_keymap block")
	}

	codes := make(map[string]uint32)
	aliases := make(map[string]string)
	km := &Keymap{syms: make(map[uint32][]Keysym)}
	var rawSyms map[string][]Keysym

	for {
		tok, ok := p.next()
		if !ok {
			return nil, fmt.Errorf("parse keymap: unexpected end of input")
		}
		switch tok {
		case "}":
			goto done
		case "xkb_keycodes":
			if err := p.parseKeycodes(codes, aliases); err != nil {
				return nil, err
			}
		case "xkb_symbols":
			var err error
			rawSyms, km.groupName, err = p.parseSymbols()
			if err != nil {
				return nil, err
			}
		case "xkb_types", "xkb_compatibility", "xkb_geometry":
			if err := p.skipBlock(); err != nil {
				return nil, err
			}
		}
	}

done:
	if rawSyms == nil {
		return nil, fmt.Errorf("parse keymap: no xkb_symbols section")
	}
	for name, syms := range rawSyms {
		code, ok := codes[name]
		if !ok {
			if target, isAlias := aliases[name]; isAlias {
				code, ok = codes[target]
			}
		}
		if !ok {
			continue
		}
		km.syms[code] = syms
		if km.minCode == 0 || code < km.minCode {
			km.minCode = code
		}
		if code > km.maxCode {
			km.maxCode = code
		}
	}
	return km, nil
}

type parser struct {
	toks []string
	pos  int
}

func (p *parser) next() (string, bool) {
	if p.pos >= len(p.toks) {
		return "", false
	}
	tok := p.toks[p.pos]
	p.pos++
	return tok, true
}

func (p *parser) peek() string {
	if p.pos >= len(p.toks) {
		return ""
	}
	return p.toks[p.pos]
}

func (p *parser) expect(want string) bool {
	for {
		tok, ok := p.next()
		if !ok {
			return false
		}
		if tok == want {
			return true
		}
		// Skip section flags and quoted names before the block opener.
		if want == "{" && (tok[0] == '"' || isIdent(tok)) {
			continue
		}
		return false
	}
}

// skipBlock consumes a balanced { ... } block, including the opener.
func (p *parser) skipBlock() error {
	if !p.expect("{") {
		return fmt.Errorf("parse keymap: expected block")
	}
	depth := 1
	for depth > 0 {
		tok, ok := p.next()
		if !ok {
			return fmt.Errorf("parse keymap: unterminated block")
		}
		switch tok {
		case "{":
			depth++
		case "}":
			depth--
		}
	}
	return nil
}

func (p *parser) parseKeycodes(codes map[string]uint32, aliases map[string]string) error {
	if !p.expect("{") {
		return fmt.Errorf("parse keymap: malformed xkb_keycodes")
	}
	for {
		tok, ok := p.next()
		if !ok {
			return fmt.Errorf("parse keymap: unterminated xkb_keycodes")
		}
		switch {
		case tok == "}":
			return nil
		case tok == "alias":
			name, _ := p.next()
			if eq, _ := p.next(); eq != "=" {
				continue
			}
			target, _ := p.next()
			aliases[name] = target
		case len(tok) > 2 && tok[0] == '<':
			if eq := p.peek(); eq != "=" {
				continue
			}
			p.next()
			num, _ := p.next()
			code, err := strconv.ParseUint(num, 10, 32)
			if err == nil {
				codes[tok] = uint32(code)
			}
		}
	}
}

func (p *parser) parseSymbols() (map[string][]Keysym, string, error) {
	if !p.expect("{") {
		return nil, "", fmt.Errorf("parse keymap: malformed xkb_symbols")
	}
	syms := make(map[string][]Keysym)
	var groupName string
	for {
		tok, ok := p.next()
		if !ok {
			return nil, "", fmt.Errorf("parse keymap: unterminated xkb_symbols")
		}
		switch {
		case tok == "}":
			return syms, groupName, nil
		case tok == "name":
			// name[group1]= "English (US)";
			for {
				t, ok := p.next()
				if !ok || t == ";" {
					break
				}
				if t[0] == '"' && groupName == "" {
					groupName = strings.Trim(t, `"`)
				}
			}
		case tok == "key":
			name, _ := p.next()
			list, err := p.parseKey()
			if err != nil {
				return nil, "", err
			}
			if len(list) > 0 {
				syms[name] = list
			}
		}
	}
}

// parseKey consumes a key body and returns the first group's symbol
// list. Bodies range from a bare [ a, A ] to full forms with type
// assignments and multiple bracketed groups.
func (p *parser) parseKey() ([]Keysym, error) {
	if !p.expect("{") {
		return nil, fmt.Errorf("parse keymap: malformed key entry")
	}
	var list []Keysym
	depth := 1
	inBrackets := false
	taken := false
	for depth > 0 {
		tok, ok := p.next()
		if !ok {
			return nil, fmt.Errorf("parse keymap: unterminated key entry")
		}
		switch tok {
		case "{":
			depth++
		case "}":
			depth--
		case "[":
			if !taken {
				inBrackets = true
			}
		case "]":
			if inBrackets {
				inBrackets = false
				taken = true
			}
		case ",", ";", "=":
		default:
			if inBrackets {
				if tok == "actions" || strings.HasPrefix(tok, "actions") {
					inBrackets = false
					continue
				}
				list = append(list, SymFromName(tok))
			}
		}
	}
	return list, nil
}

func isIdent(tok string) bool {
	for _, c := range tok {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9', c == '_':
		default:
			return false
		}
	}
	return tok != ""
}

// tokenize splits keymap text into punctuation and word tokens.
// Quoted strings and <bracketed> keycode names stay whole; comments
// run to end of line.
func tokenize(src string) []string {
	var toks []string
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case c == '#':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case c == '{' || c == '}' || c == '[' || c == ']' || c == ',' || c == ';' || c == '=' || c == '(' || c == ')' || c == '+' || c == '!':
			toks = append(toks, string(c))
			i++
		case c == '"':
			j := i + 1
			for j < len(src) && src[j] != '"' {
				j++
			}
			if j < len(src) {
				j++
			}
			toks = append(toks, src[i:j])
			i = j
		case c == '<':
			j := i
			for j < len(src) && src[j] != '>' {
				j++
			}
			if j < len(src) {
				j++
			}
			toks = append(toks, src[i:j])
			i = j
		default:
			j := i
			for j < len(src) && !strings.ContainsRune(" \t\r\n{}[],;=()+!\"<", rune(src[j])) {
				j++
			}
			toks = append(toks, src[i:j])
			i = j
		}
	}
	return toks
}
