package lambdacalc

import (
	"strconv"
	"unicode"
)

// typeFrame is one level of the type parser's stack. The top level has no
// open bracket.
type typeFrame struct {
	// open is the position of the '<' that started the frame, or 0.
	open int
	// slots hold the types seen before and after the comma. Adjacent atomic
	// types accumulate in a slot and form a short composite when reduced.
	slots [2][]Type
	// start is the position of the first type in each slot.
	start [2]int
	// comma indicates the frame's comma has been seen.
	comma bool
	// star is the position of a pending product sign, or 0.
	star int
	// prod indicates the last type in the current slot was built by a
	// product sign and may accrete further components.
	prod bool
}

func (f *typeFrame) slot() int {
	if f.comma {
		return 1
	}
	return 0
}

// add appends a completed type at pos to the current slot, accreting it onto
// the previous type if a product sign is pending.
func (f *typeFrame) add(t Type, pos int) {
	k := f.slot()
	if f.star != 0 {
		s := f.slots[k]
		last := s[len(s)-1]
		if p, ok := last.(*Product); ok && f.prod {
			s[len(s)-1] = &Product{subs: append(append([]Type(nil), p.subs...), t)}
		} else {
			s[len(s)-1] = NewProduct(last, t)
		}
		f.star = 0
		f.prod = true
		return
	}
	if len(f.slots[k]) == 0 {
		f.start[k] = pos
	}
	f.slots[k] = append(f.slots[k], t)
	f.prod = false
}

// ParseType parses a type such as "e", "<e,t>", "et", "<e,et>", or "<e*e,t>".
// Lower case letters are atomic types and upper case letters are unification
// variables. Two adjacent atomic types abbreviate the composite type between
// them; three or more are ambiguous. Whitespace is ignored.
func ParseType(src string) (Type, error) {
	stack := []*typeFrame{{}}
	pos := 0
	for _, r := range src {
		pos++
		f := stack[len(stack)-1]
		switch {
		case unicode.IsSpace(r):
			// do nothing
		case unicode.IsLetter(r):
			var t Type
			if unicode.IsUpper(r) {
				t = NewTypeVar(r)
			} else {
				t = NewAtomic(r)
			}
			f.add(t, pos)
		case r == '*', r == '×':
			if f.star != 0 {
				return nil, typeErr(pos, "repeated product sign")
			}
			if len(f.slots[f.slot()]) == 0 {
				return nil, typeErr(pos, "product sign with no type before it")
			}
			f.star = pos
		case r == '<':
			stack = append(stack, &typeFrame{open: pos})
		case r == ',':
			if len(stack) == 1 {
				return nil, typeErr(pos, "comma outside angle brackets")
			}
			if f.comma {
				return nil, typeErr(pos, "too many commas")
			}
			if f.star != 0 {
				return nil, typeErr(f.star, "product sign with no type after it")
			}
			if len(f.slots[0]) == 0 {
				return nil, typeErr(pos, "missing type before comma")
			}
			f.comma = true
			f.prod = false
		case r == '>':
			if len(stack) == 1 {
				return nil, typeErr(pos, "close bracket > with no open bracket")
			}
			if f.star != 0 {
				return nil, typeErr(f.star, "product sign with no type after it")
			}
			t, err := f.reduce(pos)
			if err != nil {
				return nil, err
			}
			stack = stack[:len(stack)-1]
			stack[len(stack)-1].add(t, f.open)
		default:
			return nil, typeErr(pos, "invalid character "+strconv.QuoteRune(r)+" in type")
		}
	}
	f := stack[len(stack)-1]
	if len(stack) > 1 {
		return nil, typeErr(f.open, "open bracket < with no close bracket")
	}
	if f.star != 0 {
		return nil, typeErr(f.star, "product sign with no type after it")
	}
	if len(f.slots[0]) == 0 {
		return nil, typeErr(pos+1, "no type")
	}
	return reduceSlot(f.slots[0], f.start[0])
}

// reduce completes a bracketed frame closed at pos.
func (f *typeFrame) reduce(pos int) (Type, error) {
	if !f.comma {
		if len(f.slots[0]) == 0 {
			return nil, typeErr(pos, "empty angle brackets")
		}
		// <et> is the same as et.
		t, err := reduceSlot(f.slots[0], f.start[0])
		if err != nil {
			return nil, err
		}
		if _, ok := t.(*Composite); !ok {
			return nil, typeErr(pos, "missing comma in composite type")
		}
		return t, nil
	}
	if len(f.slots[1]) == 0 {
		return nil, typeErr(pos, "missing type after comma")
	}
	l, err := reduceSlot(f.slots[0], f.start[0])
	if err != nil {
		return nil, err
	}
	r, err := reduceSlot(f.slots[1], f.start[1])
	if err != nil {
		return nil, err
	}
	return NewComposite(l, r), nil
}

// reduceSlot turns the adjacent types in a slot into one type.
func reduceSlot(s []Type, pos int) (Type, error) {
	switch len(s) {
	case 1:
		return s[0], nil
	case 2:
		if !simpleType(s[0]) || !simpleType(s[1]) {
			return nil, typeErr(pos, "adjacent types need angle brackets and a comma")
		}
		return NewComposite(s[0], s[1]), nil
	default:
		return nil, typeErr(pos, "ambiguous sequence of adjacent types")
	}
}

func typeErr(pos int, msg string) error {
	return &TypeSyntaxError{Col: pos, Msg: msg}
}

// MustParseType is like ParseType but panics on error. It simplifies
// declaring typing conventions.
func MustParseType(src string) Type {
	t, err := ParseType(src)
	if err != nil {
		panic("lambdacalc: " + err.Error())
	}
	return t
}
