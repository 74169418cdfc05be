package conditions

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

// Mask is the compiled form of one step's conditions. The four fields are pairwise disjoint.
type Mask struct {
	One, Zero, Copy, CopyNot uint32
}

// Bits returns every bit the mask constrains.
func (m Mask) Bits() uint32 { return m.One | m.Zero | m.Copy | m.CopyNot }

// Relative returns the bits that depend on the previous chaining variable.
func (m Mask) Relative() uint32 { return m.Copy | m.CopyNot }

// Apply forces value to satisfy m, where ref is the previous chaining variable.
func (m Mask) Apply(value, ref uint32) uint32 {
	value = value&^m.Zero | m.One
	value = value&^m.Copy | ref&m.Copy
	return value&^m.CopyNot | ^ref&m.CopyNot
}

// Satisfied reports whether value already meets m relative to ref.
func (m Mask) Satisfied(value, ref uint32) bool {
	return value&m.Zero == 0 && value&m.One == m.One &&
		(value^ref)&m.Copy == 0 && (value^^ref)&m.CopyNot == 0
}

// Back adjusts ref, the previous chaining variable, so that value meets the relative part of m.
// It is used when a chaining variable is chosen after its successor.
func (m Mask) Back(ref, value uint32) uint32 {
	ref = ref&^m.Copy | value&m.Copy
	return ref&^m.CopyNot | ^value&m.CopyNot
}

// Apply forces value to satisfy conds relative to ref. Conditions address disjoint bits, so the
// order they are applied in does not matter.
func Apply(value, ref uint32, conds []Condition) uint32 {
	for _, c := range conds {
		bit := uint32(1) << c.Bit
		switch c.Kind {
		case ForceZero:
			value &^= bit
		case ForceOne:
			value |= bit
		case Copy:
			value = value&^bit | ref&bit
		case CopyNot:
			value = value&^bit | ^ref&bit
		}
	}
	return value
}

// Satisfied reports whether value meets every condition in conds relative to ref.
func Satisfied(value, ref uint32, conds []Condition) bool {
	for _, c := range conds {
		v, r := value>>c.Bit&1, ref>>c.Bit&1
		switch c.Kind {
		case ForceZero:
			if v != 0 {
				return false
			}
		case ForceOne:
			if v != 1 {
				return false
			}
		case Copy:
			if v != r {
				return false
			}
		case CopyNot:
			if v == r {
				return false
			}
		}
	}
	return true
}
