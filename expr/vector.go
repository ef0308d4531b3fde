package expr

// Dot returns the scalar product of two vectors of equal length.
func Dot(a, b Expr) Expr {
	va, vb := asVecs(a, b, "dot")
	terms := make([]Expr, va.Len())
	for i := range terms {
		terms[i] = NewMul(va.elems[i], vb.elems[i])
	}
	return NewAdd(terms...)
}

// Cross returns the cross product of two 3-vectors.
func Cross(a, b Expr) Expr {
	va, vb := asVecs(a, b, "cross")
	if va.Len() != 3 {
		throwShape("cross product of %d-vectors", va.Len())
	}
	x, y := va.elems, vb.elems
	return NewVec(
		Sub(NewMul(x[1], y[2]), NewMul(x[2], y[1])),
		Sub(NewMul(x[2], y[0]), NewMul(x[0], y[2])),
		Sub(NewMul(x[0], y[1]), NewMul(x[1], y[0])),
	)
}

// Norm returns the Euclidean norm of a vector, or the absolute value of a
// scalar.
func Norm(a Expr) Expr {
	v, ok := a.(*Vec)
	if !ok {
		return NewFunc("abs", a)
	}
	terms := make([]Expr, v.Len())
	for i, e := range v.elems {
		terms[i] = NewPow(e, Int(2))
	}
	return Sqrt(NewAdd(terms...))
}

func asVecs(a, b Expr, op string) (*Vec, *Vec) {
	va, ok1 := a.(*Vec)
	vb, ok2 := b.(*Vec)
	if !ok1 || !ok2 {
		throwShape("%s requires two vectors", op)
	}
	if va.Len() != vb.Len() {
		throwShape("%s of %d-vector and %d-vector", op, va.Len(), vb.Len())
	}
	return va, vb
}
