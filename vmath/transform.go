package vmath

// Transform is a rigid transform: rotate, then translate
type Transform struct {
	Translation Vec3
	Rotation    Quat
}

// TIdentity returns the identity transform
func TIdentity() Transform {
	return Transform{Rotation: QIdentity()}
}

// TFromTranslation builds a pure translation
func TFromTranslation(v Vec3) Transform {
	return Transform{Translation: v, Rotation: QIdentity()}
}

// TMul composes transforms: (a∘b) applies b first, then a
func TMul(a, b Transform) Transform {
	return Transform{
		Translation: V3Add(a.Translation, QRotate(a.Rotation, b.Translation)),
		Rotation:    QMul(a.Rotation, b.Rotation),
	}
}

// TApply maps a point through the transform
func TApply(t Transform, p Vec3) Vec3 {
	return V3Add(t.Translation, QRotate(t.Rotation, p))
}

// TInverse returns the inverse rigid transform
func TInverse(t Transform) Transform {
	inv := QConjugate(t.Rotation)
	return Transform{
		Translation: V3Neg(QRotate(inv, t.Translation)),
		Rotation:    inv,
	}
}
