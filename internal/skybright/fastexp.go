package skybright

const ln10 = 2.302585092994046

// FastExp approximates math.Exp by squaring a first-order Taylor term ten
// times: (1 + x/1024)^1024. The result always undershoots the true value by
// a relative error of roughly x²/2048, i.e. under 6% for |x| ≤ 11 and under
// 20% for |x| ≤ 20, and is never negative. The query path trades that
// accuracy for avoiding math.Exp on every term; validation can substitute
// the exact function.
func FastExp(x float64) float64 {
	x = 1 + x/1024
	x *= x
	x *= x
	x *= x
	x *= x
	x *= x
	x *= x
	x *= x
	x *= x
	x *= x
	x *= x
	return x
}

// FastExp10 is FastExp in base 10.
func FastExp10(x float64) float64 {
	return FastExp(x * ln10)
}
