package solver

import "math"

// brentRoot refines a root of f inside a sign-change bracket [a,b] using
// Brent's method. Returns the root and true on convergence; callers fall
// back to plain bisection when it reports failure.
func brentRoot(f func(float64) float64, a, b, fa, fb, tol float64, maxIter int) (float64, bool) {
	if fa == 0 {
		return a, true
	}
	if fb == 0 {
		return b, true
	}
	if fa*fb > 0 {
		return 0, false
	}

	if math.Abs(fa) < math.Abs(fb) {
		a, b = b, a
		fa, fb = fb, fa
	}

	c, fc := a, fa
	d := b - a
	e := d

	for i := 0; i < maxIter; i++ {
		if fb == 0 || math.Abs(b-a) < tol {
			return b, true
		}

		var s float64
		if fa != fc && fb != fc {
			// inverse quadratic interpolation
			s = a*fb*fc/((fa-fb)*(fa-fc)) +
				b*fa*fc/((fb-fa)*(fb-fc)) +
				c*fa*fb/((fc-fa)*(fc-fb))
		} else {
			// secant
			s = b - fb*(b-a)/(fb-fa)
		}

		lo, hi := (3*a+b)/4, b
		if lo > hi {
			lo, hi = hi, lo
		}
		bisectInstead := s < lo || s > hi ||
			math.Abs(s-b) >= math.Abs(e)/2 ||
			math.Abs(e) < tol
		if bisectInstead {
			s = (a + b) / 2
			e = d
		} else {
			e = d
		}
		d = math.Abs(s - b)

		fs := f(s)
		c, fc = b, fb
		if fa*fs < 0 {
			b, fb = s, fs
		} else {
			a, fa = s, fs
		}
		if math.Abs(fa) < math.Abs(fb) {
			a, b = b, a
			fa, fb = fb, fa
		}
	}

	return b, math.Abs(fb) < tol*10
}

// bisect narrows a sign-change bracket by plain bisection. It always
// returns a longitude; convergence is bounded by maxIter halvings.
func bisect(f func(float64) float64, a, b, fa, fb, tol float64, maxIter int) float64 {
	if fa == 0 {
		return a
	}
	if fb == 0 {
		return b
	}
	for i := 0; i < maxIter; i++ {
		m := (a + b) / 2
		fm := f(m)
		if math.Abs(fm) < tol || (b-a)/2 < tol {
			return m
		}
		if fa*fm <= 0 {
			b, fb = m, fm
		} else {
			a, fa = m, fm
		}
	}
	return (a + b) / 2
}

// refineBracket runs Brent and falls back to bisection when it fails to
// converge inside the iteration budget.
func refineBracket(f func(float64) float64, a, b, tol float64, maxIter int) float64 {
	fa, fb := f(a), f(b)
	if root, ok := brentRoot(f, a, b, fa, fb, tol, maxIter); ok {
		return root
	}
	return bisect(f, a, b, fa, fb, tol, maxIter+20)
}
