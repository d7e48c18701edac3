package easing

import "math"

// QuadIn accelerates from zero velocity
func QuadIn(t, b, c, d float64) float64 {
	r := t / d
	return c*r*r + b
}

// QuadOut decelerates to zero velocity
func QuadOut(t, b, c, d float64) float64 {
	r := t / d
	return -c*r*(r-2) + b
}

// QuadInOut accelerates until halfway, then decelerates
func QuadInOut(t, b, c, d float64) float64 {
	r := t / (d / 2)
	if r < 1 {
		return c/2*r*r + b
	}
	r--
	return -c/2*(r*(r-2)-1) + b
}

func CubicIn(t, b, c, d float64) float64 {
	r := t / d
	return c*r*r*r + b
}

func CubicOut(t, b, c, d float64) float64 {
	r := t/d - 1
	return c*(r*r*r+1) + b
}

func CubicInOut(t, b, c, d float64) float64 {
	r := t / (d / 2)
	if r < 1 {
		return c/2*r*r*r + b
	}
	r -= 2
	return c/2*(r*r*r+2) + b
}

func QuartIn(t, b, c, d float64) float64 {
	r := t / d
	return c*r*r*r*r + b
}

func QuartOut(t, b, c, d float64) float64 {
	r := t/d - 1
	return -c*(r*r*r*r-1) + b
}

func QuartInOut(t, b, c, d float64) float64 {
	r := t / (d / 2)
	if r < 1 {
		return c/2*r*r*r*r + b
	}
	r -= 2
	return -c/2*(r*r*r*r-2) + b
}

func QuintIn(t, b, c, d float64) float64 {
	r := t / d
	return c*r*r*r*r*r + b
}

func QuintOut(t, b, c, d float64) float64 {
	r := t/d - 1
	return c*(r*r*r*r*r+1) + b
}

func QuintInOut(t, b, c, d float64) float64 {
	r := t / (d / 2)
	if r < 1 {
		return c/2*r*r*r*r*r + b
	}
	r -= 2
	return c/2*(r*r*r*r*r+2) + b
}

func SineIn(t, b, c, d float64) float64 {
	return -c*math.Cos(t/d*(math.Pi/2)) + c + b
}

func SineOut(t, b, c, d float64) float64 {
	return c*math.Sin(t/d*(math.Pi/2)) + b
}

func SineInOut(t, b, c, d float64) float64 {
	return -c/2*(math.Cos(math.Pi*t/d)-1) + b
}

func ExpoIn(t, b, c, d float64) float64 {
	if t == 0 {
		return b
	}
	return c*math.Pow(2, 10*(t/d-1)) + b
}

func ExpoOut(t, b, c, d float64) float64 {
	if t == d {
		return b + c
	}
	return c*(-math.Pow(2, -10*t/d)+1) + b
}

func ExpoInOut(t, b, c, d float64) float64 {
	if t == 0 {
		return b
	}
	if t == d {
		return b + c
	}
	r := t / (d / 2)
	if r < 1 {
		return c/2*math.Pow(2, 10*(r-1)) + b
	}
	r--
	return c/2*(-math.Pow(2, -10*r)+2) + b
}

func CircIn(t, b, c, d float64) float64 {
	r := t / d
	return -c*(math.Sqrt(1-r*r)-1) + b
}

func CircOut(t, b, c, d float64) float64 {
	r := t/d - 1
	return c*math.Sqrt(1-r*r) + b
}

func CircInOut(t, b, c, d float64) float64 {
	r := t / (d / 2)
	if r < 1 {
		return -c/2*(math.Sqrt(1-r*r)-1) + b
	}
	r -= 2
	return c/2*(math.Sqrt(1-r*r)+1) + b
}

// backOvershoot is the classic Penner overshoot constant (10% past the target)
const backOvershoot = 1.70158

// BackIn pulls back past the start before accelerating toward the target
func BackIn(t, b, c, d float64) float64 {
	s := backOvershoot
	r := t / d
	return c*r*r*((s+1)*r-s) + b
}

// BackOut overshoots the target, then settles back
func BackOut(t, b, c, d float64) float64 {
	s := backOvershoot
	r := t/d - 1
	return c*(r*r*((s+1)*r+s)+1) + b
}

func BackInOut(t, b, c, d float64) float64 {
	s := backOvershoot * 1.525
	r := t / (d / 2)
	if r < 1 {
		return c/2*(r*r*((s+1)*r-s)) + b
	}
	r -= 2
	return c/2*(r*r*((s+1)*r+s)+2) + b
}

// ElasticIn oscillates with exponentially growing amplitude into the start
func ElasticIn(t, b, c, d float64) float64 {
	if t == 0 {
		return b
	}
	r := t / d
	if r == 1 {
		return b + c
	}
	p := d * 0.3
	s := p / 4
	r--
	post := c * math.Pow(2, 10*r)
	return -(post * math.Sin((r*d-s)*(2*math.Pi)/p)) + b
}

// ElasticOut springs past the target and oscillates to rest
func ElasticOut(t, b, c, d float64) float64 {
	if t == 0 {
		return b
	}
	r := t / d
	if r == 1 {
		return b + c
	}
	p := d * 0.3
	s := p / 4
	return c*math.Pow(2, -10*r)*math.Sin((r*d-s)*(2*math.Pi)/p) + c + b
}

func ElasticInOut(t, b, c, d float64) float64 {
	if t == 0 {
		return b
	}
	r := t / (d / 2)
	if r == 2 {
		return b + c
	}
	p := d * (0.3 * 1.5)
	s := p / 4
	if r < 1 {
		r--
		post := c * math.Pow(2, 10*r)
		return -0.5*(post*math.Sin((r*d-s)*(2*math.Pi)/p)) + b
	}
	r--
	post := c * math.Pow(2, -10*r)
	return post*math.Sin((r*d-s)*(2*math.Pi)/p)*0.5 + c + b
}

func BounceIn(t, b, c, d float64) float64 {
	return c - BounceOut(d-t, 0, c, d) + b
}

func BounceOut(t, b, c, d float64) float64 {
	r := t / d
	switch {
	case r < 1/2.75:
		return c*(7.5625*r*r) + b
	case r < 2/2.75:
		r -= 1.5 / 2.75
		return c*(7.5625*r*r+0.75) + b
	case r < 2.5/2.75:
		r -= 2.25 / 2.75
		return c*(7.5625*r*r+0.9375) + b
	default:
		r -= 2.625 / 2.75
		return c*(7.5625*r*r+0.984375) + b
	}
}

func BounceInOut(t, b, c, d float64) float64 {
	if t < d/2 {
		return BounceIn(t*2, 0, c, d)*0.5 + b
	}
	return BounceOut(t*2-d, 0, c, d)*0.5 + c*0.5 + b
}
