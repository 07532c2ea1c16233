package proptree

import "fmt"

// ColorToDict converts an "rgba:RRGGBBAA" string into the four-key
// dictionary form the property tree carries colors as, with each
// component a double in [0, 1].
func ColorToDict(rgba string) (*Dict, error) {
	var r, g, b, a uint8
	if _, err := fmt.Sscanf(rgba, "rgba:%02x%02x%02x%02x", &r, &g, &b, &a); err != nil {
		return nil, &EncodingError{Reason: fmt.Sprintf("malformed rgba color %q: %v", rgba, err)}
	}
	d := NewDict()
	d.Set("r", Number(float64(r)/255))
	d.Set("g", Number(float64(g)/255))
	d.Set("b", Number(float64(b)/255))
	d.Set("a", Number(float64(a)/255))
	return d, nil
}

// DictToColor converts a four-key {r,g,b,a} dictionary back into its
// "rgba:RRGGBBAA" string form. It returns false when d does not carry
// exactly those four keys in that layout.
func DictToColor(d *Dict) (string, bool) {
	if d == nil || d.Len() != 4 {
		return "", false
	}
	keys := d.Keys()
	want := [4]string{"r", "g", "b", "a"}
	for i, k := range want {
		if keys[i] != k {
			return "", false
		}
	}
	comp := make([]uint8, 4)
	for i, k := range want {
		v, ok := d.Get(k)
		if !ok {
			return "", false
		}
		n, ok := v.(Number)
		if !ok {
			return "", false
		}
		comp[i] = uint8(float64(n)*255 + 0.5)
	}
	return fmt.Sprintf("rgba:%02x%02x%02x%02x", comp[0], comp[1], comp[2], comp[3]), true
}
