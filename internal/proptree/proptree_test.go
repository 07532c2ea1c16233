package proptree

import (
	"testing"

	"factorix/internal/version"
)

func roundtrip(t *testing.T, v Value) Value {
	t.Helper()
	encoded, err := Encode(v)
	if err != nil {
		t.Fatalf("Encode(%#v) = %v", v, err)
	}
	decoded, rest, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode(%x) = %v", encoded, err)
	}
	if len(rest) != 0 {
		t.Fatalf("Decode left %d unconsumed bytes", len(rest))
	}
	if !Equal(v, decoded) {
		t.Fatalf("roundtrip mismatch: %#v != %#v", v, decoded)
	}
	return decoded
}

func TestCodecRoundtrip(t *testing.T) {
	cases := []Value{
		Bool(true),
		Bool(false),
		Number(0),
		Number(42),
		Number(-3.5),
		Str(""),
		Str("hello, factorix"),
		List{Bool(true), Number(1), Str("x")},
		List{},
		func() Value {
			d := NewDict()
			d.Set("a", Bool(true))
			d.Set("b", Number(2.5))
			return d
		}(),
		List{
			func() Value {
				d := NewDict()
				d.Set("inner", List{Number(1), Number(2), Number(3)})
				return d
			}(),
		},
	}
	for _, v := range cases {
		roundtrip(t, v)
	}
}

func TestCodecRejectsUnknownTag(t *testing.T) {
	_, _, err := Decode([]byte{0x09, 0x00})
	if _, ok := err.(*UnknownPropertyType); !ok {
		t.Fatalf("expected UnknownPropertyType, got %v", err)
	}
}

func TestStringPropertyEmptyOmitsBytes(t *testing.T) {
	encoded, err := Encode(Str(""))
	if err != nil {
		t.Fatal(err)
	}
	// tag(1) + any-type-flag(1) + no_string bool(1) = 3 bytes, no length/bytes.
	if len(encoded) != 3 {
		t.Fatalf("expected 3-byte encoding for empty string, got %d: %x", len(encoded), encoded)
	}
}

func TestDictKeyOrderPreserved(t *testing.T) {
	d := NewDict()
	d.Set("z", Number(1))
	d.Set("a", Number(2))
	d.Set("m", Number(3))

	encoded, err := Encode(d)
	if err != nil {
		t.Fatal(err)
	}
	decoded, _, err := Decode(encoded)
	if err != nil {
		t.Fatal(err)
	}
	got := decoded.(*Dict).Keys()
	want := []string{"z", "a", "m"}
	for i, k := range want {
		if got[i] != k {
			t.Fatalf("key order not preserved: got %v, want %v", got, want)
		}
	}
}

func TestOptimU16Boundaries(t *testing.T) {
	tests := []struct {
		in   uint16
		want []byte
	}{
		{254, []byte{0xFE}},
		{255, []byte{0xFF, 0xFF, 0x00}},
		{2023, []byte{0xFF, 0xE7, 0x07}},
	}
	for _, tc := range tests {
		w := NewWriter()
		w.WriteOptimU16(tc.in)
		got := w.Bytes()
		if len(got) != len(tc.want) {
			t.Fatalf("optim_u16(%d) = % x, want % x", tc.in, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("optim_u16(%d) = % x, want % x", tc.in, got, tc.want)
			}
		}

		r := NewReader(got)
		back, err := r.ReadOptimU16()
		if err != nil || back != tc.in {
			t.Fatalf("roundtrip optim_u16(%d): got %d, err %v", tc.in, back, err)
		}
	}
}

func TestColorRoundtrip(t *testing.T) {
	d, err := ColorToDict("rgba:ff0000ff")
	if err != nil {
		t.Fatal(err)
	}
	back, ok := DictToColor(d)
	if !ok {
		t.Fatal("DictToColor rejected a well-formed color dict")
	}
	if back != "rgba:ff0000ff" {
		t.Fatalf("color roundtrip: got %q", back)
	}
}

func TestDictToColorRejectsWrongShape(t *testing.T) {
	d := NewDict()
	d.Set("r", Number(1))
	d.Set("g", Number(0))
	if _, ok := DictToColor(d); ok {
		t.Fatal("expected DictToColor to reject a dict missing b/a keys")
	}
}

func TestEncodeRejectsInvalidUTF8(t *testing.T) {
	_, err := Encode(Str(string([]byte{0xff, 0xfe})))
	if _, ok := err.(*EncodingError); !ok {
		t.Fatalf("expected EncodingError, got %v", err)
	}
}

func TestGameVersionAndModVersionDerivedEncoding(t *testing.T) {
	w := NewWriter()
	w.WriteU16(1)
	w.WriteU16(1)
	w.WriteU16(110)
	w.WriteU16(0)

	r := NewReader(w.Bytes())
	gv, err := r.ReadGameVersion()
	if err != nil {
		t.Fatal(err)
	}
	if gv.String() != "1.1.110-0" {
		t.Fatalf("got %s", gv)
	}

	mw := NewWriter()
	mw.WriteModVersion(version.ModVersion{Major: 1, Minor: 2, Patch: 3})
	if got := mw.Bytes(); len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("mod version encoding = % x, want 01 02 03", got)
	}
	mv, err := NewReader(mw.Bytes()).ReadModVersion()
	if err != nil {
		t.Fatal(err)
	}
	if mv.String() != "1.2.3" {
		t.Fatalf("got %s", mv)
	}
}
