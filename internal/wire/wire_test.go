package wire

import (
	"bytes"
	"testing"
)

func hexBytes(t *testing.T, s string) []byte {
	t.Helper()
	var out []byte
	var hi byte
	have := false
	for _, r := range s {
		var v byte
		switch {
		case r >= '0' && r <= '9':
			v = byte(r - '0')
		case r >= 'a' && r <= 'f':
			v = byte(r-'a') + 10
		case r == ' ':
			continue
		default:
			t.Fatalf("bad hex char %q in %q", r, s)
		}
		if !have {
			hi = v
			have = true
		} else {
			out = append(out, hi<<4|v)
			have = false
		}
	}
	return out
}

func TestWriteBoolTightest(t *testing.T) {
	var w Writer
	w.WriteBool(true)
	if got := w.Bytes(); !bytes.Equal(got, hexBytes(t, "c3")) {
		t.Errorf("true = % x, want c3", got)
	}
	w.Reset()
	w.WriteBool(false)
	if got := w.Bytes(); !bytes.Equal(got, hexBytes(t, "c2")) {
		t.Errorf("false = % x, want c2", got)
	}
}

func TestWriteUintTightest(t *testing.T) {
	cases := []struct {
		v    uint64
		want string
	}{
		{0, "00"},
		{127, "7f"},
		{255, "cc ff"},
		{65535, "cd ff ff"},
		{1<<32 - 1, "ce ff ff ff ff"},
		{1 << 32, "cf 00 00 00 01 00 00 00 00"},
	}
	for _, c := range cases {
		var w Writer
		w.WriteUint(c.v)
		if got := w.Bytes(); !bytes.Equal(got, hexBytes(t, c.want)) {
			t.Errorf("WriteUint(%d) = % x, want %s", c.v, got, c.want)
		}
	}
}

func TestWriteIntTightest(t *testing.T) {
	cases := []struct {
		v    int64
		want string
	}{
		{0, "00"},
		{-1, "ff"},
		{-32, "e0"},
		{-33, "d0 df"},
		{-128, "d0 80"},
		{-129, "d1 ff 7f"},
	}
	for _, c := range cases {
		var w Writer
		w.WriteInt(c.v)
		if got := w.Bytes(); !bytes.Equal(got, hexBytes(t, c.want)) {
			t.Errorf("WriteInt(%d) = % x, want %s", c.v, got, c.want)
		}
	}
}

func TestReadUintAcceptsUnsignedFamilyOnly(t *testing.T) {
	r := NewReader(hexBytes(t, "cc ff"))
	v, err := r.ReadUint(255)
	if err != nil || v != 255 {
		t.Fatalf("ReadUint = %d, %v", v, err)
	}

	r = NewReader(hexBytes(t, "cd ff ff"))
	if _, err := r.ReadUint(255); err == nil {
		t.Fatal("expected error decoding u16-shaped value against max=255")
	}

	r = NewReader(hexBytes(t, "ff"))
	if _, err := r.ReadUint(255); err == nil {
		t.Fatal("expected error decoding negative fixint as unsigned")
	}
}

func TestReadIntAcceptsSignedOrUnsignedFamily(t *testing.T) {
	r := NewReader(hexBytes(t, "cc 64"))
	v, err := r.ReadInt(-128, 127)
	if err != nil || v != 100 {
		t.Fatalf("ReadInt over uint8 tag = %d, %v", v, err)
	}

	r = NewReader(hexBytes(t, "d0 9c"))
	v, err = r.ReadInt(-128, 127)
	if err != nil || v != -100 {
		t.Fatalf("ReadInt over int8 tag = %d, %v", v, err)
	}
}

func TestStringRoundTrip(t *testing.T) {
	var w Writer
	w.WriteString("hello")
	r := NewReader(w.Bytes())
	got, err := r.ReadString()
	if err != nil || got != "hello" {
		t.Fatalf("round trip = %q, %v", got, err)
	}
}

func TestStringRejectsBin(t *testing.T) {
	var w Writer
	w.WriteBin([]byte("hi"))
	r := NewReader(w.Bytes())
	if _, err := r.ReadString(); err == nil {
		t.Fatal("expected string decode to reject bin encoding")
	}
}

func TestBinRejectsString(t *testing.T) {
	var w Writer
	w.WriteString("hi")
	r := NewReader(w.Bytes())
	if _, err := r.ReadBin(0, false); err == nil {
		t.Fatal("expected bin decode to reject string encoding")
	}
}

func TestBinFixedLengthStrictness(t *testing.T) {
	var w Writer
	w.WriteBin([]byte{1, 2, 3})
	r := NewReader(w.Bytes())
	if _, err := r.ReadBin(4, true); err == nil {
		t.Fatal("expected fixed-length bin decode to reject mismatched length")
	}

	r = NewReader(w.Bytes())
	got, err := r.ReadBin(3, true)
	if err != nil || !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Fatalf("ReadBin(3, true) = % x, %v", got, err)
	}
}

func TestArrayHeaderTightestAndPermissive(t *testing.T) {
	var w Writer
	w.WriteArrayHeader(2)
	if got := w.Bytes(); !bytes.Equal(got, hexBytes(t, "92")) {
		t.Errorf("WriteArrayHeader(2) = % x, want 92", got)
	}

	r := NewReader(hexBytes(t, "dc 00 02"))
	n, err := r.ReadArrayHeader()
	if err != nil || n != 2 {
		t.Fatalf("ReadArrayHeader over array16 tag = %d, %v", n, err)
	}
}

func TestMapHeaderTightestAndPermissive(t *testing.T) {
	var w Writer
	w.WriteMapHeader(1)
	if got := w.Bytes(); !bytes.Equal(got, hexBytes(t, "81")) {
		t.Errorf("WriteMapHeader(1) = % x, want 81", got)
	}

	r := NewReader(hexBytes(t, "de 00 01"))
	n, err := r.ReadMapHeader()
	if err != nil || n != 1 {
		t.Fatalf("ReadMapHeader over map16 tag = %d, %v", n, err)
	}
}

func TestNilPeekAndConsume(t *testing.T) {
	var w Writer
	w.WriteNil()
	r := NewReader(w.Bytes())
	if !r.PeekIsNil() {
		t.Fatal("expected PeekIsNil true")
	}
	if err := r.ReadNil(); err != nil {
		t.Fatalf("ReadNil: %v", err)
	}
}

func TestSkipValueOverNestedStructures(t *testing.T) {
	var w Writer
	w.WriteMapHeader(2)
	w.WriteUint(0)
	w.WriteArrayHeader(2)
	w.WriteString("a")
	w.WriteBool(true)
	w.WriteUint(1)
	w.WriteNil()
	w.WriteUint(42) // trailing sentinel to confirm skip stopped exactly at the map end

	r := NewReader(w.Bytes())
	if err := r.SkipValue(); err != nil {
		t.Fatalf("SkipValue: %v", err)
	}
	v, err := r.ReadUint(1000)
	if err != nil || v != 42 {
		t.Fatalf("sentinel after skip = %d, %v", v, err)
	}
}

func TestFloat32And64AreDistinctTypes(t *testing.T) {
	var w Writer
	w.WriteFloat64(1.5)
	r := NewReader(w.Bytes())
	if _, err := r.ReadFloat32(); err == nil {
		t.Fatal("expected float32 decode to reject a float64 encoding")
	}
}

func TestFloatRoundTrip(t *testing.T) {
	var w Writer
	w.WriteFloat32(3.5)
	w.WriteFloat64(-2.25)
	r := NewReader(w.Bytes())
	f32, err := r.ReadFloat32()
	if err != nil || f32 != 3.5 {
		t.Fatalf("ReadFloat32 = %v, %v", f32, err)
	}
	f64, err := r.ReadFloat64()
	if err != nil || f64 != -2.25 {
		t.Fatalf("ReadFloat64 = %v, %v", f64, err)
	}
}
