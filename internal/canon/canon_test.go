package canon

import "testing"

func TestCanonicalizeSortsKeysAndRendersLiterals(t *testing.T) {
	payload := map[string]any{
		"to":     "pid2",
		"from":   "pid1",
		"amount": NewDecimal(10050, 2),
		"active": true,
		"memo":   nil,
	}

	got, err := Canonicalize(payload)
	if err != nil {
		t.Fatalf("Canonicalize error: %v", err)
	}

	want := `{"active":true,"amount":"100.5","from":"pid1","memo":null,"to":"pid2"}`
	if string(got) != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestCanonicalizeIsDeterministicAcrossMapIteration(t *testing.T) {
	a := map[string]any{"z": int64(1), "a": int64(2), "m": int64(3)}
	b := map[string]any{"a": int64(2), "m": int64(3), "z": int64(1)}

	gotA, err := Canonicalize(a)
	if err != nil {
		t.Fatal(err)
	}
	gotB, err := Canonicalize(b)
	if err != nil {
		t.Fatal(err)
	}
	if string(gotA) != string(gotB) {
		t.Fatalf("canonical forms diverged: %s vs %s", gotA, gotB)
	}
}

func TestDecimalCanonicalRoundTrip(t *testing.T) {
	cases := []struct {
		minor     int64
		precision int32
		want      string
	}{
		{10050, 2, "100.5"},
		{10050, 2, "100.5"},
		{0, 2, "0"},
		{-500, 2, "-5"},
		{100, 0, "100"},
	}
	for _, c := range cases {
		d := NewDecimal(c.minor, c.precision)
		if got := d.Canonical(); got != c.want {
			t.Errorf("Canonical(%d, %d) = %q, want %q", c.minor, c.precision, got, c.want)
		}
		reparsed, err := ParseDecimal(d.Canonical(), c.precision)
		if err != nil {
			t.Fatalf("ParseDecimal error: %v", err)
		}
		if reparsed.Minor != c.minor {
			t.Errorf("round trip mismatch: got %d want %d", reparsed.Minor, c.minor)
		}
	}
}

func TestCheckKnownFieldsRejectsUnknownKey(t *testing.T) {
	v, err := Decode([]byte(`{"a":1,"b":2}`))
	if err != nil {
		t.Fatal(err)
	}
	if err := CheckKnownFields(v, map[string]bool{"a": true, "b": true}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := CheckKnownFields(v, map[string]bool{"a": true}); err == nil {
		t.Fatal("expected ErrUnknownField")
	}
}
