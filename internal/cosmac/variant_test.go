package cosmac

import (
	"errors"
	"testing"
)

func TestParseVariant(t *testing.T) {
	tests := []struct {
		in      string
		want    Variant
		wantErr bool
	}{
		{in: "1801", want: CDP1801},
		{in: "CDP1802", want: CDP1802},
		{in: "cdp1804", want: CDP1802},
		{in: " 1805 ", want: CDP1805},
		{in: "1806", want: CDP1805},
		{in: "6502", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVariant(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownVariant) {
					t.Errorf("err = %v, want ErrUnknownVariant", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVariantString(t *testing.T) {
	for _, v := range Variants() {
		back, err := ParseVariant(v.String())
		if err != nil || back != v {
			t.Errorf("%v does not parse back: %v, %v", v, back, err)
		}
	}
	if got := Variant(9).String(); got != "Variant(9)" {
		t.Errorf("got %q", got)
	}
}
