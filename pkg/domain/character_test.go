package domain

import (
	"testing"
)

func TestParseCharacter(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Character
	}{
		{"補足付きの表記を分解するのだ", "Kaito (protagonist)", Character{Name: "Kaito", Note: "protagonist"}},
		{"補足なしはそのまま名前なのだ", "Mother", Character{Name: "Mother"}},
		{"前後の空白は落とすのだ", "  Hana  ", Character{Name: "Hana"}},
		{"括弧が途中にあるだけなら名前扱いなのだ", "Unknown (?) Demon", Character{Name: "Unknown (?) Demon"}},
		{"先頭が括弧なら名前扱いなのだ", "(narrator)", Character{Name: "(narrator)"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseCharacter(tt.raw); got != tt.want {
				t.Errorf("期待値 %+v, 実際の値 %+v", tt.want, got)
			}
		})
	}
}

func TestCharacter_String(t *testing.T) {
	c := Character{Name: "Kaito", Note: "protagonist"}
	if c.String() != "Kaito (protagonist)" {
		t.Errorf("期待値 'Kaito (protagonist)', 実際の値 '%s'", c.String())
	}
	if (Character{Name: "Hana"}).String() != "Hana" {
		t.Error("補足なしの表記が違うのだ")
	}
}
