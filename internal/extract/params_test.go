package extract

import (
	"reflect"
	"testing"

	"bindEnhance/internal/model"
)

func TestParseHostParams(t *testing.T) {
	got := ParseHostParams("to common.Address, value *big.Int")
	want := []model.Parameter{
		{Name: "to", Type: "common.Address", Tag: model.TagAddress},
		{Name: "value", Type: "*big.Int", Tag: model.TagBigInt},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("params mismatch: %+v", got)
	}
}

func TestParseHostParamsDropsTypelessTokens(t *testing.T) {
	got := ParseHostParams(" orphan , calls []Multicall3Call ")
	if len(got) != 1 || got[0].Name != "calls" || got[0].Type != "[]Multicall3Call" {
		t.Fatalf("params mismatch: %+v", got)
	}
}

func TestParseHostParamsEmpty(t *testing.T) {
	for _, input := range []string{"", "   "} {
		got := ParseHostParams(input)
		if got == nil || len(got) != 0 {
			t.Fatalf("expected empty slice for %q, got %+v", input, got)
		}
	}
}

func TestParseExternalParams(t *testing.T) {
	got := ParseExternalParams("address to, uint256 value")
	want := []model.Parameter{
		{Name: "to", Type: "address", Tag: model.TagAddress},
		{Name: "value", Type: "uint256", Tag: model.TagBigInt},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("params mismatch: %+v", got)
	}
}

func TestParseExternalParamsKeepsUnnamed(t *testing.T) {
	got := ParseExternalParams("uint256, address indexed owner")
	if len(got) != 2 {
		t.Fatalf("expected 2 params, got %+v", got)
	}
	if got[0].Name != "" || got[0].Type != "uint256" {
		t.Fatalf("unnamed param mismatch: %+v", got[0])
	}
	if got[1].Name != "owner" || got[1].Type != "address" {
		t.Fatalf("indexed param mismatch: %+v", got[1])
	}
}

func TestParseExternalParamsTuple(t *testing.T) {
	got := ParseExternalParams("(address,bool,bytes)[] calls, uint256 deadline")
	if len(got) != 2 {
		t.Fatalf("expected 2 params, got %+v", got)
	}
	if got[0].Type != "(address,bool,bytes)[]" || got[0].Name != "calls" {
		t.Fatalf("tuple param mismatch: %+v", got[0])
	}
}

func TestExternalParamList(t *testing.T) {
	cases := map[string]string{
		"transfer(address to, uint256 value) returns(bool)":                       "address to, uint256 value",
		"decimals() view returns(uint8)":                                          "",
		"aggregate((address,bytes)[] calls) payable returns(uint256 blockNumber)": "(address,bytes)[] calls",
		"fallback": "",
	}
	for sig, want := range cases {
		if got := ExternalParamList(sig); got != want {
			t.Fatalf("param list for %q: got %q want %q", sig, got, want)
		}
	}
}
