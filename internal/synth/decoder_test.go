package synth

import (
	"strings"
	"testing"

	"bindEnhance/internal/model"
)

func TestInputDecoder(t *testing.T) {
	got := InputDecoder(erc20, transferPack())
	want := `// UnpackInputTransfer unpacks the input data for the transfer method.
//
// Solidity: function transfer(address to, uint256 value) returns(bool)
func (eRC20 *ERC20) UnpackInputTransfer(callData []byte) (to common.Address, value *big.Int, err error) {
	method, ok := eRC20.abi.Methods["transfer"]
	if !ok {
		return common.Address{}, nil, errors.New("method 'transfer' not found")
	}
	if len(callData) < 4 || !bytes.Equal(callData[:4], method.ID[:4]) {
		return common.Address{}, nil, errors.New("method signature mismatch")
	}
	arguments, err := method.Inputs.Unpack(callData[4:])
	if err != nil {
		return common.Address{}, nil, err
	}
	to = *abi.ConvertType(arguments[0], new(common.Address)).(*common.Address)
	value = abi.ConvertType(arguments[1], new(big.Int)).(*big.Int)
	return to, value, nil
}`
	if got != want {
		t.Fatalf("decoder mismatch:\n%s", got)
	}
}

func TestInputDecoderWithoutParams(t *testing.T) {
	got := InputDecoder(erc20, model.PackMethodRecord{
		PackName:      "Decimals",
		MethodIDHex:   "313ce567",
		RawSignature:  "decimals() view returns(uint8)",
		ABIMethodName: "decimals",
	})
	want := `// UnpackInputDecimals unpacks the input data for the decimals method.
//
// Solidity: function decimals() view returns(uint8)
func (eRC20 *ERC20) UnpackInputDecimals(callData []byte) error {
	method, ok := eRC20.abi.Methods["decimals"]
	if !ok {
		return errors.New("method 'decimals' not found")
	}
	if len(callData) < 4 || !bytes.Equal(callData[:4], method.ID[:4]) {
		return errors.New("method signature mismatch")
	}
	return nil
}`
	if got != want {
		t.Fatalf("decoder mismatch:\n%s", got)
	}
}

func TestInputDecoderPointerizesStructs(t *testing.T) {
	got := InputDecoder(model.Container{Name: "Createx", Receiver: "createx"}, model.PackMethodRecord{
		PackName:      "DeployCreate2AndInit",
		MethodIDHex:   "e96deee4",
		RawSignature:  "deployCreate2AndInit(bytes32 salt, bytes initCode, bytes data, (uint256,uint256) values) payable returns(address)",
		ABIMethodName: "deployCreate2AndInit",
		HostParams: []model.Parameter{
			{Name: "salt", Type: "[32]byte"},
			{Name: "initCode", Type: "[]byte"},
			{Name: "data", Type: "[]byte"},
			{Name: "values", Type: "CreateXValues"},
		},
	})

	if !strings.Contains(got, "(salt [32]byte, initCode []byte, data []byte, values *CreateXValues, err error)") {
		t.Fatalf("signature mismatch:\n%s", got)
	}
	if !strings.Contains(got, "values = abi.ConvertType(arguments[3], new(CreateXValues)).(*CreateXValues)") {
		t.Fatalf("struct conversion mismatch:\n%s", got)
	}
	if !strings.Contains(got, "salt = *abi.ConvertType(arguments[0], new([32]byte)).(*[32]byte)") {
		t.Fatalf("array conversion mismatch:\n%s", got)
	}
}

func TestInputDecoderUniformZeroTuple(t *testing.T) {
	got := InputDecoder(model.Container{Name: "Createx", Receiver: "createx"}, model.PackMethodRecord{
		PackName:      "Mixed",
		MethodIDHex:   "01020304",
		RawSignature:  "mixed(address a, bool b, string c, uint8 d, (uint256) e) returns()",
		ABIMethodName: "mixed",
		HostParams: []model.Parameter{
			{Name: "a", Type: "common.Address"},
			{Name: "b", Type: "bool"},
			{Name: "c", Type: "string"},
			{Name: "d", Type: "uint8"},
			{Name: "e", Type: "MixedE"},
		},
	})

	var failures []string
	for _, line := range strings.Split(got, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "return ") && !strings.HasSuffix(trimmed, ", nil") {
			failures = append(failures, trimmed[:strings.LastIndex(trimmed, ", ")])
		}
	}
	if len(failures) != 3 {
		t.Fatalf("expected 3 failure branches, got %d:\n%s", len(failures), got)
	}
	want := `return common.Address{}, false, "", 0, nil`
	for _, failure := range failures {
		if failure != want {
			t.Fatalf("failure tuple mismatch: %q", failure)
		}
	}
}

func TestInputDecoderRenamesReservedParams(t *testing.T) {
	got := InputDecoder(erc20, model.PackMethodRecord{
		PackName:      "Call",
		MethodIDHex:   "aabbccdd",
		RawSignature:  "call(bytes method) returns()",
		ABIMethodName: "call",
		HostParams:    []model.Parameter{{Name: "method", Type: "[]byte"}},
	})
	if !strings.Contains(got, "(methodArg []byte, err error)") || !strings.Contains(got, "return methodArg, nil") {
		t.Fatalf("reserved name not renamed:\n%s", got)
	}
}

func TestInputDecoderRenamesWithoutCollisions(t *testing.T) {
	got := InputDecoder(erc20, model.PackMethodRecord{
		PackName:      "Check",
		MethodIDHex:   "aabbccdd",
		RawSignature:  "check(bool ok, bool okArg, bytes errors, address eRC20) returns()",
		ABIMethodName: "check",
		HostParams: []model.Parameter{
			{Name: "ok", Type: "bool"},
			{Name: "okArg", Type: "bool"},
			{Name: "errors", Type: "[]byte"},
			{Name: "eRC20", Type: "common.Address"},
		},
	})

	want := "(okArgArg bool, okArg bool, errorsArg []byte, eRC20Arg common.Address, err error)"
	if !strings.Contains(got, want) {
		t.Fatalf("signature mismatch:\n%s", got)
	}
	if !strings.Contains(got, "return okArgArg, okArg, errorsArg, eRC20Arg, nil") {
		t.Fatalf("final return mismatch:\n%s", got)
	}
	if strings.Contains(got, "\terrors = ") {
		t.Fatalf("errors package shadowed:\n%s", got)
	}
}
