package registry

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"bindEnhance/internal/model"
)

const transferTopic = "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"

func TestEntries(t *testing.T) {
	c := model.Container{Name: "ERC20", Receiver: "eRC20"}
	events := []model.UnpackEventRecord{
		{MethodName: "UnpackApprovalEvent", EventName: "Approval", RawSignature: "Approval(address indexed owner, address indexed spender, uint256 value)"},
		{MethodName: "UnpackTransferEvent", EventName: "Transfer", RawSignature: "Transfer(address indexed from, address indexed to, uint256 value)"},
	}
	packs := []model.PackMethodRecord{
		{PackName: "Transfer", MethodIDHex: "A9059CBB", ABIMethodName: "transfer", RawSignature: "transfer(address to, uint256 value) returns(bool)"},
	}
	topics := map[string]string{"UnpackTransferEvent": transferTopic}

	got := Entries("ERC20Pack.go", c, events, topics, packs)
	want := []model.SignatureEntry{
		{Contract: "ERC20", Kind: model.EntryKindEvent, Name: "Transfer", Signature: "Transfer(address,address,uint256)", Selector: transferTopic, SourceFile: "ERC20Pack.go"},
		{Contract: "ERC20", Kind: model.EntryKindFunction, Name: "transfer", Signature: "transfer(address,uint256)", Selector: "0xa9059cbb", SourceFile: "ERC20Pack.go"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("entries mismatch: %+v", got)
	}
}

func TestJsonlSinkRoundTrip(t *testing.T) {
	ctx := context.Background()
	sink := NewJsonlSink(filepath.Join(t.TempDir(), "out", "registry.jsonl"))

	first := model.SignatureEntry{Contract: "ERC20", Kind: model.EntryKindFunction, Name: "transfer", Signature: "transfer(address,uint256)", Selector: "0xa9059cbb", SourceFile: "a.go"}
	other := model.SignatureEntry{Contract: "ERC20", Kind: model.EntryKindFunction, Name: "approve", Signature: "approve(address,uint256)", Selector: "0x095ea7b3", SourceFile: "a.go"}
	if err := sink.PutEntries(ctx, []model.SignatureEntry{first, other}); err != nil {
		t.Fatalf("put entries: %v", err)
	}
	moved := first
	moved.SourceFile = "b.go"
	if err := sink.PutEntries(ctx, []model.SignatureEntry{moved}); err != nil {
		t.Fatalf("put entries: %v", err)
	}

	got, err := sink.Lookup(ctx, "A9059CBB")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !reflect.DeepEqual(got, []model.SignatureEntry{moved}) {
		t.Fatalf("lookup mismatch: %+v", got)
	}
}

func TestJsonlSinkLookupMissingFile(t *testing.T) {
	sink := NewJsonlSink(filepath.Join(t.TempDir(), "missing.jsonl"))
	got, err := sink.Lookup(context.Background(), "0x01")
	if err != nil || len(got) != 0 {
		t.Fatalf("expected no entries, got %v %v", got, err)
	}
}
