package model

import "strings"

// Container identifies the binding type that owns every extracted method in a file.
type Container struct {
	Name     string
	Receiver string
}

// UnpackEventRecord describes one declared UnpackXxxEvent method.
type UnpackEventRecord struct {
	MethodName   string `json:"method_name"`
	ReturnType   string `json:"return_type"`
	EventName    string `json:"event_name"`
	RawSignature string `json:"raw_signature"`
	Receiver     string `json:"receiver"`
	Container    string `json:"container"`
}

// Suffix returns the return type name without the container prefix.
func (r UnpackEventRecord) Suffix() string {
	return strings.TrimPrefix(r.ReturnType, r.Container)
}

// PackMethodRecord describes one declared PackXxx method.
type PackMethodRecord struct {
	PackName       string      `json:"pack_name"`
	MethodIDHex    string      `json:"method_id_hex"`
	RawSignature   string      `json:"raw_signature"`
	ABIMethodName  string      `json:"abi_method_name"`
	HostParams     []Parameter `json:"host_params"`
	ExternalParams []Parameter `json:"external_params"`
}
