package grpc

import (
	"github.com/bytedance/sonic"
	"google.golang.org/grpc/encoding"
)

// CodecName is the content-subtype the bridge service speaks
const CodecName = "json"

// jsonCodec carries the bridge's plain Go message types as JSON, so the
// service needs no generated protobuf code. Calls select it with
// grpc.CallContentSubtype(CodecName); the health service keeps using proto.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return sonic.ConfigStd.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return sonic.ConfigStd.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
