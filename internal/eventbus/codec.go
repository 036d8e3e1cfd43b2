package eventbus

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// codecName names the wire codec registered below. There is no
// protoc-generated message set for this service — events are plain
// Go structs — so the service speaks JSON-over-gRPC rather than
// protobuf-over-gRPC. That keeps the transport, streaming, and
// interceptor machinery genuinely on google.golang.org/grpc while
// leaving the message format human-inspectable for the subscribers
// this seam is built for (§9: external collaborators, not GEO peers).
const codecName = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return codecName }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
