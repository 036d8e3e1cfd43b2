package eventbus

import (
	"google.golang.org/grpc"
)

// SubscribeRequest is the client's subscription request: an optional
// type filter (empty means every type) and an optional participant id
// (empty means every participant).
type SubscribeRequest struct {
	Types       []Type `json:"types,omitempty"`
	Participant string `json:"participant,omitempty"`
}

func (r SubscribeRequest) filter() Filter {
	var filters []Filter
	if len(r.Types) > 0 {
		filters = append(filters, ForTypes(r.Types...))
	}
	if r.Participant != "" {
		filters = append(filters, ForParticipant(r.Participant))
	}
	if len(filters) == 0 {
		return nil
	}
	return func(ev Event) bool {
		for _, f := range filters {
			if !f(ev) {
				return false
			}
		}
		return true
	}
}

// eventServer is the handler type registered against the gRPC server.
type eventServer interface {
	Subscribe(req *SubscribeRequest, stream grpc.ServerStream) error
}

// subscribeHandler adapts a raw grpc.ServerStream into a Subscribe
// call: receive the request message, then hand the stream to the
// service implementation to pump Events into for the stream's
// lifetime.
func subscribeHandler(srv any, stream grpc.ServerStream) error {
	req := new(SubscribeRequest)
	if err := stream.RecvMsg(req); err != nil {
		return err
	}
	return srv.(eventServer).Subscribe(req, stream)
}

// serviceDesc describes the streaming event service by hand: there is
// no protoc-generated stub backing it (see codec.go), so the
// ServiceDesc/StreamDesc pair grpc-go itself uses internally to
// register generated services is built directly instead.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: "geod.eventbus.Events",
	HandlerType: (*eventServer)(nil),
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Subscribe",
			Handler:       subscribeHandler,
			ServerStreams: true,
		},
	},
	Metadata: "internal/eventbus/service.go",
}

// subscribeService implements eventServer against a Bus.
type subscribeService struct {
	bus *Bus
}

func (s *subscribeService) Subscribe(req *SubscribeRequest, stream grpc.ServerStream) error {
	ch, cancel := s.bus.Subscribe(req.filter())
	defer cancel()

	ctx := stream.Context()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			if err := stream.SendMsg(&ev); err != nil {
				return err
			}
		}
	}
}
