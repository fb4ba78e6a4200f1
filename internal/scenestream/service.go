// Package scenestream streams committed scenes to 3D clients over gRPC.
//
// The service is declared by hand over protobuf well-known types so clients
// need no generated code: Subscribe takes google.protobuf.Empty and returns a
// stream of google.protobuf.Struct, each the JSON form of a scene.
package scenestream

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/banshee-data/pitchview/internal/scene"
)

const (
	ServiceName     = "pitchview.SceneStream"
	SubscribeMethod = "/" + ServiceName + "/Subscribe"
)

// SceneStreamServer is implemented by the Publisher.
type SceneStreamServer interface {
	Subscribe(req *emptypb.Empty, stream grpc.ServerStream) error
}

func subscribeHandler(srv interface{}, stream grpc.ServerStream) error {
	req := new(emptypb.Empty)
	if err := stream.RecvMsg(req); err != nil {
		return err
	}
	return srv.(SceneStreamServer).Subscribe(req, stream)
}

// ServiceDesc describes the SceneStream service.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SceneStreamServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Subscribe",
			Handler:       subscribeHandler,
			ServerStreams: true,
		},
	},
	Metadata: "pitchview/scenestream.proto",
}

// RegisterService registers srv with the gRPC server.
func RegisterService(s grpc.ServiceRegistrar, srv SceneStreamServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// SceneToStruct converts a scene to its wire form.
func SceneToStruct(sc *scene.Scene) (*structpb.Struct, error) {
	if sc == nil {
		return nil, fmt.Errorf("nil scene")
	}
	b, err := json.Marshal(sc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scene: %w", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("failed to decode scene map: %w", err)
	}
	st, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("failed to build scene struct: %w", err)
	}
	return st, nil
}

// Subscribe opens a scene stream on conn. The returned function receives the
// next scene as a Struct.
func Subscribe(ctx context.Context, conn grpc.ClientConnInterface) (func() (*structpb.Struct, error), error) {
	stream, err := conn.NewStream(ctx, &ServiceDesc.Streams[0], SubscribeMethod)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene stream: %w", err)
	}
	if err := stream.SendMsg(&emptypb.Empty{}); err != nil {
		return nil, fmt.Errorf("failed to send subscribe request: %w", err)
	}
	if err := stream.CloseSend(); err != nil {
		return nil, fmt.Errorf("failed to close send: %w", err)
	}
	return func() (*structpb.Struct, error) {
		msg := new(structpb.Struct)
		if err := stream.RecvMsg(msg); err != nil {
			return nil, err
		}
		return msg, nil
	}, nil
}
