package transport

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "unify.journey.v1.JourneyService"

// Method names as they appear on the wire.
const (
	MethodPredictJourney           = "PredictJourney"
	MethodAccommodationProgression = "AccommodationProgression"
	MethodAnalyze                  = "Analyze"
)

// #region service-desc
// JourneyServiceServer is the server API for the journey service. Requests carry the
// profile fields; responses carry the JSON form of the result.
type JourneyServiceServer interface {
	PredictJourney(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AccommodationProgression(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Analyze(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(JourneyServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(JourneyServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: FullMethod(method),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(JourneyServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc describes the journey service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*JourneyServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: MethodPredictJourney,
			Handler: unaryHandler(MethodPredictJourney, func(s JourneyServiceServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
				return s.PredictJourney(ctx, in)
			}),
		},
		{
			MethodName: MethodAccommodationProgression,
			Handler: unaryHandler(MethodAccommodationProgression, func(s JourneyServiceServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
				return s.AccommodationProgression(ctx, in)
			}),
		},
		{
			MethodName: MethodAnalyze,
			Handler: unaryHandler(MethodAnalyze, func(s JourneyServiceServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
				return s.Analyze(ctx, in)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "unify/journey/v1/journey.proto",
}

// RegisterJourneyServiceServer registers srv on s.
func RegisterJourneyServiceServer(s grpc.ServiceRegistrar, srv JourneyServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// FullMethod returns the wire path of a service method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// #endregion service-desc
