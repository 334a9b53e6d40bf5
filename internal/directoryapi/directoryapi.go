// Package directoryapi is the wire contract of the member directory gRPC
// service. Messages are protobuf well-known types, so the service needs no
// generated code: records travel as structpb.Struct with the logical field
// names of the directory package as keys.
package directoryapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "memberportal.directory.Directory"

const (
	FindByEmailMethod = "/" + ServiceName + "/FindByEmail"
	CreateMethod      = "/" + ServiceName + "/Create"
	PatchMethod       = "/" + ServiceName + "/Patch"
	PingMethod        = "/" + ServiceName + "/Ping"
)

// Keys used inside the Struct messages besides the record fields.
const (
	KeyID     = "id"
	KeyFields = "fields"
)

// DirectoryServer is implemented by the directory server.
//
//   - FindByEmail answers codes.NotFound when nothing matches.
//   - Create answers codes.AlreadyExists when the email is taken.
//   - Patch takes {"id": ..., "fields": {...}} and returns the updated record.
type DirectoryServer interface {
	FindByEmail(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	Create(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Patch(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Ping(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
}

func RegisterDirectoryServer(s grpc.ServiceRegistrar, srv DirectoryServer) {
	s.RegisterService(&ServiceDesc, srv)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DirectoryServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "FindByEmail", Handler: findByEmailHandler},
		{MethodName: "Create", Handler: createHandler},
		{MethodName: "Patch", Handler: patchHandler},
		{MethodName: "Ping", Handler: pingHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "memberportal/directory",
}

func findByEmailHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DirectoryServer).FindByEmail(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FindByEmailMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DirectoryServer).FindByEmail(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func createHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DirectoryServer).Create(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: CreateMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DirectoryServer).Create(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func patchHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DirectoryServer).Patch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PatchMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DirectoryServer).Patch(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func pingHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DirectoryServer).Ping(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PingMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DirectoryServer).Ping(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// DirectoryClient calls the directory service over a client connection.
type DirectoryClient struct {
	cc grpc.ClientConnInterface
}

func NewDirectoryClient(cc grpc.ClientConnInterface) *DirectoryClient {
	return &DirectoryClient{cc: cc}
}

func (c *DirectoryClient) FindByEmail(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FindByEmailMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DirectoryClient) Create(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, CreateMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DirectoryClient) Patch(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, PatchMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DirectoryClient) Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, PingMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// StringFields flattens the string-valued entries of s. Non-string values
// are skipped.
func StringFields(s *structpb.Struct) map[string]string {
	out := make(map[string]string, len(s.GetFields()))
	for k, v := range s.GetFields() {
		if sv, ok := v.GetKind().(*structpb.Value_StringValue); ok {
			out[k] = sv.StringValue
		}
	}
	return out
}

// FromStrings builds a Struct whose values are all strings.
func FromStrings(m map[string]string) *structpb.Struct {
	s := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(m))}
	for k, v := range m {
		s.Fields[k] = structpb.NewStringValue(v)
	}
	return s
}

// PatchRequest builds the Struct carried by Patch.
func PatchRequest(id string, fields map[string]string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		KeyID:     structpb.NewStringValue(id),
		KeyFields: structpb.NewStructValue(FromStrings(fields)),
	}}
}

// SplitPatchRequest is the inverse of PatchRequest.
func SplitPatchRequest(s *structpb.Struct) (string, map[string]string) {
	id := s.GetFields()[KeyID].GetStringValue()
	return id, StringFields(s.GetFields()[KeyFields].GetStructValue())
}
