package directory

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/memberportal/internal/common"
	"github.com/dmitrijs2005/memberportal/internal/directoryapi"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// GRPC is a Directory backed by the self-hosted directory server.
type GRPC struct {
	conn        *grpc.ClientConn
	client      *directoryapi.DirectoryClient
	accessToken string
	timeout     time.Duration
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (g *GRPC) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	return invoker(withAccessToken(ctx, g.accessToken), method, req, reply, cc, opts...)
}

// NewGRPC dials the directory server lazily; connection problems surface on
// the first call as ErrDirectoryUnavailable.
func NewGRPC(endpoint, accessToken string, timeout time.Duration, opts ...grpc.DialOption) (*GRPC, error) {
	g := &GRPC{accessToken: accessToken, timeout: timeout}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(g.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpoint, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("grpc client: %w", err)
	}
	g.conn = conn
	g.client = directoryapi.NewDirectoryClient(conn)
	return g, nil
}

func (g *GRPC) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.timeout)
}

func (g *GRPC) FindByEmail(ctx context.Context, email string) (*UserRecord, error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	resp, err := g.client.FindByEmail(ctx, wrapperspb.String(email))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, g.mapError(err)
	}

	f := directoryapi.StringFields(resp)
	return Fields(f).Record(f[directoryapi.KeyID]), nil
}

func (g *GRPC) Create(ctx context.Context, u NewUser) (*UserRecord, error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	resp, err := g.client.Create(ctx, directoryapi.FromStrings(u.Fields()))
	if err != nil {
		return nil, g.mapError(err)
	}

	f := directoryapi.StringFields(resp)
	if f[directoryapi.KeyID] == "" {
		return nil, fmt.Errorf("%w: create returned no record id", common.ErrDirectoryUnavailable)
	}
	return Fields(f).Record(f[directoryapi.KeyID]), nil
}

func (g *GRPC) Patch(ctx context.Context, id string, p ProfileUpdate) (Fields, error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	resp, err := g.client.Patch(ctx, directoryapi.PatchRequest(id, p.Fields()))
	if err != nil {
		return nil, g.mapError(err)
	}

	f := Fields(directoryapi.StringFields(resp))
	delete(f, directoryapi.KeyID)
	return f, nil
}

func (g *GRPC) Ping(ctx context.Context) error {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	if _, err := g.client.Ping(ctx, &emptypb.Empty{}); err != nil {
		return g.mapError(err)
	}
	return nil
}

func (g *GRPC) Close() error {
	return g.conn.Close()
}

func (g *GRPC) mapError(err error) error {
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.AlreadyExists:
		return common.ErrEmailAlreadyUsed
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", common.ErrValidation, st.Message())
	default:
		return fmt.Errorf("%w: %s: %s", common.ErrDirectoryUnavailable, st.Code(), st.Message())
	}
}
