package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified name of the ledger service
const ServiceName = "moneymaster.v1.LedgerService"

// LedgerServiceServer is the server API of the ledger service.
// Every method takes and returns a google.protobuf.Struct.
type LedgerServiceServer interface {
	AddTransaction(context.Context, *structpb.Struct) (*structpb.Struct, error)
	EditTransaction(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteTransaction(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Transfer(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteTransfer(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddWallet(context.Context, *structpb.Struct) (*structpb.Struct, error)
	EditWallet(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteWallet(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListWallets(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListCategories(context.Context, *structpb.Struct) (*structpb.Struct, error)
	FilterTransactions(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddBudget(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteBudget(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListBudgets(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetDashboard(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetInsights(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetReport(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Reconcile(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(LedgerServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

var unaryMethods = []struct {
	name string
	call unaryMethod
}{
	{"AddTransaction", LedgerServiceServer.AddTransaction},
	{"EditTransaction", LedgerServiceServer.EditTransaction},
	{"DeleteTransaction", LedgerServiceServer.DeleteTransaction},
	{"Transfer", LedgerServiceServer.Transfer},
	{"DeleteTransfer", LedgerServiceServer.DeleteTransfer},
	{"AddWallet", LedgerServiceServer.AddWallet},
	{"EditWallet", LedgerServiceServer.EditWallet},
	{"DeleteWallet", LedgerServiceServer.DeleteWallet},
	{"ListWallets", LedgerServiceServer.ListWallets},
	{"ListCategories", LedgerServiceServer.ListCategories},
	{"FilterTransactions", LedgerServiceServer.FilterTransactions},
	{"AddBudget", LedgerServiceServer.AddBudget},
	{"DeleteBudget", LedgerServiceServer.DeleteBudget},
	{"ListBudgets", LedgerServiceServer.ListBudgets},
	{"GetDashboard", LedgerServiceServer.GetDashboard},
	{"GetInsights", LedgerServiceServer.GetInsights},
	{"GetReport", LedgerServiceServer.GetReport},
	{"Reconcile", LedgerServiceServer.Reconcile},
}

// LedgerServiceDesc describes the ledger service for grpc.Server registration
var LedgerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LedgerServiceServer)(nil),
	Methods:     methodDescs(),
	Streams:     []grpc.StreamDesc{},
	Metadata:    "moneymaster/v1/ledger.proto",
}

// RegisterLedgerServiceServer registers srv on s
func RegisterLedgerServiceServer(s grpc.ServiceRegistrar, srv LedgerServiceServer) {
	s.RegisterService(&LedgerServiceDesc, srv)
}

// FullMethod returns the full RPC name of a ledger service method
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func methodDescs() []grpc.MethodDesc {
	descs := make([]grpc.MethodDesc, 0, len(unaryMethods))
	for _, m := range unaryMethods {
		descs = append(descs, grpc.MethodDesc{
			MethodName: m.name,
			Handler:    unaryHandler(m.name, m.call),
		})
	}
	return descs
}

func unaryHandler(name string, call unaryMethod) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	fullMethod := FullMethod(name)
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(LedgerServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(LedgerServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Client calls ledger service methods over a client connection
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a new Client instance
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes method with fields as the request struct
func (c *Client) Call(ctx context.Context, method string, fields map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
