package handler

import (
	"context"

	"google.golang.org/grpc"
)

const (
	allocationServiceName = "allocation.AllocationService"
	allocateMethod        = "/" + allocationServiceName + "/Allocate"
	deallocateMethod      = "/" + allocationServiceName + "/Deallocate"
)

type OrderLineRequest struct {
	OrderID string `json:"order_id"`
	SKU     string `json:"sku"`
	Qty     int32  `json:"qty"`
}

func (r *OrderLineRequest) GetOrderID() string {
	if r == nil {
		return ""
	}
	return r.OrderID
}

func (r *OrderLineRequest) GetSKU() string {
	if r == nil {
		return ""
	}
	return r.SKU
}

func (r *OrderLineRequest) GetQty() int32 {
	if r == nil {
		return 0
	}
	return r.Qty
}

type AllocationResponse struct {
	BatchRef string `json:"batch_ref"`
}

type AllocationServer interface {
	Allocate(context.Context, *OrderLineRequest) (*AllocationResponse, error)
	Deallocate(context.Context, *OrderLineRequest) (*AllocationResponse, error)
}

func RegisterAllocationServer(s grpc.ServiceRegistrar, srv AllocationServer) {
	s.RegisterService(&allocationServiceDesc, srv)
}

var allocationServiceDesc = grpc.ServiceDesc{
	ServiceName: allocationServiceName,
	HandlerType: (*AllocationServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Allocate", Handler: unaryHandler(allocateMethod, AllocationServer.Allocate)},
		{MethodName: "Deallocate", Handler: unaryHandler(deallocateMethod, AllocationServer.Deallocate)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "allocation",
}

type allocationMethod func(AllocationServer, context.Context, *OrderLineRequest) (*AllocationResponse, error)

func unaryHandler(fullMethod string, call allocationMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(OrderLineRequest)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AllocationServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AllocationServer), ctx, req.(*OrderLineRequest))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// AllocationClient calls the allocation service over a JSON-coded connection.
type AllocationClient struct {
	cc grpc.ClientConnInterface
}

func NewAllocationClient(cc grpc.ClientConnInterface) *AllocationClient {
	return &AllocationClient{cc: cc}
}

func (c *AllocationClient) Allocate(ctx context.Context, in *OrderLineRequest, opts ...grpc.CallOption) (*AllocationResponse, error) {
	return c.invoke(ctx, allocateMethod, in, opts...)
}

func (c *AllocationClient) Deallocate(ctx context.Context, in *OrderLineRequest, opts ...grpc.CallOption) (*AllocationResponse, error) {
	return c.invoke(ctx, deallocateMethod, in, opts...)
}

func (c *AllocationClient) invoke(ctx context.Context, method string, in *OrderLineRequest, opts ...grpc.CallOption) (*AllocationResponse, error) {
	out := new(AllocationResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(jsonCodecName)}, opts...)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
