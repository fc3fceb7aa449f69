// Package apiconnect wires receiptsplit.v1.SplitService to Connect handlers
// and clients.
package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/receiptsplit/pkg/api"
)

// SplitServiceName is the fully-qualified name of the SplitService service.
const SplitServiceName = "receiptsplit.v1.SplitService"

// Procedure paths, usable as URL paths relative to the server root.
const (
	SplitServiceCalculateBillsProcedure = "/receiptsplit.v1.SplitService/CalculateBills"
	SplitServiceSettleUpProcedure       = "/receiptsplit.v1.SplitService/SettleUp"
)

// SplitServiceClient is a client for the receiptsplit.v1.SplitService service.
type SplitServiceClient interface {
	CalculateBills(context.Context, *connect.Request[api.CalculateBillsRequest]) (*connect.Response[api.CalculateBillsResponse], error)
	SettleUp(context.Context, *connect.Request[api.SettleUpRequest]) (*connect.Response[api.SettleUpResponse], error)
}

// NewSplitServiceClient constructs a client for the receiptsplit.v1.SplitService
// service. baseURL is the server root, e.g. http://localhost:8080.
func NewSplitServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SplitServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
	return &splitServiceClient{
		calculateBills: connect.NewClient[api.CalculateBillsRequest, api.CalculateBillsResponse](
			httpClient,
			baseURL+SplitServiceCalculateBillsProcedure,
			opts...,
		),
		settleUp: connect.NewClient[api.SettleUpRequest, api.SettleUpResponse](
			httpClient,
			baseURL+SplitServiceSettleUpProcedure,
			opts...,
		),
	}
}

type splitServiceClient struct {
	calculateBills *connect.Client[api.CalculateBillsRequest, api.CalculateBillsResponse]
	settleUp       *connect.Client[api.SettleUpRequest, api.SettleUpResponse]
}

func (c *splitServiceClient) CalculateBills(ctx context.Context, req *connect.Request[api.CalculateBillsRequest]) (*connect.Response[api.CalculateBillsResponse], error) {
	return c.calculateBills.CallUnary(ctx, req)
}

func (c *splitServiceClient) SettleUp(ctx context.Context, req *connect.Request[api.SettleUpRequest]) (*connect.Response[api.SettleUpResponse], error) {
	return c.settleUp.CallUnary(ctx, req)
}

// SplitServiceHandler is implemented by the receiptsplit.v1.SplitService server.
type SplitServiceHandler interface {
	CalculateBills(context.Context, *connect.Request[api.CalculateBillsRequest]) (*connect.Response[api.CalculateBillsResponse], error)
	SettleUp(context.Context, *connect.Request[api.SettleUpRequest]) (*connect.Response[api.SettleUpResponse], error)
}

// NewSplitServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewSplitServiceHandler(svc SplitServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
	calculateBills := connect.NewUnaryHandler(
		SplitServiceCalculateBillsProcedure,
		svc.CalculateBills,
		opts...,
	)
	settleUp := connect.NewUnaryHandler(
		SplitServiceSettleUpProcedure,
		svc.SettleUp,
		opts...,
	)
	return "/" + SplitServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SplitServiceCalculateBillsProcedure:
			calculateBills.ServeHTTP(w, r)
		case SplitServiceSettleUpProcedure:
			settleUp.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedSplitServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedSplitServiceHandler struct{}

func (UnimplementedSplitServiceHandler) CalculateBills(context.Context, *connect.Request[api.CalculateBillsRequest]) (*connect.Response[api.CalculateBillsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("receiptsplit.v1.SplitService.CalculateBills is not implemented"))
}

func (UnimplementedSplitServiceHandler) SettleUp(context.Context, *connect.Request[api.SettleUpRequest]) (*connect.Response[api.SettleUpResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("receiptsplit.v1.SplitService.SettleUp is not implemented"))
}
