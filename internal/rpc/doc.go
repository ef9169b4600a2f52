// Package rpc describes the WatchListService wire contract shared by the CLI
// and the server: request/response messages, the gRPC service descriptor,
// a typed client stub and the JSON codec the service is spoken with.
//
// Messages travel with the "json" content-subtype. Protobuf well-known types
// (emptypb.Empty) are encoded with protojson, plain structs with
// encoding/json.
package rpc
