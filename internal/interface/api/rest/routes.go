package rest

const (
	// api
	RouteApiV1 = "/api/v1"

	// files
	RouteFiles         = RouteApiV1 + "/files"
	RouteFile          = RouteFiles + "/:id"
	RouteFilePublish   = RouteFile + "/publish"
	RouteFileUnpublish = RouteFile + "/unpublish"
	RouteFileData      = RouteFile + "/data"

	// ops
	RouteHealth  = RouteApiV1 + "/healthz"
	RouteReady   = RouteApiV1 + "/readyz"
	RouteMetrics = RouteApiV1 + "/metrics"
)
