package devserver

// Route path constants. All API routes live under RouteAPIPrefix.
const (
	RouteAPIPrefix = "/api"

	RouteAuthLogin   = "/auth/login"
	RouteAuthRefresh = "/auth/refresh"
	RouteAuthMe      = "/auth/me"

	// RouteUserList is the legacy read-only listing of directory users.
	RouteUserList = "/user"
)
