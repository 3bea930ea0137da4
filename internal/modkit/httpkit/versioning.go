package httpkit

import (
	"net/http"
	"strings"
)

// MountAPI mounts a subrouter under /api/{version} with mw applied, then calls mount on it
//
//	httpkit.MountAPI(r, "v1", httpkit.CommonStack(opts), func(api httpkit.Router) {
//	  analytics.MountRoutes(api)
//	})
func MountAPI(r Router, version string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountUnder(r, "/api/"+strings.Trim(version, "/"), mw, mount)
}

// MountAPIV1 is MountAPI with version v1
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountAPI(r, "v1", mw, mount)
}
