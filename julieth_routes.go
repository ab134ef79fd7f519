package julieth

import (
	"github.com/ayomtuase/julieth/assets"
	"github.com/ayomtuase/julieth/core"
	"github.com/ayomtuase/julieth/core/prerouter"
	r "github.com/ayomtuase/julieth/router"
)

func route(ap *core.App) {
	// Credential submissions go through the ip block list first.
	blockIp := prerouter.NewBlockIp(ap).Execute
	sess := ap.Session

	r.Register(ap.Router(),
		r.NewRoute("GET /favicon.ico").WithHandlerFunc(core.FaviconHandler),
		r.NewRoute("GET /assets/*filepath").WithHandler(core.StaticHandler("/assets/", assets.Static())),

		r.NewRoute("GET /").WithHandlerFunc(ap.LoginPageHandler).WithMiddleware(sess),
		r.NewRoute("POST /").WithHandlerFunc(ap.LoginSubmitHandler).WithMiddleware(blockIp, sess),
		r.NewRoute("GET /signup").WithHandlerFunc(ap.SignupPageHandler).WithMiddleware(sess),
		r.NewRoute("POST /signup").WithHandlerFunc(ap.SignupSubmitHandler).WithMiddleware(blockIp, sess),
		r.NewRoute("GET /dashboard").WithHandlerFunc(ap.DashboardHandler).WithMiddleware(sess),
		r.NewRoute("POST /logout").WithHandlerFunc(ap.LogoutHandler).WithMiddleware(sess),

		r.NewRoute("GET /auth/:provider").WithHandlerFunc(ap.FederatedBeginHandler).WithMiddleware(blockIp, sess),
		r.NewRoute("GET /auth/:provider/callback").WithHandlerFunc(ap.FederatedCallbackHandler).WithMiddleware(sess),

		r.NewRoute("GET /session/events").WithHandlerFunc(ap.SessionEventsHandler).WithMiddleware(sess),

		r.NewRoute("GET /api/session").WithHandlerFunc(ap.ApiSessionHandler).WithMiddleware(sess),
		r.NewRoute("POST /api/sign-in").WithHandlerFunc(ap.ApiSignInHandler).WithMiddleware(blockIp, sess),
		r.NewRoute("POST /api/sign-up").WithHandlerFunc(ap.ApiSignUpHandler).WithMiddleware(blockIp, sess),
		r.NewRoute("POST /api/sign-out").WithHandlerFunc(ap.ApiSignOutHandler).WithMiddleware(sess),
	)
}
