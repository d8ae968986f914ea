// Package routes maps the HTTP surface onto the controllers.
package routes

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/souqhup/app/controllers"
	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/app/services"
	"github.com/shashiranjanraj/souqhup/pkg/ctx"
	"github.com/shashiranjanraj/souqhup/pkg/rbac"
	"github.com/shashiranjanraj/souqhup/pkg/router"
	"github.com/shashiranjanraj/souqhup/pkg/session"
	"github.com/shashiranjanraj/souqhup/pkg/ws"
)

// Deps are the services behind the routes.
type Deps struct {
	Sessions *services.SessionService
	Flags    *services.FlagService
	View     *services.ViewService
	Ledger   *services.Ledger
	Catalog  *services.Catalog
	Assets   *services.Assets
	Search   *services.VisualSearch
	Insights *services.Insights
	Chats    *services.ChatService
	Beta     *services.BetaService

	Stores        *services.StoreDirectory
	Automation    *services.Automation
	Notifications *services.NotificationService

	Hub     *ws.Hub
	GraphQL http.Handler

	FeedLatency time.Duration
}

// Guard checks roles against the session of the request device.
func Guard(sessions *services.SessionService) *rbac.Guard {
	return rbac.New(func(r *http.Request) (string, bool, error) {
		state, err := sessions.State(r.Context(), session.DeviceID(r.Context()))
		return string(state.Role), state.LoggedIn, err
	})
}

// RegisterAPI mounts every endpoint. It installs the chat handler on the
// hub, so call it before the hub runs.
func RegisterAPI(r *router.Router, d Deps) {
	guard := Guard(d.Sessions)
	staff := guard.HasRole(string(models.RoleAdmin), string(models.RoleTeam))
	merchant := guard.HasRole(string(models.RoleMerchant))

	sessionController := controllers.NewSessionController(d.Sessions)
	flagController := controllers.NewFlagController(d.Flags, d.Sessions)
	viewController := controllers.NewViewController(d.View, d.Sessions)
	ledgerController := controllers.NewLedgerController(d.Ledger, d.Catalog, d.Sessions)
	feedController := controllers.NewFeedController(d.Catalog, d.Ledger, d.Flags, d.Sessions, d.FeedLatency)
	postController := controllers.NewPostController(d.Catalog, d.Assets, d.Ledger, d.Sessions)
	hatooController := controllers.NewHatooController(d.Search, d.Flags, d.Sessions)
	inquiryController := controllers.NewInquiryController(d.Insights, d.Chats, d.Sessions)
	chatController := controllers.NewChatController(d.Chats, d.Catalog, d.Hub)
	betaController := controllers.NewBetaController(d.Beta)
	storeController := controllers.NewStoreController(d.Stores, d.Flags, d.Sessions)
	automationController := controllers.NewAutomationController(d.Automation, d.Sessions)
	notificationController := controllers.NewNotificationController(d.Notifications, d.Sessions)

	api := r.Group("/api")

	api.Get("/session", "session.show", ctx.Wrap(sessionController.Show))
	api.Post("/session/login", "session.login", ctx.Wrap(sessionController.Login), guard.Guest)
	api.Post("/session/logout", "session.logout", ctx.Wrap(sessionController.Logout), guard.Authenticated)
	api.Post("/session/channel", "session.channel", ctx.Wrap(sessionController.SwitchChannel))
	api.Post("/session/reset", "session.reset", ctx.Wrap(sessionController.Reset), guard.Authenticated)
	api.Put("/profile", "profile.update", ctx.Wrap(sessionController.UpdateProfile), guard.Authenticated)

	api.Get("/flags", "flags.index", ctx.Wrap(flagController.Index))
	api.Put("/flags/{service}", "flags.update", ctx.Wrap(flagController.Update), staff)

	view := api.Group("/view")
	view.Get("", "view.show", ctx.Wrap(viewController.Show))
	view.Post("/navigate", "view.navigate", ctx.Wrap(viewController.Navigate), guard.Authenticated)
	view.Post("/home", "view.home", ctx.Wrap(viewController.Home), guard.Authenticated)
	view.Post("/menu", "view.menu", ctx.Wrap(viewController.Menu))
	view.Post("/collapse", "view.collapse", ctx.Wrap(viewController.Collapse))
	view.Post("/upgrade/dismiss", "view.upgrade.dismiss", ctx.Wrap(viewController.DismissUpgrade))
	api.Get("/upgrade", "upgrade.offer", ctx.Wrap(viewController.Upgrade), guard.Authenticated)

	api.Get("/ledger", "ledger.show", ctx.Wrap(ledgerController.Show))
	api.Get("/feeds/{service}", "feeds.index", ctx.Wrap(feedController.Index))
	api.Get("/feeds/{service}/stream", "feeds.stream", ctx.Wrap(feedController.Stream))

	posts := api.Group("/posts")
	posts.Post("", "posts.publish", ctx.Wrap(postController.Publish), merchant)
	posts.Get("/{id}", "posts.show", ctx.Wrap(postController.Show))
	posts.Get("/{id}/asset", "posts.asset", ctx.Wrap(postController.Asset))
	posts.Post("/{id}/like", "posts.like", ctx.Wrap(ledgerController.Like), guard.Authenticated)
	posts.Post("/{id}/favorite", "posts.favorite", ctx.Wrap(ledgerController.Favorite), guard.Authenticated)
	posts.Post("/{id}/trend", "posts.trend", ctx.Wrap(ledgerController.Trend), staff)
	api.Get("/stats", "stats.show", ctx.Wrap(postController.Stats), staff)

	api.Post("/hatoo/search", "hatoo.search", ctx.Wrap(hatooController.Search), guard.Authenticated)

	inquiries := api.Group("/inquiries", merchant)
	inquiries.Get("", "inquiries.index", ctx.Wrap(inquiryController.Index))
	inquiries.Post("/{id}/insight", "inquiries.insight", ctx.Wrap(inquiryController.Insight))
	inquiries.Post("/{id}/respond", "inquiries.respond", ctx.Wrap(inquiryController.Respond))

	chat := api.Group("/chat", guard.Authenticated)
	chat.Get("", "chat.show", ctx.Wrap(chatController.Show))
	chat.Post("/open", "chat.open", ctx.Wrap(chatController.Open))
	chat.Post("/close", "chat.close", ctx.Wrap(chatController.Close))
	chat.Post("/messages", "chat.send", ctx.Wrap(chatController.Send))

	stores := api.Group("/stores", guard.Authenticated)
	stores.Get("", "stores.index", ctx.Wrap(storeController.Index))
	stores.Get("/{id}", "stores.show", ctx.Wrap(storeController.Show))

	automation := api.Group("/automation", staff)
	automation.Get("", "automation.index", ctx.Wrap(automationController.Index))
	automation.Post("/sync", "automation.sync", ctx.Wrap(automationController.Sync))
	automation.Put("/{id}", "automation.update", ctx.Wrap(automationController.Update))
	automation.Post("/{id}/toggle", "automation.toggle", ctx.Wrap(automationController.Toggle))

	notifications := api.Group("/notifications", guard.Authenticated)
	notifications.Get("", "notifications.show", ctx.Wrap(notificationController.Show))
	notifications.Post("/{key}/toggle", "notifications.toggle", ctx.Wrap(notificationController.Toggle))

	api.Post("/beta", "beta.request", ctx.Wrap(betaController.Request))

	if d.Hub != nil {
		d.Hub.OnMessage = chatController.OnSocketMessage
		r.Get("/ws", "ws", ctx.Wrap(chatController.Socket))
	}
	if d.GraphQL != nil {
		r.Get("/graphql", "graphql.query", d.GraphQL.ServeHTTP)
		r.Post("/graphql", "graphql", d.GraphQL.ServeHTTP)
	}
}
