package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/formhive/formhive/app"
	"github.com/formhive/formhive/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))
	root.Mount("/", servePublicFiles())

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	// public form rendering and submission
	api.Get(`/forms/{id:^\d+$}`, PublicGetForm(app))
	api.Post(`/forms/{id:^\d+$}/responses`, PublicSubmitResponse(app))

	api.Route("/admin", func(r chi.Router) {
		r.Use(middlewares.Admin(app.TokenSecret))

		// CRUD form
		r.Post("/forms", CreateForm(app))
		r.Get("/forms", ListForms(app))
		r.Get(`/forms/{id:^\d+$}`, GetForm(app))
		r.Put(`/forms/{id:^\d+$}`, UpdateForm(app))
		r.Delete(`/forms/{id:^\d+$}`, DeleteForm(app))

		// lifecycle
		r.Post(`/forms/{id:^\d+$}/publish`, PublishForm(app))
		r.Post(`/forms/{id:^\d+$}/archive`, ArchiveForm(app))

		r.Get(`/forms/{id:^\d+$}/responses`, ListFormResponses(app))

		// analytics: read-only aggregations over owned forms
		r.Get("/analytics/overview", AnalyticsOverview(app))
		r.Get("/analytics/conversion-funnel", AnalyticsFunnel(app))
		r.Get("/analytics/response-distribution", AnalyticsDistribution(app))
		r.Get("/analytics/timeline", AnalyticsTimeline(app))
	})

	api.Post("/login", Login(app))
	api.Post("/refresh", Refresh(app))

	return api
}

func servePublicFiles() http.Handler {
	return http.FileServer(http.Dir("public"))
}
