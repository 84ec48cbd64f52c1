package http

import (
	adminpanel "locator/frontend/admin"
	adminusers "locator/frontend/adminUsers"
	"locator/frontend/login"
	"locator/frontend/report"
	"locator/frontend/submission"
	"locator/frontend/survey"

	"github.com/go-chi/chi/v5"
)

// RegisterLoginRoutes registers login/logout routes.
func (s *Server) RegisterLoginRoutes() {
	s.router.Get("/login", login.GetLoginScreenHandler)
	s.router.Post("/login", login.CreateLoginHandler(s.DB, s.SessionCache, s.UserCache))
	s.router.Post("/logout", login.LogoutHandler(s.DB, s.SessionCache))
}

// RegisterSurveyRoutes registers the clerk-facing survey flow.
func (s *Server) RegisterSurveyRoutes(r chi.Router) chi.Router {
	r.Get("/surveys", survey.SurveysPageQueryHandler(s.CatalogPath))
	r.Get("/surveys/{id}", survey.SurveyFormPageQueryHandler(s.CatalogPath, s.Progress))
	r.Post("/surveys/{id}/save", survey.SaveProgressCommandHandler(s.CatalogPath, s.Progress))
	r.Post("/surveys/{id}/submit", submission.SubmitSurveyCommandHandler(s.DB, s.Audit, s.CatalogPath, s.Progress, s.Ledger, s.Sheets))
	r.Get("/surveys/{id}/report.pdf", report.SurveyReportQueryHandler(s.CatalogPath, s.Progress))

	// Replay checks ownership itself so clerks can retry their own runs.
	r.Post("/submissions/{id}/replay", submission.ReplaySubmissionCommandHandler(s.DB, s.Audit, s.Sheets))
	return r
}

// RegisterAdminRoutes registers admin-only routes.
func (s *Server) RegisterAdminRoutes(r chi.Router) chi.Router {
	r.Group(func(r chi.Router) {
		r.Use(s.RequireAdmin)
		r.Get("/admin", adminpanel.AdminPageQueryHandler(s.DB, s.CatalogPath, s.Ledger))
		r.Get("/admin/export/records.xlsx", adminpanel.RecordsExportXLSXHandler(s.DB, s.Ledger))
		r.Get("/admin/export/summary.xlsx", adminpanel.SummaryExportXLSXHandler(s.DB, s.Ledger))
		r.Get("/admin/export/status.xlsx", adminpanel.BoardExportXLSXHandler(s.DB, s.CatalogPath, s.Ledger))
		r.Get("/admin/users", adminusers.UsersPageQueryHandler(s.DB))
		r.Post("/admin/users", adminusers.CreateUserCommandHandler(s.DB, s.UserCache))
	})
	return r
}
