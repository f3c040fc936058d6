package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/vjhub/vjhub-backend/internal/handlers"
	"github.com/vjhub/vjhub-backend/internal/middleware"
)

func SetupRoutes(r *chi.Mux) {
	// Auth routes
	r.Post("/api/auth/signup", handlers.Signup)
	r.Post("/api/auth/signin", handlers.Signin)
	r.With(middleware.Authenticate).Post("/api/auth/signout", handlers.Signout)
	r.With(middleware.Authenticate).Get("/api/auth/me", handlers.GetMe)

	// Problem routes. Reads take optional auth so responses carry the
	// requester's vote membership.
	r.With(middleware.OptionalAuth).Get("/api/problems", handlers.ListProblems)
	r.With(middleware.OptionalAuth).Get("/api/problems/{id}", handlers.GetProblem)
	r.With(middleware.Authenticate).Post("/api/problems", handlers.CreateProblem)
	r.With(middleware.Authenticate).Put("/api/problems/{id}", handlers.UpdateProblem)
	r.With(middleware.Authenticate).Delete("/api/problems/{id}", handlers.DeleteProblem)
	r.With(middleware.Authenticate).Post("/api/problems/{id}/vote", handlers.VoteProblem)
	r.With(middleware.Authenticate).Delete("/api/problems/{id}/vote", handlers.RemoveProblemVote)

	// Idea routes
	r.With(middleware.OptionalAuth).Get("/api/ideas", handlers.ListIdeas)
	r.With(middleware.OptionalAuth).Get("/api/ideas/{id}", handlers.GetIdea)
	r.With(middleware.Authenticate).Post("/api/ideas", handlers.CreateIdea)
	r.With(middleware.Authenticate).Put("/api/ideas/{id}", handlers.UpdateIdea)
	r.With(middleware.Authenticate).Delete("/api/ideas/{id}", handlers.DeleteIdea)
	r.With(middleware.Authenticate).Post("/api/ideas/{id}/vote", handlers.VoteIdea)
	r.With(middleware.Authenticate).Delete("/api/ideas/{id}/vote", handlers.RemoveIdeaVote)

	// Startup routes (single upvote set, toggle on POST, no DELETE)
	r.With(middleware.OptionalAuth).Get("/api/startups", handlers.ListStartups)
	r.With(middleware.OptionalAuth).Get("/api/startups/{id}", handlers.GetStartup)
	r.With(middleware.Authenticate).Post("/api/startups", handlers.CreateStartup)
	r.With(middleware.Authenticate).Put("/api/startups/{id}", handlers.UpdateStartup)
	r.With(middleware.Authenticate).Delete("/api/startups/{id}", handlers.DeleteStartup)
	r.With(middleware.Authenticate).Post("/api/startups/{id}/vote", handlers.ToggleStartupVote)
	r.With(middleware.Authenticate).Put("/api/startups/{id}/milestones/{index}", handlers.UpdateMilestone)

	// Comment routes
	r.With(middleware.OptionalAuth).Get("/api/comments", handlers.ListComments)
	r.With(middleware.Authenticate).Post("/api/comments", handlers.CreateComment)
	r.With(middleware.Authenticate).Put("/api/comments/{id}", handlers.UpdateComment)
	r.With(middleware.Authenticate).Delete("/api/comments/{id}", handlers.DeleteComment)
	r.With(middleware.Authenticate).Post("/api/comments/{id}/like", handlers.ToggleCommentLike)

	// File upload
	r.With(middleware.Authenticate).Post("/api/upload", handlers.UploadFile)

	// Platform counters
	r.Get("/api/stats", handlers.GetStats)
}
