package handlers

import (
	"e-voting/app/server/gate"
	"e-voting/app/server/middlewares"

	"github.com/labstack/echo/v4"
)

func RegisterHandlers(e *echo.Echo, a *App, g *gate.Gate) {
	e.GET("/healthz", a.HealthCheck)

	api := e.Group("/api")
	api.POST("/auth/login", a.AuthLogin)

	authed := api.Group("", middlewares.Auth(g, a.er))
	authed.POST("/auth/logout", a.AuthLogout)
	authed.GET("/users/me", a.UserInfoGetSelf)

	authed.GET("/votings", a.VotingList)
	authed.GET("/votings/:id", a.VotingGet)
	authed.GET("/votings/:id/candidates", a.VotingCandidates)
	authed.POST("/votings/:id/vote", a.VotingCast)
	authed.GET("/votings/:id/results", a.VotingResults)

	admin := authed.Group("/admin", middlewares.RequireAdmin(a.er))
	admin.GET("/votings", a.VotingList)
	admin.POST("/votings", a.AdminVotingCreate)
	admin.PUT("/votings/:id", a.AdminVotingUpdate)
	admin.DELETE("/votings/:id", a.AdminVotingDelete)
	admin.GET("/votings/:id/results", a.VotingResults)
	admin.POST("/votings/:id/candidates", a.AdminCandidateCreate)
	admin.PUT("/votings/:id/candidates/:cid", a.AdminCandidateUpdate)
	admin.DELETE("/votings/:id/candidates/:cid", a.AdminCandidateDelete)

	admin.GET("/users", a.AdminUserList)
	admin.POST("/users", a.AdminUserCreate)
	admin.PUT("/users/:identifier", a.AdminUserUpdate)
	admin.DELETE("/users/:identifier", a.AdminUserDelete)
}
