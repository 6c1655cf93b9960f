package router

import (
	"github.com/gin-gonic/gin"

	"github.com/leaseledger/backend/internal/interfaces/http/handler"
	"github.com/leaseledger/backend/internal/interfaces/http/middleware"
)

// Handlers bundles every HTTP handler the API exposes
type Handlers struct {
	Auth        *handler.AuthHandler
	User        *handler.UserHandler
	Lease       *handler.LeaseHandler
	Entry       *handler.PaymentEntryHandler
	Draw        *handler.DrawHandler
	Report      *handler.ReportHandler
	Collections *handler.CollectionsHandler
	System      *handler.SystemHandler
}

// APIRegistrars builds the full route table. Mutating users, ledger
// entries, and draws is restricted to owners; agents keep read access to
// their own leases, draws, and reports. loginGuards run before the login
// handler, typically middleware.AuthRateLimit.
func APIRegistrars(h Handlers, loginGuards ...gin.HandlerFunc) []RouteRegistrar {
	login := append(append([]gin.HandlerFunc{}, loginGuards...), h.Auth.Login)

	authRoutes := NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", login...)
	authRoutes.POST("/refresh", h.Auth.RefreshToken)
	authRoutes.POST("/logout", h.Auth.Logout)
	authRoutes.GET("/me", h.Auth.GetCurrentUser)
	authRoutes.PUT("/password", h.Auth.ChangePassword)

	userRoutes := NewDomainGroup("users", "/users")
	userRoutes.Use(middleware.RequireOwner())
	userRoutes.POST("", h.User.Create)
	userRoutes.GET("", h.User.List)
	userRoutes.GET("/:id", h.User.GetByID)
	userRoutes.PUT("/:id", h.User.Update)
	userRoutes.POST("/:id/deactivate", h.User.Deactivate)
	userRoutes.POST("/:id/reactivate", h.User.Reactivate)
	userRoutes.POST("/:id/unlock", h.User.Unlock)
	userRoutes.POST("/:id/reset-password", h.User.ResetPassword)
	userRoutes.POST("/:id/force-logout", h.Auth.ForceLogout)

	leaseRoutes := NewDomainGroup("leases", "/leases")
	leaseRoutes.POST("", h.Lease.Create)
	leaseRoutes.GET("", h.Lease.List)
	leaseRoutes.GET("/:id", h.Lease.GetByID)
	leaseRoutes.PUT("/:id", h.Lease.Update)
	leaseRoutes.DELETE("/:id", h.Lease.Delete)
	leaseRoutes.POST("/:id/recompute", middleware.RequireOwner(), h.Lease.Recompute)
	// Ledger entries rewrite payout history, so every mutation is owner-only
	leaseRoutes.POST("/:id/entries", middleware.RequireOwner(), h.Entry.Create)
	leaseRoutes.GET("/:id/entries", h.Entry.List)
	leaseRoutes.GET("/:id/entries/:entryId", h.Entry.GetByID)
	leaseRoutes.PUT("/:id/entries/:entryId", middleware.RequireOwner(), h.Entry.Update)
	leaseRoutes.DELETE("/:id/entries/:entryId", middleware.RequireOwner(), h.Entry.Delete)

	agentRoutes := NewDomainGroup("agents", "/agents")
	agentRoutes.GET("", h.User.ListAgents)
	agentRoutes.GET("/:id/draws", h.Draw.List)
	agentRoutes.POST("/:id/draws", middleware.RequireOwner(), h.Draw.Create)
	agentRoutes.PUT("/:id/draws/:drawId", middleware.RequireOwner(), h.Draw.Update)
	agentRoutes.DELETE("/:id/draws/:drawId", middleware.RequireOwner(), h.Draw.Delete)
	agentRoutes.GET("/:id/report", h.Report.AgentReport)
	agentRoutes.GET("/:id/report/monthly", h.Report.MonthlyBreakdown)
	agentRoutes.GET("/:id/report/export", h.Report.Export)

	collectionsRoutes := NewDomainGroup("collections", "/collections")
	collectionsRoutes.GET("/pending", h.Collections.Pending)
	collectionsRoutes.GET("/history", h.Collections.History)
	collectionsRoutes.POST("/sweep", middleware.RequireOwner(), h.Collections.Sweep)

	systemRoutes := NewDomainGroup("system", "/system")
	systemRoutes.GET("/ping", h.System.Ping)
	systemRoutes.GET("/info", h.System.GetSystemInfo)

	return []RouteRegistrar{
		authRoutes,
		userRoutes,
		leaseRoutes,
		agentRoutes,
		collectionsRoutes,
		systemRoutes,
	}
}
