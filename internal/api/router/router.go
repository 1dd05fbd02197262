package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/SemperAdmin/DutySync-sub000/config"
	"github.com/SemperAdmin/DutySync-sub000/internal/api/handler"
	"github.com/SemperAdmin/DutySync-sub000/internal/api/middleware"
	"github.com/SemperAdmin/DutySync-sub000/internal/service"
	"github.com/SemperAdmin/DutySync-sub000/pkg/jwt"
)

// Setup builds and returns the Gin engine.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, blacklist service.TokenBlacklist, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── health check ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// auth (no token required)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// everything below requires a valid access token
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, blacklist))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// units
			units := authorized.Group("/units")
			{
				units.GET("", h.Unit.ListUnits)
				units.GET("/:id", h.Unit.GetUnit)
				units.POST("", middleware.RoleAuth("admin"), h.Unit.CreateUnit)
				units.PUT("/:id", middleware.RoleAuth("admin"), h.Unit.UpdateUnit)
				units.DELETE("/:id", middleware.RoleAuth("admin"), h.Unit.DeleteUnit)
			}

			// personnel
			personnel := authorized.Group("/personnel")
			{
				personnel.GET("", h.Personnel.ListPersonnel)
				personnel.GET("/:id", h.Personnel.GetPersonnel)
				personnel.GET("/:id/score", h.Personnel.GetScore)
				personnel.POST("", middleware.RoleAuth("admin"), h.Personnel.CreatePersonnel)
				personnel.PUT("/:id", middleware.RoleAuth("admin"), h.Personnel.UpdatePersonnel)
				personnel.DELETE("/:id", middleware.RoleAuth("admin"), h.Personnel.DeletePersonnel)
			}

			// duty types
			dutyTypes := authorized.Group("/duty-types")
			{
				dutyTypes.GET("", h.Duty.ListDutyTypes)
				dutyTypes.POST("", middleware.RoleAuth("admin", "manager"), h.Duty.CreateDutyType)
				dutyTypes.PUT("/:id/value", middleware.RoleAuth("admin", "manager"), h.Duty.UpdateDutyValue)
				dutyTypes.DELETE("/:id", middleware.RoleAuth("admin", "manager"), h.Duty.DeleteDutyType)
			}

			// duty slots
			dutySlots := authorized.Group("/duty-slots")
			{
				dutySlots.GET("", h.Duty.ListSlots)
				dutySlots.GET("/my", h.Duty.ListMySlots)
				dutySlots.GET("/:id", h.Duty.GetSlot)
				dutySlots.POST("", middleware.RoleAuth("admin", "manager"), h.Duty.CreateSlot)
				dutySlots.PUT("/:id", middleware.RoleAuth("admin", "manager"), h.Duty.UpdateSlot)
				dutySlots.DELETE("/:id", middleware.RoleAuth("admin", "manager"), h.Duty.DeleteSlot)
			}

			// holidays
			holidays := authorized.Group("/holidays")
			{
				holidays.GET("", h.Duty.ListHolidays)
				holidays.POST("", middleware.RoleAuth("admin"), h.Duty.CreateHoliday)
				holidays.DELETE("/:id", middleware.RoleAuth("admin"), h.Duty.DeleteHoliday)
			}

			// duty swaps
			swaps := authorized.Group("/swaps")
			{
				swaps.GET("", middleware.RoleAuth("admin", "manager"), h.Swap.ListPendingSwaps)
				swaps.POST("", h.Swap.CreateSwap)
				swaps.GET("/:pair_id", h.Swap.GetSwap)
				swaps.POST("/:pair_id/accept", h.Swap.AcceptSwap)
				swaps.POST("/:pair_id/reject", middleware.RoleAuth("admin", "manager"), h.Swap.RejectSwap)
				swaps.POST("/:pair_id/recommend", middleware.RoleAuth("admin", "manager"), h.Swap.RecommendSwap)
				swaps.DELETE("/:pair_id", middleware.RoleAuth("admin"), h.Swap.DeleteSwap)
				swaps.POST("/approvals/:approval_id", middleware.RoleAuth("admin", "manager"), h.Swap.ApproveStep)
			}

			// roster approval
			rosters := authorized.Group("/rosters")
			{
				rosters.GET("", h.Roster.ListApprovedRosters)
				rosters.GET("/status", h.Roster.GetRosterStatus)
				rosters.POST("/approve", middleware.RoleAuth("admin", "manager"), h.Roster.ApproveRoster)
				rosters.POST("/unapprove", middleware.RoleAuth("admin", "manager"), h.Roster.UnapproveRoster)
			}

			// batch import
			importGroup := authorized.Group("/import")
			{
				importGroup.POST("/units", middleware.RoleAuth("admin"), h.Import.ImportUnits)
				importGroup.POST("/personnel", middleware.RoleAuth("admin"), h.Import.ImportPersonnel)
			}

			// export
			export := authorized.Group("/export")
			{
				export.GET("/roster", middleware.RoleAuth("admin", "manager"), h.Export.ExportRoster)
				export.GET("/calendar", h.Export.MyCalendar)
			}
		}
	}

	return r
}
