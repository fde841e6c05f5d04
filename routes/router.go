package routes

import (
	"github.com/Dxrie/skictf/controllers"
	"github.com/Dxrie/skictf/middlewares"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	apiV1 := r.Group("/api/v1")
	{
		// --- 用户 ---
		usersPublic := apiV1.Group("/users")
		{
			usersPublic.POST("/register", controllers.Register)
			usersPublic.POST("/login", controllers.Login)
		}
		usersAuth := apiV1.Group("/users")
		usersAuth.Use(middlewares.JWTAuthMiddleware())
		{
			usersAuth.GET("/me", controllers.GetProfile)
		}

		// --- 题目 ---
		challengeRoutes := apiV1.Group("/challenges")
		{
			// 用户接口
			challengeRoutes.GET("", middlewares.JWTTryAuthMiddleware(), controllers.ListChallenges)
			challengeRoutes.GET("/:id", middlewares.JWTTryAuthMiddleware(), controllers.GetChallengeDetail)
			challengeRoutes.POST("/:id/submit", middlewares.JWTAuthMiddleware(), controllers.SubmitFlag)

			// 管理员接口
			challengeRoutes.POST("", middlewares.JWTAuthMiddleware(), middlewares.AdminAuthMiddleware(), controllers.CreateChallenge)
			challengeRoutes.PUT("/:id", middlewares.JWTAuthMiddleware(), middlewares.AdminAuthMiddleware(), controllers.UpdateChallenge)
			challengeRoutes.DELETE("/:id", middlewares.JWTAuthMiddleware(), middlewares.AdminAuthMiddleware(), controllers.DeleteChallenge)
			challengeRoutes.POST("/:id/publish", middlewares.JWTAuthMiddleware(), middlewares.AdminAuthMiddleware(), controllers.TogglePublishChallenge)
		}

		// --- 队伍 ---
		teamRoutes := apiV1.Group("/teams")
		{
			teamRoutes.GET("", controllers.GetLeaderboard)
			teamRoutes.GET("/:id", controllers.GetTeamDetail)
			teamRoutes.POST("", middlewares.JWTAuthMiddleware(), controllers.CreateTeam)
			teamRoutes.POST("/join", middlewares.JWTAuthMiddleware(), controllers.JoinTeam)
			teamRoutes.PUT("/rename", middlewares.JWTAuthMiddleware(), controllers.RenameTeam)
			teamRoutes.GET("/mine", middlewares.JWTAuthMiddleware(), controllers.GetMyTeam)
		}

		// --- 一血榜 ---
		apiV1.GET("/firstbloods", controllers.ListFirstBloods)

		// --- 比赛开关 ---
		apiV1.GET("/competition", controllers.GetCompetitionStatus)
		apiV1.POST("/competition", middlewares.JWTAuthMiddleware(), middlewares.AdminAuthMiddleware(), controllers.SetCompetitionStatus)

		// --- 问卷 ---
		apiV1.POST("/survey", middlewares.JWTAuthMiddleware(), controllers.SubmitSurvey)

		// --- 管理员 ---
		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(middlewares.JWTAuthMiddleware(), middlewares.AdminAuthMiddleware())
		{
			adminRoutes.GET("/challenges", controllers.AdminListChallenges)
			adminRoutes.GET("/teams", controllers.AdminGetTeams)
			adminRoutes.PUT("/teams/:id/visibility", controllers.AdminUpdateTeamVisibility)
			adminRoutes.DELETE("/teams/:id", controllers.AdminDeleteTeam)
			adminRoutes.GET("/logs", controllers.GetSolveLogs)
			adminRoutes.GET("/surveys", controllers.AdminGetSurveys)
		}
	}

	return r
}
