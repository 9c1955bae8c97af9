package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yigit/fypdash/internal/app/controllers"
	"github.com/yigit/fypdash/internal/middleware"
	"github.com/yigit/fypdash/internal/pkg/websocket"
)

// Controllers groups every handler mounted by SetupRouter
type Controllers struct {
	Auth    *controllers.AuthController
	School  *controllers.SchoolController
	Project *controllers.ProjectController
	Wizard  *controllers.WizardController
	Health  *controllers.HealthController
	Events  *websocket.Handler
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, ctrl Controllers, sessionMW *middleware.SessionMiddleware) {
	// --- Ops routes ---
	router.GET("/health", ctrl.Health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	SetupSwagger(router)

	app := router.Group("")
	app.Use(sessionMW.Load())

	// --- Auth routes ---
	auth := app.Group("/auth")
	{
		public := auth.Group("")
		public.Use(sessionMW.Public())
		{
			public.GET("/login", ctrl.Auth.LoginPage)
			public.POST("/login", ctrl.Auth.Login)
			public.GET("/register", ctrl.Auth.RegisterPage)
			public.POST("/register", ctrl.Auth.Register)
		}
		auth.POST("/logout", ctrl.Auth.Logout)
	}

	// --- Protected routes ---
	school := app.Group("/school/:schoolId")
	school.Use(sessionMW.Protected())
	{
		school.GET("", ctrl.School.Landing)
		school.GET("/college", ctrl.School.Colleges)

		college := school.Group("/college/:collegeId")
		{
			college.GET("/department", ctrl.School.Departments)

			department := college.Group("/department/:departmentId")
			{
				department.GET("/projects", ctrl.School.Projects)
				department.GET("/project/:projectId", ctrl.Project.Detail)
				department.GET("/project/:projectId/edit", ctrl.Project.EditPanel)
				department.PUT("/project/:projectId/edit", ctrl.Project.Update)
			}
		}

		school.POST("/wizard", ctrl.Wizard.Open)
		school.GET("/wizard/events", ctrl.Events.HandleConnection)

		wizard := school.Group("/wizard")
		wizard.Use(ctrl.Wizard.SameSchool())
		{
			wizard.GET("", ctrl.Wizard.State)
			wizard.PUT("/college", ctrl.Wizard.SelectCollege)
			wizard.PUT("/department", ctrl.Wizard.SelectDepartment)
			wizard.PUT("/supervisor", ctrl.Wizard.SelectSupervisor)
			wizard.PUT("/supervisor-mode", ctrl.Wizard.SetSupervisorMode)
			wizard.PUT("/details", ctrl.Wizard.UpdateDetails)
			wizard.POST("/details/submit", ctrl.Wizard.SubmitDetails)
			wizard.POST("/back", ctrl.Wizard.Back)
			wizard.PUT("/file", ctrl.Wizard.SelectFile)
			wizard.DELETE("/file", ctrl.Wizard.RemoveFile)
			wizard.POST("/upload", ctrl.Wizard.Upload)
			wizard.POST("/submit", ctrl.Wizard.SubmitFile)
			wizard.POST("/close", ctrl.Wizard.Close)
		}
	}

	router.NoRoute(ctrl.Health.NotFound)
}
