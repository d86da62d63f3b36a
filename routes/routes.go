package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/patientfunnel/server/cache"
	"github.com/patientfunnel/server/config"
	"github.com/patientfunnel/server/controllers"
	"github.com/patientfunnel/server/models"
	"github.com/patientfunnel/server/security"
)

// Register wires every endpoint. responseCache may be nil, in which case
// list endpoints are served uncached.
func Register(r *gin.Engine, cfg *config.Config, responseCache *cache.ResponseCache) {
	r.Use(security.RequestIDMiddleware())
	r.Use(security.CORSMiddleware())

	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")

	// Public endpoints
	api.POST("/token", controllers.Login)
	api.POST("/token/refresh", controllers.RefreshToken)
	api.POST("/registrations", controllers.CreateRegistration)

	// Externally triggered mutation endpoints carry an HMAC signature
	// instead of a user token.
	webhooks := api.Group("", security.WebhookSignatureMiddleware(cfg.WebhookSecret))
	{
		webhooks.POST("/webhook/consultation-data", controllers.ProcessAIResults)
		webhooks.POST("/consultas/audio", controllers.SaveConsultationFiles)
	}

	// Everything below requires a valid access token.
	auth := api.Group("", security.AuthMiddleware(config.DB, cfg.JWTSecret))

	auth.POST("/auth/verify-password", controllers.VerifyPassword)
	auth.GET("/dashboard", controllers.Dashboard)
	auth.GET("/clinica/info", controllers.GetClinicaInfo)
	auth.GET("/pipedrive/patients", controllers.SyncPipedrivePatients)

	auth.POST("/2fa", controllers.TwoFactor)
	auth.POST("/2fa/trusted-device", controllers.TrustedDevice)

	clinicas := auth.Group("/clinicas")
	{
		listClinicas := controllers.GetClinicas
		if responseCache != nil {
			clinicas.GET("", responseCache.Middleware(), listClinicas)
		} else {
			clinicas.GET("", listClinicas)
		}
		clinicas.POST("", security.RequireRole(models.RoleSuperAdmin), controllers.CreateClinica)
		clinicas.GET("/:id", controllers.GetClinica)
		clinicas.PUT("/:id", security.RequireRole(models.RoleClinicAdmin), controllers.UpdateClinica)
		clinicas.DELETE("/:id", security.RequireRole(models.RoleSuperAdmin), controllers.DeleteClinica)
		clinicas.GET("/:id/medicos", controllers.GetMedicosByClinica)
		clinicas.GET("/:id/pacientes", controllers.GetPacientesByClinica)
		clinicas.GET("/:id/consultas", controllers.GetConsultasByClinica)
	}

	usuarios := auth.Group("/usuarios", security.RequireRole(models.RoleSuperAdmin))
	{
		usuarios.GET("", controllers.GetUsuarios)
		usuarios.POST("", controllers.CreateUsuario)
		usuarios.DELETE("/:id", controllers.DeleteUsuario)
	}

	medicos := auth.Group("/medicos")
	{
		medicos.GET("", controllers.GetMedicos)
		medicos.POST("", security.RequireRole(models.RoleClinicAdmin), controllers.CreateMedico)
		medicos.GET("/:id", controllers.GetMedico)
		medicos.PUT("/:id", security.RequireRole(models.RoleClinicAdmin), controllers.UpdateMedico)
		medicos.DELETE("/:id", security.RequireRole(models.RoleClinicAdmin), controllers.DeleteMedico)
		medicos.GET("/:id/servicos", controllers.GetMedicoServicos)
		medicos.POST("/:id/servicos", security.RequireRole(models.RoleClinicAdmin), controllers.AttachServico)
		medicos.DELETE("/:id/servicos/:servico_id", security.RequireRole(models.RoleClinicAdmin), controllers.DetachServico)
	}

	pacientes := auth.Group("/pacientes")
	{
		pacientes.GET("", controllers.GetPacientes)
		pacientes.POST("", controllers.CreatePaciente)
		pacientes.GET("/:id", controllers.GetPaciente)
		pacientes.PUT("/:id", controllers.UpdatePaciente)
		pacientes.DELETE("/:id", security.RequireRole(models.RoleClinicAdmin), controllers.DeletePaciente)
	}

	servicos := auth.Group("/servicos")
	{
		listServicos := controllers.GetServicos
		if responseCache != nil {
			servicos.GET("", responseCache.Middleware(), listServicos)
		} else {
			servicos.GET("", listServicos)
		}
		servicos.POST("", security.RequireRole(models.RoleClinicAdmin), controllers.CreateServico)
		servicos.GET("/:id", controllers.GetServico)
		servicos.PUT("/:id", security.RequireRole(models.RoleClinicAdmin), controllers.UpdateServico)
		servicos.DELETE("/:id", security.RequireRole(models.RoleClinicAdmin), controllers.DeleteServico)
	}

	consultas := auth.Group("/consultas")
	{
		consultas.GET("", controllers.GetConsultas)
		consultas.GET("/:id", controllers.GetConsulta)
		consultas.DELETE("/:id", security.RequireRole(models.RoleClinicAdmin), controllers.DeleteConsulta)
	}
	auth.POST("/consulta/gravar", controllers.GravarConsulta)

	registrations := auth.Group("/registrations", security.RequireRole(models.RoleSuperAdmin))
	{
		registrations.GET("", controllers.GetRegistrations)
		registrations.POST("/:id/approve", controllers.ApproveRegistration)
		registrations.POST("/:id/reject", controllers.RejectRegistration)
	}

	auth.GET("/database/overview", security.RequireRole(models.RoleSuperAdmin), controllers.DatabaseOverview)
}
