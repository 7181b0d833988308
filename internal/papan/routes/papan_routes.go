package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/c14220110/absensi-dashboard/internal/papan/controllers"
)

// RegisterPapanRoutes mendaftarkan papan order, pengumuman dan task mbak.
// Pengumuman hanya boleh diubah admin; tanda baca terbuka untuk semua token.
func RegisterPapanRoutes(api *echo.Group, pc *controllers.PapanController, admin echo.MiddlewareFunc) {
	orders := api.Group("/orders")
	orders.GET("", pc.ListOrders)
	orders.POST("", pc.AddOrder)
	orders.PUT("/:orderId", pc.UpdateOrder)
	orders.PUT("/:orderId/status", pc.UpdateOrderStatus)
	orders.POST("/:orderId/notes", pc.AddOrderNote)
	orders.DELETE("/:orderId", pc.DeleteOrder)

	attentions := api.Group("/attentions")
	attentions.GET("", pc.ListAttentions)
	attentions.POST("", pc.AddAttention, admin)
	attentions.PUT("/:attId", pc.UpdateAttention, admin)
	attentions.DELETE("/:attId", pc.DeleteAttention, admin)
	attentions.POST("/:attId/read", pc.ToggleRead)

	mbak := api.Group("/mbak")
	mbak.GET("", pc.ListMbak)
	mbak.POST("", pc.AddMbak)
	mbak.POST("/:mbakId/toggle", pc.ToggleMbak)
	mbak.DELETE("/:mbakId", pc.DeleteMbak)
}
