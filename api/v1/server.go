package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /collector)
	GetCollectorStatus(c *gin.Context)
	// (GET /services)
	ListServices(c *gin.Context, params ListServicesParams)
	// (GET /services/:id)
	GetService(c *gin.Context, id string)
}

// ServerInterfaceWrapper converts gin contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) GetCollectorStatus(c *gin.Context) {
	w.Handler.GetCollectorStatus(c)
}

func (w *ServerInterfaceWrapper) ListServices(c *gin.Context) {
	var params ListServicesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, Error{Error: "invalid query parameters"})
		return
	}
	w.Handler.ListServices(c, params)
}

func (w *ServerInterfaceWrapper) GetService(c *gin.Context) {
	w.Handler.GetService(c, c.Param("id"))
}

// RegisterHandlers creates http.Handler with routing matching the API.
func RegisterHandlers(router gin.IRouter, si ServerInterface) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.GET("/collector", wrapper.GetCollectorStatus)
	router.GET("/services", wrapper.ListServices)
	router.GET("/services/:id", wrapper.GetService)
}
