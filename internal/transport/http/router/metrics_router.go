package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (r *Router) metricsRouter() {
	r.server.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
