package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cleardrip/cleardrip/pkg/metrics"
)

// Metrics HTTP请求指标中间件
// 教学要点:
// 1. 以FullPath()作为path标签(路由模板,如/api/v1/payment/order),
//    绝不能用c.Request.URL.Path,否则/orders/1、/orders/2会把
//    标签基数炸掉
// 2. InProgress用Gauge:请求进入+1,defer里-1
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		path := c.FullPath()
		if path == "" {
			path = "unknown" // 未命中任何路由(404)
		}

		metrics.IncGauge(metrics.HTTPRequestsInProgress)
		defer metrics.DecGauge(metrics.HTTPRequestsInProgress)

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		metrics.IncCounterVec(metrics.HTTPRequestsTotal, c.Request.Method, path, status)
		metrics.ObserveHistogramVec(metrics.HTTPRequestDuration, time.Since(start).Seconds(), c.Request.Method, path)
	}
}
