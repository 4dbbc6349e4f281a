package respond

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// OK writes a 200 JSON body.
func OK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// CSV writes body as a downloadable CSV attachment named filename.
func CSV(c *gin.Context, filename string, body []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}
