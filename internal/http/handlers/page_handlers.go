package handlers

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="he" dir="rtl">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body><h1>{{.Title}}</h1></body>
</html>
`))

// Page returns a handler rendering a minimal shell for the given
// title. The real screens are client rendered; the server only has to
// answer the routes the auth gateway redirects to.
func Page(title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Status(http.StatusOK)
		c.Header("Content-Type", "text/html; charset=utf-8")
		_ = pageTmpl.Execute(c.Writer, gin.H{"Title": title})
	}
}
