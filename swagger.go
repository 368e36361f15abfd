package FastFile

import (
	"net/http"

	"github.com/swaggo/swag"
)

// SwaggerHandler 处理 /swagger 下的请求，文档来自 swag 注册表（见 docs 包）
func SwaggerHandler() HandlerFunc {
	return func(c *Context) {
		switch c.Param("any") {
		case "doc.json":
			doc, err := swag.ReadDoc()
			if err != nil {
				c.NotFound("swagger doc not registered")
				return
			}
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
		case "":
			c.Redirect(http.StatusFound, "/swagger/index.html")
		case "index.html":
			c.SendHtml(http.StatusOK, SwaggerIndexHTML)
		default:
			c.NotFound("Not Found")
		}
	}
}

// SwaggerIndexHTML 是 Swagger UI 的 HTML 页面
const SwaggerIndexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Swagger UI</title>
    <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
        window.onload = function() {
            window.ui = SwaggerUIBundle({
                url: "/swagger/doc.json",
                dom_id: '#swagger-ui',
                deepLinking: true
            });
        };
    </script>
</body>
</html>`
