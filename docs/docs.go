// Package docs 注册 FastFile 的 Swagger 文档，import 后 /swagger/doc.json 可用
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/{filepath}": {
            "get": {
                "summary": "下载文件或浏览目录",
                "parameters": [
                    {
                        "type": "string",
                        "description": "相对根目录的路径",
                        "name": "filepath",
                        "in": "path"
                    },
                    {
                        "type": "string",
                        "description": "bytes=start-end",
                        "name": "Range",
                        "in": "header"
                    }
                ],
                "responses": {
                    "200": {"description": "完整内容或目录页面"},
                    "206": {"description": "部分内容"},
                    "403": {"description": "Forbidden"},
                    "404": {"description": "Not Found"},
                    "416": {"description": "Range Not Satisfiable"},
                    "500": {"description": "Internal Server Error"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "FastFile",
	Description:      "Static file server with HTTP Range support.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
