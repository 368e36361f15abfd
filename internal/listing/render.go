package listing

import (
	"html/template"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Page 一个目录页面的数据，Segments 为相对根目录的路径段。
// Prefix 是文件服务挂载的路径前缀（如 "/dl"），根挂载时为空，所有链接都以它开头。
type Page struct {
	Prefix   string
	Segments []string
	Entries  []Entry
}

type crumb struct {
	Name string
	Link string
}

type row struct {
	Name    string
	Link    string
	IsDir   bool
	Size    string
	ModTime string
}

type view struct {
	Title     string
	Crumbs    []crumb
	Parent    string
	HasParent bool
	Rows      []row
	Generated string
}

var pageTemplate = template.Must(template.New("listing").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: monospace; margin: 2em; }
table { border-collapse: collapse; }
td { padding: 2px 16px 2px 0; }
.size, .time { color: #666; }
</style>
</head>
<body>
<h3>{{range .Crumbs}}<a href="{{.Link}}">{{.Name}}</a> / {{end}}</h3>
<table>
{{if .HasParent}}<tr><td><a href="{{.Parent}}">..</a></td><td></td><td></td></tr>{{end}}
{{range .Rows}}<tr><td><a href="{{.Link}}">{{.Name}}{{if .IsDir}}/{{end}}</a></td><td class="size">{{if not .IsDir}}{{.Size}}{{end}}</td><td class="time">{{.ModTime}}</td></tr>
{{end}}</table>
<hr>
<small>Generated at {{.Generated}}</small>
</body>
</html>
`))

// Render 输出 HTML 目录页
func Render(w io.Writer, page Page) error {
	base := basePath(page.Prefix)
	v := view{
		Title:     "/" + strings.Join(page.Segments, "/"),
		Crumbs:    []crumb{{Name: "[root]", Link: base + "/"}},
		HasParent: len(page.Segments) > 0,
		Generated: Now(),
	}

	for i, seg := range page.Segments {
		v.Crumbs = append(v.Crumbs, crumb{Name: seg, Link: dirLink(base, page.Segments[:i+1])})
	}
	if v.HasParent {
		v.Parent = dirLink(base, page.Segments[:len(page.Segments)-1])
	}

	for _, e := range page.Entries {
		segs := append(append([]string{}, page.Segments...), e.Name)
		link := base + "/" + EncodeLinkPath(segs)
		if e.IsDir {
			link += "/"
		}
		v.Rows = append(v.Rows, row{
			Name:    e.Name,
			Link:    link,
			IsDir:   e.IsDir,
			Size:    HumanSize(e.Size),
			ModTime: FormatTime(e.ModTime),
		})
	}

	if err := pageTemplate.Execute(w, v); err != nil {
		return errors.Wrap(err, "render listing")
	}
	return nil
}

// basePath 编码后的前缀，不带结尾斜杠
func basePath(prefix string) string {
	trimmed := strings.Trim(prefix, "/")
	if trimmed == "" {
		return ""
	}
	return "/" + EncodeLinkPath(strings.Split(trimmed, "/"))
}

func dirLink(base string, segments []string) string {
	if len(segments) == 0 {
		return base + "/"
	}
	return base + "/" + EncodeLinkPath(segments) + "/"
}

func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}
