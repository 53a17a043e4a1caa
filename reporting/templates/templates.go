package templates

// IndexTempl lists the dataset and the outcome of every analysis
var IndexTempl = `<!DOCTYPE html>
<html>
<head>
<meta content="text/html;charset=utf-8" http-equiv="Content-Type">
<link rel="stylesheet" type="text/css" href="style.css">
<title>{{.Dataset.Name}}</title>
</head>
<body>
<ul>
  <li><a href="index.html">trafficlens: {{.Dataset.Name}}</a></li>
  <li style="float:right"><a href="index.json">index.json</a></li>
</ul>
<h1>{{.Dataset.Name}}</h1>
<div class="info">
  {{.Dataset.Records}} records from {{range $idx, $src := .Dataset.Sources}}{{if $idx}}, {{end}}{{$src}}{{end}}<br>
  loaded {{.Dataset.LoadedAt}}, report generated {{.Generated}} by {{.Version}}
</div>
<div class="container">
<table>
  <tr><th>Analysis</th><th>Description</th><th>Status</th><th>Result</th></tr>
  {{range .Analyses}}<tr{{if ne .Status "ok"}} class="failed"{{end}}><td>{{.Name}}</td><td>{{.Description}}</td><td>{{.Status}}{{if .Error}}: {{.Error}}{{end}}</td><td>{{if .File}}<a href="{{.File}}">{{.File}}</a>{{end}}</td></tr>
  {{end}}
</table>
</div>
</body>
</html>
`
